package output

import (
	"bytes"
	"fmt"
	"math"
	"strings"
)

// BarHalfWidth is the number of cells on each side of the axis in console bars
const BarHalfWidth = 20

// ConsoleFormatter renders the result table with a diverging net-transfer bar per row
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	var buf bytes.Buffer
	res := report.Result
	p := res.Parameters

	title := "CARBON TAX INCIDENCE"
	if report.Reference != nil && report.Reference.Name != "" {
		title += ": " + strings.ToUpper(report.Reference.Name)
	}
	fmt.Fprintln(&buf, strings.Repeat("=", 78))
	fmt.Fprintln(&buf, title)
	fmt.Fprintln(&buf, strings.Repeat("=", 78))
	fmt.Fprintf(&buf, "Carbon price:          %s %s/%s\n", FormatAmount(p.CarbonPrice), report.Currency(), report.EmissionsUnit())
	fmt.Fprintf(&buf, "Direct rebate share:   %s\n", FormatPercentage(p.DirectRebateShare))
	fmt.Fprintf(&buf, "Progressivity:         %.0f\n", p.ProgressivityWeight)
	fmt.Fprintf(&buf, "Rural bonus:           %s\n", FormatPercentage(p.RuralBonusShare))
	if p.Measure != "" {
		fmt.Fprintf(&buf, "Measure:               %s\n", p.Measure)
	}
	fmt.Fprintln(&buf)

	rows := report.Rows()
	unit := report.Unit()
	fmt.Fprintf(&buf, "%-18s %12s %12s %12s  %s\n", "Group", "Tax Cost", "Rebate", "Net", "Net transfer ("+unit+")")
	fmt.Fprintln(&buf, strings.Repeat("-", 58+2*BarHalfWidth+1))

	maxAbs := 0.0
	for _, row := range rows {
		maxAbs = math.Max(maxAbs, math.Abs(row.NetTransfer))
	}
	for _, row := range rows {
		fmt.Fprintf(&buf, "%-18s %12s %12s %12s  %s\n",
			row.Label, FormatAmount(row.TaxCost), FormatAmount(row.Redistribution),
			FormatSigned(row.NetTransfer), DivergingBar(row.NetTransfer, maxAbs, BarHalfWidth))
	}
	fmt.Fprintln(&buf)

	writeTotals(&buf, report)
	return buf.Bytes(), nil
}

func writeTotals(buf *bytes.Buffer, report *Report) {
	res := report.Result
	cur := report.Currency()

	fmt.Fprintln(buf, "REVENUE")
	fmt.Fprintln(buf, "-------")
	fmt.Fprintf(buf, "  Revenue per household: %s %s\n", FormatAmount(res.PerHousehold(res.Totals.Revenue)), cur)
	fmt.Fprintf(buf, "  Direct rebates:        %s %s\n", FormatAmount(res.PerHousehold(res.Totals.RebatePool)), cur)
	fmt.Fprintf(buf, "  Subsidy programs:      %s %s\n", FormatAmount(res.PerHousehold(res.Totals.SubsidyPool)), cur)
	for _, f := range res.SubsidyFunding {
		fmt.Fprintf(buf, "    %-24s %3d%%  %s %s\n", f.Name, f.Percent, FormatAmount(res.PerHousehold(f.Amount)), cur)
	}
	if t := res.Transfer; t != nil {
		fmt.Fprintf(buf, "  Rural transfer:        %s %s per rural household", FormatAmount(t.TargetPerHousehold), cur)
		if t.Capped {
			fmt.Fprint(buf, " (capped by the urban-center rebate)")
		}
		fmt.Fprintln(buf)
	}
	fmt.Fprintf(buf, "  Net winners:           %d of %d groups\n", res.NetWinners(), res.Len())
	if report.RunID != "" {
		fmt.Fprintf(buf, "  Run:                   %s\n", report.RunID)
	}
}

// DivergingBar draws value on a centered axis: losses grow left of '|' and
// gains grow right, scaled so maxAbs fills halfWidth cells
func DivergingBar(value, maxAbs float64, halfWidth int) string {
	left, right := BarCells(value, maxAbs, halfWidth)
	return strings.Repeat(" ", halfWidth-left) + strings.Repeat("█", left) +
		"|" + strings.Repeat("█", right) + strings.Repeat(" ", halfWidth-right)
}

// BarCells returns how many cells a diverging bar fills left and right of the axis
func BarCells(value, maxAbs float64, halfWidth int) (left, right int) {
	if maxAbs <= 0 || halfWidth <= 0 || math.IsNaN(value) {
		return 0, 0
	}
	n := int(math.Round(math.Min(1, math.Abs(value)/maxAbs) * float64(halfWidth)))
	if value < 0 {
		return n, 0
	}
	return 0, n
}
