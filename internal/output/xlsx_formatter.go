package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Worksheet names in the xlsx export
const (
	SheetIncidence = "Incidence"
	SheetSummary   = "Summary"
)

// XLSXFormatter writes a workbook with the result rows and a summary sheet
type XLSXFormatter struct{}

func (x XLSXFormatter) Name() string { return "xlsx" }

func (x XLSXFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetIncidence); err != nil {
		return nil, err
	}
	if err := writeIncidenceSheet(f, report); err != nil {
		return nil, fmt.Errorf("failed to write %s sheet: %w", SheetIncidence, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	if err := writeSummarySheet(f, report); err != nil {
		return nil, fmt.Errorf("failed to write %s sheet: %w", SheetSummary, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeIncidenceSheet(f *excelize.File, report *Report) error {
	unit := report.Unit()
	headers := []string{
		"Group", "Population Weight",
		"Tax Paid (" + report.Currency() + ")",
		"Tax Cost (" + unit + ")",
		"Redistribution (" + unit + ")",
		"Net Transfer (" + unit + ")",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(SheetIncidence, cell, h); err != nil {
			return err
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	f.SetRowStyle(SheetIncidence, 1, 1, headerStyle)

	for i, row := range report.Rows() {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{
			row.Label,
			row.Weight,
			round2(row.TaxPaid).InexactFloat64(),
			round2(row.TaxCost).InexactFloat64(),
			round2(row.Redistribution).InexactFloat64(),
			round2(row.NetTransfer).InexactFloat64(),
		}
		if err := f.SetSheetRow(SheetIncidence, cell, &values); err != nil {
			return err
		}
	}

	f.SetColWidth(SheetIncidence, "A", "A", 18)
	f.SetColWidth(SheetIncidence, "B", "F", 20)
	return nil
}

func writeSummarySheet(f *excelize.File, report *Report) error {
	res := report.Result
	p := res.Parameters
	data := [][]interface{}{
		{"Item", "Value"},
		{"Run ID", report.RunID},
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Carbon price (" + report.Currency() + "/" + report.EmissionsUnit() + ")", p.CarbonPrice},
		{"Direct rebate share (%)", p.DirectRebateShare},
		{"Progressivity", p.ProgressivityWeight},
		{"Rural bonus (%)", p.RuralBonusShare},
		{"Measure", p.Measure},
		{"Revenue", round2(res.Totals.Revenue).InexactFloat64()},
		{"Rebate pool", round2(res.Totals.RebatePool).InexactFloat64()},
		{"Subsidy pool", round2(res.Totals.SubsidyPool).InexactFloat64()},
		{"Net winners", res.NetWinners()},
	}
	for _, s := range res.SubsidyFunding {
		data = append(data, []interface{}{
			fmt.Sprintf("Subsidy: %s (%d%%)", s.Name, s.Percent), round2(s.Amount).InexactFloat64(),
		})
	}
	if t := res.Transfer; t != nil {
		data = append(data,
			[]interface{}{"Rural transfer per household", round2(t.TargetPerHousehold).InexactFloat64()},
			[]interface{}{"Rural transfer capped", t.Capped},
		)
	}

	for i, row := range data {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			if err := f.SetCellValue(SheetSummary, cell, val); err != nil {
				return err
			}
		}
	}
	f.SetColWidth(SheetSummary, "A", "A", 40)
	f.SetColWidth(SheetSummary, "B", "B", 40)
	return nil
}
