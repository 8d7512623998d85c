package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// SensitivityFormatter defines a formatter for sensitivity sweeps
type SensitivityFormatter interface {
	FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error)
	Name() string
}

// SensitivityConsoleFormatter formats a sweep as a table
type SensitivityConsoleFormatter struct{}

func (scf SensitivityConsoleFormatter) Name() string { return "console" }

func (scf SensitivityConsoleFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no points in analysis")
	}
	var buf bytes.Buffer

	base, _ := transform.ScalarValue(analysis.Base, analysis.Parameter)
	baseIndex := closestPoint(analysis.Points, base)

	fmt.Fprintf(&buf, "SENSITIVITY ANALYSIS: %s\n", strings.ToUpper(analysis.Parameter))
	fmt.Fprintf(&buf, "=================================================================\n")
	fmt.Fprintf(&buf, "Base Case: %s = %s %s\n", analysis.Parameter, formatSweepValue(base), analysis.Unit)
	fmt.Fprintf(&buf, "Range: %s to %s (%d steps)\n",
		formatSweepValue(analysis.Points[0].Value),
		formatSweepValue(analysis.Points[len(analysis.Points)-1].Value),
		len(analysis.Points))
	fmt.Fprintln(&buf)

	fmt.Fprintf(&buf, "%-16s %12s %12s %12s %12s %8s\n",
		analysis.Parameter, "Revenue/hh", "Poorest Net", "Richest Net", "Rebate 1", "Winners")
	fmt.Fprintln(&buf, strings.Repeat("-", 78))

	for i, p := range analysis.Points {
		value := formatSweepValue(p.Value)
		if i == baseIndex {
			value += " ← BASE"
		}
		fmt.Fprintf(&buf, "%-16s %12s %12s %12s %12s %8d\n",
			value,
			FormatAmount(p.RevenuePerHousehold),
			FormatSigned(p.PoorestNet),
			FormatSigned(p.RichestNet),
			FormatAmount(p.PoorestRebate),
			p.NetWinners)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SENSITIVITY:")
	fmt.Fprintf(&buf, "  Poorest group net transfer moves by %s over the sweep\n", FormatAmount(analysis.PoorestNetRange))
	fmt.Fprintf(&buf, "  Richest group net transfer moves by %s over the sweep\n", FormatAmount(analysis.RichestNetRange))

	return buf.String(), nil
}

// SensitivityCSVFormatter formats a sweep as CSV
type SensitivityCSVFormatter struct{}

func (scf SensitivityCSVFormatter) Name() string { return "csv" }

func (scf SensitivityCSVFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil || len(analysis.Points) == 0 {
		return "", fmt.Errorf("no points in analysis")
	}
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "parameter_name,parameter_value,revenue,poorest_net,richest_net,poorest_rebate,richest_rebate,min_net,max_net,net_winners\n")
	for _, p := range analysis.Points {
		fmt.Fprintf(&buf, "%s,%.4f,%s,%s,%s,%s,%s,%s,%s,%d\n",
			analysis.Parameter,
			p.Value,
			FormatAmount(p.Revenue),
			FormatAmount(p.PoorestNet),
			FormatAmount(p.RichestNet),
			FormatAmount(p.PoorestRebate),
			FormatAmount(p.RichestRebate),
			FormatAmount(p.MinNetTransfer),
			FormatAmount(p.MaxNetTransfer),
			p.NetWinners)
	}
	return buf.String(), nil
}

// SensitivityJSONFormatter formats a sweep as JSON
type SensitivityJSONFormatter struct{}

func (sjf SensitivityJSONFormatter) Name() string { return "json" }

func (sjf SensitivityJSONFormatter) FormatSensitivityAnalysis(analysis *domain.SensitivityAnalysis) (string, error) {
	if analysis == nil {
		return "", fmt.Errorf("no analysis to format")
	}
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NewSensitivityFormatter creates a sensitivity formatter based on the format name
func NewSensitivityFormatter(format string) SensitivityFormatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return SensitivityCSVFormatter{}
	case "json":
		return SensitivityJSONFormatter{}
	default:
		return SensitivityConsoleFormatter{}
	}
}

func closestPoint(points []domain.SensitivityPoint, value float64) int {
	best, bestDiff := 0, math.Inf(1)
	for i, p := range points {
		if d := math.Abs(p.Value - value); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

func formatSweepValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
