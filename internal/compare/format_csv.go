package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Revenue per Household",
		"Rebate per Household",
		"Subsidies per Household",
		"Net Winners",
		"Poorest Net",
		"Richest Net",
		"Spread",
		"Revenue Diff from Base",
		"Net Winners Diff",
		"Poorest Net Diff",
		"Richest Net Diff",
		"Spread Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		result.RevenuePerHousehold.StringFixed(2),
		result.RebatePerHousehold.StringFixed(2),
		result.SubsidyPerHousehold.StringFixed(2),
		strconv.Itoa(result.NetWinners),
		result.PoorestNet.StringFixed(2),
		result.RichestNet.StringFixed(2),
		result.Spread.StringFixed(2),
		result.RevenueDiffFromBase.StringFixed(2),
		strconv.Itoa(result.NetWinnersDiff),
		result.PoorestNetDiff.StringFixed(2),
		result.RichestNetDiff.StringFixed(2),
		result.SpreadDiff.StringFixed(2),
	}
}
