package compare

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing scenarios
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	// Header
	sb.WriteString("CARBON TAX SCENARIO COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 96) + "\n")
	sb.WriteString(fmt.Sprintf("Base Scenario: %s\n", compSet.BaseScenarioName))
	if compSet.ConfigPath != "" {
		sb.WriteString(fmt.Sprintf("Configuration: %s\n", compSet.ConfigPath))
	}
	if compSet.Currency != "" {
		sb.WriteString(fmt.Sprintf("Amounts: %s per household per year\n", compSet.Currency))
	}
	sb.WriteString("\n")

	nameWidth := 26
	numWidth := 11

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		numWidth, "Revenue",
		numWidth, "Rebate",
		numWidth, "Subsidies",
		numWidth, "Poorest",
		numWidth, "Richest",
		7, "Winners"))
	sb.WriteString(strings.Repeat("-", 96) + "\n")

	sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 96) + "\n")

	// Deltas from base
	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}
			sb.WriteString(fmt.Sprintf("  Poorest Decile:   %s\n", signed(alt.PoorestNetDiff)))
			sb.WriteString(fmt.Sprintf("  Richest Decile:   %s\n", signed(alt.RichestNetDiff)))
			sb.WriteString(fmt.Sprintf("  Spread:           %s\n", signed(alt.SpreadDiff)))
			if alt.NetWinnersDiff != 0 {
				sb.WriteString(fmt.Sprintf("  Net Winners:      %+d\n", alt.NetWinnersDiff))
			}
			if !alt.RevenueDiffFromBase.IsZero() {
				sb.WriteString(fmt.Sprintf("  Revenue:          %s\n", signed(alt.RevenueDiffFromBase)))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 96) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	if result == nil {
		return ""
	}
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*s %*s %*s %*s %*s %*d\n",
		nameWidth, tf.truncate(name, nameWidth),
		numWidth, result.RevenuePerHousehold.StringFixed(2),
		numWidth, result.RebatePerHousehold.StringFixed(2),
		numWidth, result.SubsidyPerHousehold.StringFixed(2),
		numWidth, signed(result.PoorestNet),
		numWidth, signed(result.RichestNet),
		7, result.NetWinners)
}

// signed prefixes positive amounts with "+"
func signed(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if !alt.PoorestNetDiff.IsZero() {
			change = signed(alt.PoorestNetDiff)
		}
		sb.WriteString(fmt.Sprintf("%s: poorest %s", alt.ScenarioName, change))
	}

	return sb.String()
}
