package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct {
	Currency string
}

// Format generates a formatted table for one result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Parameter:           %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Group:               decile %d\n", result.Group))
	sb.WriteString(fmt.Sprintf("Target net transfer: %s\n", tf.formatCurrency(result.Request.Constraints.TargetNet)))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("RESULT\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.Success {
		sb.WriteString(fmt.Sprintf("Break-even %s:  %s\n", result.Target, tf.formatValue(result.Value)))
	} else {
		sb.WriteString(fmt.Sprintf("Closest %s:     %s\n", result.Target, tf.formatValue(result.Value)))
	}
	sb.WriteString(fmt.Sprintf("Net transfer there:  %s\n", tf.formatCurrency(result.NetTransfer)))
	sb.WriteString("\n")

	lo, hi := result.Request.Constraints.Bounds()
	sb.WriteString("COMPARISON TO BASE\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base %s:  %s (net %s)\n", result.Target, tf.formatValue(result.BaseValue), tf.formatCurrency(result.BaseNet)))
	sb.WriteString(fmt.Sprintf("At %-6s         net %s\n", tf.formatValue(lo)+":", tf.formatCurrency(result.NetAtMin)))
	sb.WriteString(fmt.Sprintf("At %-6s         net %s\n", tf.formatValue(hi)+":", tf.formatCurrency(result.NetAtMax)))
	if result.Success {
		change := result.Value - result.BaseValue
		sb.WriteString(fmt.Sprintf("Change needed:       %s%s\n", tf.deltaSymbol(change), tf.formatValue(change)))
	}
	sb.WriteString("\n")

	return sb.String()
}

// FormatMultiGroup formats one row per decile
func (tf *TableFormatter) FormatMultiGroup(result *MultiGroupResult) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("BREAK-EVEN BY DECILE: %s\n", strings.ToUpper(string(result.Target))))
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString(fmt.Sprintf("%-8s %12s %14s %14s %14s\n", "Group", "Break-even", "Net at base", "Net at min", "Net at max"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	for _, res := range result.Results {
		value := "n/a"
		if res.Success {
			value = tf.formatValue(res.Value)
		}
		sb.WriteString(fmt.Sprintf("%-8d %12s %14s %14s %14s\n",
			res.Group, value,
			tf.formatCurrency(res.BaseNet),
			tf.formatCurrency(res.NetAtMin),
			tf.formatCurrency(res.NetAtMax)))
	}
	sb.WriteString("\n")

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiGroup formats per-decile results as JSON
func (jf *JSONFormatter) FormatMultiGroup(result *MultiGroupResult) (string, error) {
	return jf.marshal(result)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ No break-even in range"
}

func (tf *TableFormatter) formatCurrency(v float64) string {
	s := decimal.NewFromFloat(v).Round(2).StringFixed(2)
	if tf.Currency == "" {
		return s
	}
	return s + " " + tf.Currency
}

func (tf *TableFormatter) formatValue(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func (tf *TableFormatter) deltaSymbol(delta float64) string {
	if delta > 0 {
		return "+"
	}
	return ""
}
