package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/shopspring/decimal"
)

// Formatter renders a Report into bytes
type Formatter interface {
	Name() string
	Format(report *Report) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter
type FormatterFunc struct {
	ID string
	F  func(report *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *Report) ([]byte, error) { return f.F(report) }

// Report is one model run plus the context formatters print around it
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Reference   *domain.ReferenceData
	Result      *domain.IncidenceResult

	// Relative reports amounts as a percent of each row's tax paid
	Relative bool
}

// NewReport stamps a result with a fresh run ID
func NewReport(result *domain.IncidenceResult, ref *domain.ReferenceData, relative bool) *Report {
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
		Reference:   ref,
		Result:      result,
		Relative:    relative,
	}
}

// Row is one result row in display units
type Row struct {
	Label          string
	Weight         float64
	TaxPaid        float64
	TaxCost        float64
	Redistribution float64
	NetTransfer    float64
}

// Rows returns the result rows, converted to percent of tax paid in relative mode
func (r *Report) Rows() []Row {
	res := r.Result
	rows := make([]Row, res.Len())
	for i := range rows {
		row := Row{
			Label:          res.Labels[i],
			Weight:         res.PopulationWeights[i],
			TaxPaid:        res.TaxPaid[i],
			TaxCost:        res.TaxCost[i],
			Redistribution: res.Redistribution[i],
			NetTransfer:    res.NetTransfer[i],
		}
		if r.Relative {
			row.TaxCost = percentOf(row.TaxCost, row.TaxPaid)
			row.Redistribution = percentOf(row.Redistribution, row.TaxPaid)
			row.NetTransfer = percentOf(row.NetTransfer, row.TaxPaid)
		}
		rows[i] = row
	}
	return rows
}

// Unit is the unit of the amounts Rows returns
func (r *Report) Unit() string {
	if r.Relative {
		return "%"
	}
	return r.Currency()
}

// Currency returns the reference data currency, defaulting to EUR
func (r *Report) Currency() string {
	if r.Reference != nil && r.Reference.Currency != "" {
		return r.Reference.Currency
	}
	return "EUR"
}

// EmissionsUnit returns the reference data emissions unit, defaulting to tCO2e
func (r *Report) EmissionsUnit() string {
	if r.Reference != nil && r.Reference.Unit != "" {
		return r.Reference.Unit
	}
	return "tCO2e"
}

func percentOf(v, base float64) float64 {
	if base <= 0 {
		return 0
	}
	return v / base * 100
}

var formatters = map[string]Formatter{
	"console":      ConsoleFormatter{},
	"csv":          CSVFormatter{},
	"detailed-csv": DetailedCSVFormatter{},
	"json":         JSONFormatter{},
	"xlsx":         XLSXFormatter{},
}

var formatAliases = map[string]string{
	"table": "console",
	"bars":  "console",
	"excel": "xlsx",
}

// GetFormatterByName returns the named formatter (aliases accepted), or nil
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := formatAliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists formatter names, sorted
func AvailableFormatterNames() []string {
	return sortedKeys(formatters)
}

// AvailableFormatAliases lists accepted aliases, sorted
func AvailableFormatAliases() []string {
	return sortedKeys(formatAliases)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extension returns the file extension for a formatter's output
func Extension(formatter Formatter) string {
	switch formatter.Name() {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "xlsx":
		return "xlsx"
	default:
		return "txt"
	}
}

// WriteFormatted formats the report and writes it to a timestamped file in
// the working directory, returning the file name
func WriteFormatted(formatter Formatter, report *Report, ext string) (string, error) {
	return WriteFormattedIn(".", formatter, report, ext)
}

// WriteFormattedIn is WriteFormatted into dir
func WriteFormattedIn(dir string, formatter Formatter, report *Report, ext string) (string, error) {
	data, err := formatter.Format(report)
	if err != nil {
		return "", err
	}
	stamp := time.Now()
	if report != nil && !report.GeneratedAt.IsZero() {
		stamp = report.GeneratedAt
	}
	filename := filepath.Join(dir, fmt.Sprintf("carbon-pricing-data_%s.%s", stamp.Format("20060102_150405"), ext))
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}

// FormatAmount rounds to two decimals
func FormatAmount(v float64) string {
	return round2(v).StringFixed(2)
}

// FormatSigned is FormatAmount with an explicit plus sign for gains
func FormatSigned(v float64) string {
	d := round2(v)
	if d.IsPositive() {
		return "+" + d.StringFixed(2)
	}
	return d.StringFixed(2)
}

// FormatPercentage formats a percent value with one decimal
func FormatPercentage(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1) + "%"
}

// round2 rounds half away from zero so exported money matches the console
func round2(v float64) decimal.Decimal {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsZero() {
		return decimal.Zero
	}
	return d
}
