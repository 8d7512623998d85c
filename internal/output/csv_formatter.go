package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVFormatter writes the download format: Group,Tax Cost,Net Transfer
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Group", "Tax Cost", "Net Transfer"}); err != nil {
		return nil, err
	}
	for _, row := range report.Rows() {
		if err := w.Write([]string{row.Label, FormatAmount(row.TaxCost), FormatAmount(row.NetTransfer)}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// DetailedCSVFormatter adds the population weight, tax paid and redistribution columns
type DetailedCSVFormatter struct{}

func (c DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (c DetailedCSVFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Group", "Population Weight", "Tax Paid", "Tax Cost", "Redistribution", "Net Transfer"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, row := range report.Rows() {
		record := []string{
			row.Label,
			fmt.Sprintf("%.4f", row.Weight),
			FormatAmount(row.TaxPaid),
			FormatAmount(row.TaxCost),
			FormatAmount(row.Redistribution),
			FormatAmount(row.NetTransfer),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
