package output

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgehrsitz/carbontax/internal/domain"
)

// JSONFormatter writes the full result with run metadata
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

type jsonRow struct {
	Group          string  `json:"group"`
	Weight         float64 `json:"populationWeight"`
	TaxPaid        float64 `json:"taxPaid"`
	TaxCost        float64 `json:"taxCost"`
	Redistribution float64 `json:"redistribution"`
	NetTransfer    float64 `json:"netTransfer"`
}

type jsonReport struct {
	RunID          string                    `json:"runId"`
	GeneratedAt    time.Time                 `json:"generatedAt"`
	Reference      string                    `json:"reference,omitempty"`
	Currency       string                    `json:"currency"`
	Unit           string                    `json:"unit"`
	Relative       bool                      `json:"relative"`
	Parameters     domain.Parameters         `json:"parameters"`
	Totals         domain.Totals             `json:"totals"`
	SubsidyFunding []domain.SubsidyFunding   `json:"subsidyFunding"`
	Transfer       *domain.TerritoryTransfer `json:"territoryTransfer,omitempty"`
	NetWinners     int                       `json:"netWinners"`
	Rows           []jsonRow                 `json:"rows"`
}

func (j JSONFormatter) Format(report *Report) ([]byte, error) {
	if report == nil || report.Result == nil {
		return nil, fmt.Errorf("no result to format")
	}
	res := report.Result
	out := jsonReport{
		RunID:          report.RunID,
		GeneratedAt:    report.GeneratedAt,
		Currency:       report.Currency(),
		Unit:           report.Unit(),
		Relative:       report.Relative,
		Parameters:     res.Parameters,
		Totals:         res.Totals,
		SubsidyFunding: res.SubsidyFunding,
		Transfer:       res.Transfer,
		NetWinners:     res.NetWinners(),
	}
	if report.Reference != nil {
		out.Reference = report.Reference.Name
	}
	for _, row := range report.Rows() {
		out.Rows = append(out.Rows, jsonRow{
			Group:          row.Label,
			Weight:         row.Weight,
			TaxPaid:        round2(row.TaxPaid).InexactFloat64(),
			TaxCost:        round2(row.TaxCost).InexactFloat64(),
			Redistribution: round2(row.Redistribution).InexactFloat64(),
			NetTransfer:    round2(row.NetTransfer).InexactFloat64(),
		})
	}
	return json.MarshalIndent(out, "", "  ")
}
