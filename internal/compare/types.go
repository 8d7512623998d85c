package compare

import (
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description"`
	Parameters   domain.Parameters       `json:"parameters"`
	Result       *domain.IncidenceResult `json:"-"`

	// Key Metrics, per household per year
	RevenuePerHousehold decimal.Decimal `json:"revenuePerHousehold"`
	RebatePerHousehold  decimal.Decimal `json:"rebatePerHousehold"`
	SubsidyPerHousehold decimal.Decimal `json:"subsidyPerHousehold"`
	NetWinners          int             `json:"netWinners"`
	PoorestNet          decimal.Decimal `json:"poorestNet"`
	RichestNet          decimal.Decimal `json:"richestNet"`
	Spread              decimal.Decimal `json:"spread"` // PoorestNet - RichestNet

	// Comparison to Base
	RevenueDiffFromBase decimal.Decimal `json:"revenueDiffFromBase"`
	NetWinnersDiff      int             `json:"netWinnersDiff"`
	PoorestNetDiff      decimal.Decimal `json:"poorestNetDiff"`
	RichestNetDiff      decimal.Decimal `json:"richestNetDiff"`
	SpreadDiff          decimal.Decimal `json:"spreadDiff"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
	Currency           string             `json:"currency"`
}

// MetricsCalculator extracts key metrics from model results
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for one model run. The
// poorest and richest rows are the first and last decile.
func (mc *MetricsCalculator) CalculateMetrics(name string, result *domain.IncidenceResult) ComparisonResult {
	out := ComparisonResult{
		ScenarioName: name,
		Parameters:   result.Parameters,
		Result:       result,
		NetWinners:   result.NetWinners(),
	}
	if result.Len() == 0 {
		return out
	}

	out.RevenuePerHousehold = money(result.PerHousehold(result.Totals.Revenue))
	out.RebatePerHousehold = money(result.PerHousehold(result.Totals.RebatePool))
	out.SubsidyPerHousehold = money(result.PerHousehold(result.Totals.SubsidyPool))
	out.PoorestNet = money(result.NetTransfer[0])
	out.RichestNet = money(result.NetTransfer[result.Len()-1])
	out.Spread = out.PoorestNet.Sub(out.RichestNet)
	return out
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.RevenueDiffFromBase = scenario.RevenuePerHousehold.Sub(base.RevenuePerHousehold)
	scenario.NetWinnersDiff = scenario.NetWinners - base.NetWinners
	scenario.PoorestNetDiff = scenario.PoorestNet.Sub(base.PoorestNet)
	scenario.RichestNetDiff = scenario.RichestNet.Sub(base.RichestNet)
	scenario.SpreadDiff = scenario.Spread.Sub(base.Spread)
	return scenario
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	// Best outcome for the poorest decile
	best := -1
	for i, alt := range compSet.AlternativeResults {
		if alt.PoorestNet.GreaterThan(base.PoorestNet) &&
			(best < 0 || alt.PoorestNet.GreaterThan(compSet.AlternativeResults[best].PoorestNet)) {
			best = i
		}
	}
	if best >= 0 {
		alt := compSet.AlternativeResults[best]
		recommendations = append(recommendations,
			"Best for Poorest: "+alt.ScenarioName+" raises the first decile's net transfer by "+
				alt.PoorestNet.Sub(base.PoorestNet).StringFixed(2)+" "+compSet.Currency)
	}

	// Most net winners
	best = -1
	for i, alt := range compSet.AlternativeResults {
		if alt.NetWinners > base.NetWinners &&
			(best < 0 || alt.NetWinners > compSet.AlternativeResults[best].NetWinners) {
			best = i
		}
	}
	if best >= 0 {
		alt := compSet.AlternativeResults[best]
		recommendations = append(recommendations,
			"Most Winners: "+alt.ScenarioName+" leaves "+
				fmt.Sprintf("%d more groups better off", alt.NetWinners-base.NetWinners))
	}

	// Most progressive
	best = -1
	for i, alt := range compSet.AlternativeResults {
		if alt.Spread.GreaterThan(base.Spread) &&
			(best < 0 || alt.Spread.GreaterThan(compSet.AlternativeResults[best].Spread)) {
			best = i
		}
	}
	if best >= 0 {
		alt := compSet.AlternativeResults[best]
		recommendations = append(recommendations,
			"Most Progressive: "+alt.ScenarioName+" widens the poorest-richest gap by "+
				alt.Spread.Sub(base.Spread).StringFixed(2)+" "+compSet.Currency)
	}

	return recommendations
}
