package compare

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/shopspring/decimal"
)

func threeRowResult() *domain.IncidenceResult {
	return &domain.IncidenceResult{
		Labels:            []string{"1", "2", "3"},
		PopulationWeights: []float64{1, 1, 1},
		TaxPaid:           []float64{6, 10, 14},
		NetTransfer:       []float64{10, -2, -8},
		Totals: domain.Totals{
			Revenue:     30,
			RebatePool:  21,
			SubsidyPool: 9,
		},
		Parameters: domain.Parameters{CarbonPrice: 2},
	}
}

func TestMetricsCalculator_CalculateMetrics(t *testing.T) {
	calc := NewMetricsCalculator()

	result := calc.CalculateMetrics("Test Scenario", threeRowResult())

	if result.ScenarioName != "Test Scenario" {
		t.Errorf("Expected scenario name 'Test Scenario', got %s", result.ScenarioName)
	}
	if !result.RevenuePerHousehold.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected revenue per household 10, got %s", result.RevenuePerHousehold)
	}
	if !result.RebatePerHousehold.Equal(decimal.NewFromInt(7)) {
		t.Errorf("Expected rebate per household 7, got %s", result.RebatePerHousehold)
	}
	if !result.SubsidyPerHousehold.Equal(decimal.NewFromInt(3)) {
		t.Errorf("Expected subsidies per household 3, got %s", result.SubsidyPerHousehold)
	}
	if result.NetWinners != 1 {
		t.Errorf("Expected 1 net winner, got %d", result.NetWinners)
	}
	if !result.PoorestNet.Equal(decimal.NewFromInt(10)) || !result.RichestNet.Equal(decimal.NewFromInt(-8)) {
		t.Errorf("Expected poorest 10 and richest -8, got %s and %s", result.PoorestNet, result.RichestNet)
	}
	// Spread: 10 - (-8) = 18
	if !result.Spread.Equal(decimal.NewFromInt(18)) {
		t.Errorf("Expected spread 18, got %s", result.Spread)
	}
	if result.Parameters.CarbonPrice != 2 {
		t.Errorf("Expected parameters to be carried, got price %v", result.Parameters.CarbonPrice)
	}
}

func TestMetricsCalculator_CalculateMetrics_Rounds(t *testing.T) {
	calc := NewMetricsCalculator()
	res := threeRowResult()
	res.NetTransfer[0] = 1.23456

	result := calc.CalculateMetrics("rounded", res)

	if result.PoorestNet.String() != "1.23" {
		t.Errorf("Expected poorest net rounded to 1.23, got %s", result.PoorestNet)
	}
}

func TestMetricsCalculator_CalculateMetrics_Empty(t *testing.T) {
	calc := NewMetricsCalculator()

	result := calc.CalculateMetrics("empty", &domain.IncidenceResult{})

	if !result.Spread.IsZero() || result.NetWinners != 0 {
		t.Errorf("Expected zero metrics for an empty result, got spread %s winners %d", result.Spread, result.NetWinners)
	}
}

func TestMetricsCalculator_CalculateComparison(t *testing.T) {
	calc := NewMetricsCalculator()

	base := ComparisonResult{
		ScenarioName:        "Base",
		RevenuePerHousehold: decimal.NewFromInt(100),
		NetWinners:          5,
		PoorestNet:          decimal.NewFromInt(40),
		RichestNet:          decimal.NewFromInt(-90),
		Spread:              decimal.NewFromInt(130),
	}

	scenario := ComparisonResult{
		ScenarioName:        "Alternative",
		RevenuePerHousehold: decimal.NewFromInt(100),
		NetWinners:          7,
		PoorestNet:          decimal.NewFromInt(65),
		RichestNet:          decimal.NewFromInt(-120),
		Spread:              decimal.NewFromInt(185),
	}

	result := calc.CalculateComparison(scenario, base)

	if !result.RevenueDiffFromBase.IsZero() {
		t.Errorf("Expected no revenue difference, got %s", result.RevenueDiffFromBase)
	}
	if result.NetWinnersDiff != 2 {
		t.Errorf("Expected net winners diff 2, got %d", result.NetWinnersDiff)
	}
	if !result.PoorestNetDiff.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected poorest diff 25, got %s", result.PoorestNetDiff)
	}
	if !result.RichestNetDiff.Equal(decimal.NewFromInt(-30)) {
		t.Errorf("Expected richest diff -30, got %s", result.RichestNetDiff)
	}
	if !result.SpreadDiff.Equal(decimal.NewFromInt(55)) {
		t.Errorf("Expected spread diff 55, got %s", result.SpreadDiff)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	compSet := &ComparisonSet{
		BaseScenarioName: "Base",
		Currency:         "EUR",
		BaseResult: &ComparisonResult{
			ScenarioName: "Base",
			NetWinners:   5,
			PoorestNet:   decimal.NewFromInt(40),
			Spread:       decimal.NewFromInt(130),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName: "Flat",
				NetWinners:   7,
				PoorestNet:   decimal.NewFromInt(30),
				Spread:       decimal.NewFromInt(100),
			},
			{
				ScenarioName: "Targeted",
				NetWinners:   4,
				PoorestNet:   decimal.NewFromInt(75),
				Spread:       decimal.NewFromInt(210),
			},
		},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 3 {
		t.Fatalf("Expected 3 recommendations, got %d: %v", len(recommendations), recommendations)
	}
	if !strings.Contains(recommendations[0], "Best for Poorest: Targeted") ||
		!strings.Contains(recommendations[0], "35.00 EUR") {
		t.Errorf("Unexpected poorest recommendation: %s", recommendations[0])
	}
	if !strings.Contains(recommendations[1], "Most Winners: Flat") ||
		!strings.Contains(recommendations[1], "2 more groups") {
		t.Errorf("Unexpected winners recommendation: %s", recommendations[1])
	}
	if !strings.Contains(recommendations[2], "Most Progressive: Targeted") ||
		!strings.Contains(recommendations[2], "80.00 EUR") {
		t.Errorf("Unexpected progressivity recommendation: %s", recommendations[2])
	}
}

func TestGenerateRecommendations_EmptyAlternatives(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{ScenarioName: "Base"},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations, got %d", len(recommendations))
	}
}

func TestGenerateRecommendations_NoBetterThanBase(t *testing.T) {
	compSet := &ComparisonSet{
		BaseResult: &ComparisonResult{
			ScenarioName: "Base",
			NetWinners:   6,
			PoorestNet:   decimal.NewFromInt(50),
			Spread:       decimal.NewFromInt(150),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName: "Worse",
				NetWinners:   6,
				PoorestNet:   decimal.NewFromInt(20),
				Spread:       decimal.NewFromInt(90),
			},
		},
	}

	recommendations := GenerateRecommendations(compSet)

	if len(recommendations) != 0 {
		t.Errorf("Expected no recommendations when nothing beats the base, got %v", recommendations)
	}
}
