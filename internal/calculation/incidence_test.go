package calculation

import (
	"math"
	"testing"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const tolerance = 1e-9

func TestComputeTaxPaid(t *testing.T) {
	assert.Equal(t, []float64{2, 4}, ComputeTaxPaid([]float64{1, 2}, 2))
	assert.Equal(t, []float64{0, 0}, ComputeTaxPaid([]float64{1, 2}, -5))
	assert.Equal(t, []float64{0, 0}, ComputeTaxPaid([]float64{1, 2}, math.NaN()))

	in := []float64{1, 2}
	ComputeTaxPaid(in, 3)
	assert.Equal(t, []float64{1, 2}, in, "input must not be modified")
}

func TestComputeWeights(t *testing.T) {
	assert.Equal(t, []float64{1, 1, 1}, ComputeWeights(0, 3))
	assert.Equal(t, []float64{3, 2, 1}, ComputeWeights(25, 3))
	assert.InDeltaSlice(t, []float64{81, 16, 1}, ComputeWeights(100, 3), tolerance)
	assert.Equal(t, ComputeWeights(100, 3), ComputeWeights(250, 3), "weight is clamped to 100")
	assert.Nil(t, ComputeWeights(50, 0))

	weights := ComputeWeights(60, 10)
	for i := 1; i < len(weights); i++ {
		assert.Greater(t, weights[i-1], weights[i])
	}
	assert.Equal(t, 1.0, weights[9], "the richest group always has weight 1")
}

func TestApplyRuralBonus(t *testing.T) {
	weights := []float64{1, 1, 1}
	out := ApplyRuralBonus(weights, []float64{0.5, -3, 0}, 100)
	assert.Equal(t, []float64{1.5, 0, 1}, out, "negative multipliers floor at zero")
	assert.Equal(t, []float64{1, 1, 1}, weights)

	assert.Equal(t, []float64{1.25, 1, 1}, ApplyRuralBonus(weights, []float64{0.5}, 50),
		"groups without a coefficient keep their weight")
	assert.Equal(t, weights, ApplyRuralBonus(weights, []float64{0.5, 0.5, 0.5}, 0))
}

func TestNormalizeAndDistribute(t *testing.T) {
	assert.Equal(t, []float64{25, 75}, NormalizeAndDistribute([]float64{1, 3}, 100))
	assert.Equal(t, []float64{50, 50}, NormalizeAndDistribute([]float64{0, 0}, 100), "all-zero weights split evenly")
	assert.Equal(t, []float64{0, 100}, NormalizeAndDistribute([]float64{-2, 1}, 100))
	assert.Equal(t, []float64{50, 50}, NormalizeAndDistribute([]float64{math.NaN(), -1}, 100))
	assert.Empty(t, NormalizeAndDistribute(nil, 100))
}

func TestAggregateByDecile(t *testing.T) {
	values := mat.NewDense(2, 2, []float64{10, 20, 30, 40})
	pop := mat.NewDense(2, 2, []float64{0.5, 0.25, 0.5, 0.75})
	assert.Equal(t, []float64{20, 35}, AggregateByDecile(values, pop))
}

func TestComputeIncidence_FlatPerCapita(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = 1
	params.DirectRebateShare = 100

	result := ComputeIncidence(params, decileReference())

	require.Equal(t, 10, result.Len())
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, result.Labels)
	assert.InDelta(t, 98.0, result.Totals.Revenue, tolerance)
	assert.InDelta(t, 98.0, result.Totals.RebatePool, tolerance)
	assert.InDelta(t, 0.0, result.Totals.SubsidyPool, tolerance)

	expectedNet := []float64{6.6, 5.3, 4.0, 3.3, 2.0, 0.6, -0.7, -3.0, -5.4, -12.7}
	for g := range expectedNet {
		assert.InDelta(t, 9.8, result.Redistribution[g], tolerance, "group %d", g+1)
		assert.InDelta(t, expectedNet[g], result.NetTransfer[g], tolerance, "group %d", g+1)
		assert.InDelta(t, -testBaseEmissions[g], result.TaxCost[g], tolerance)
	}
	assert.Equal(t, 6, result.NetWinners())
	assert.Nil(t, result.Transfer)
}

func TestComputeIncidence_NoRebate(t *testing.T) {
	params := defaultParameters()
	params.DirectRebateShare = 0

	result := ComputeIncidence(params, decileReference())

	for g := range result.Redistribution {
		assert.Equal(t, 0.0, result.Redistribution[g])
		assert.InDelta(t, -result.TaxPaid[g], result.NetTransfer[g], tolerance)
	}
	assert.InDelta(t, result.Totals.Revenue, result.Totals.SubsidyPool, tolerance)
	assert.Equal(t, 0, result.NetWinners())
}

func TestComputeIncidence_ZeroPrice(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = 0

	result := ComputeIncidence(params, decileReference())

	for g := range result.TaxCost {
		assert.False(t, math.Signbit(result.TaxCost[g]), "tax cost must not be negative zero")
		assert.Equal(t, 0.0, result.NetTransfer[g])
	}
	assert.Equal(t, 0.0, result.Totals.Revenue)
}

func TestComputeIncidence_Conservation(t *testing.T) {
	refs := map[string]func() *domain.ReferenceData{
		"deciles":     decileReference,
		"territories": territoryReference,
	}
	for name, build := range refs {
		for _, pw := range []float64{0, 40, 100} {
			for _, rural := range []float64{0, 50, 100} {
				for _, view := range []bool{false, true} {
					params := defaultParameters()
					params.ProgressivityWeight = pw
					params.RuralBonusShare = rural
					params.TerritoryView = view

					ref := build()
					result := ComputeIncidence(params, ref)

					revenue := weightedSum(result.TaxPaid, result.PopulationWeights)
					rebates := weightedSum(result.Redistribution, result.PopulationWeights)
					assert.InEpsilon(t, floats.Sum(ref.BaseEmissions)*params.CarbonPrice, revenue, 1e-6,
						"%s pw=%v rural=%v view=%v", name, pw, rural, view)
					assert.InDelta(t, result.Totals.Revenue, revenue, 1e-6, "%s pw=%v rural=%v view=%v", name, pw, rural, view)
					assert.InDelta(t, result.Totals.RebatePool, rebates, 1e-6, "%s pw=%v rural=%v view=%v", name, pw, rural, view)
					assert.InDelta(t, result.Totals.Revenue,
						result.Totals.RebatePool+result.Totals.SubsidyPool, 1e-6)

					funded := 0.0
					for _, f := range result.SubsidyFunding {
						funded += f.Amount
					}
					assert.InDelta(t, result.Totals.SubsidyPool, funded, 1e-6)
				}
			}
		}
	}
}

func TestComputeIncidence_ProgressiveRebatesDecrease(t *testing.T) {
	params := defaultParameters()
	params.ProgressivityWeight = 50

	result := ComputeIncidence(params, decileReference())

	for g := 1; g < result.Len(); g++ {
		assert.Greater(t, result.Redistribution[g-1], result.Redistribution[g])
		assert.Greater(t, result.NetTransfer[g-1], result.NetTransfer[g])
	}
}

func TestComputeIncidence_ProgressivityMonotonic(t *testing.T) {
	for name, ref := range map[string]*domain.ReferenceData{
		"deciles":     decileReference(),
		"territories": territoryReference(),
	} {
		params := defaultParameters()
		prev := ComputeIncidence(params, ref)
		for pw := 5.0; pw <= 100; pw += 5 {
			params.ProgressivityWeight = pw
			next := ComputeIncidence(params, ref)

			last := next.Len() - 1
			assert.Greater(t, next.Redistribution[0], prev.Redistribution[0], "%s: poorest at pw=%v", name, pw)
			assert.Less(t, next.Redistribution[last], prev.Redistribution[last], "%s: richest at pw=%v", name, pw)
			prev = next
		}
	}
}

func TestComputeIncidence_HugePriceStaysFinite(t *testing.T) {
	for _, ref := range []*domain.ReferenceData{decileReference(), territoryReference()} {
		params := defaultParameters()
		params.CarbonPrice = 1e308
		params.RuralBonusShare = 100
		params.TerritoryView = true

		result := ComputeIncidence(params, ref)

		assert.Equal(t, ref.MaxCarbonPrice(), result.Parameters.CarbonPrice)
		assert.False(t, math.IsInf(result.Totals.Revenue, 0))
		for i := range result.NetTransfer {
			assert.False(t, math.IsNaN(result.NetTransfer[i]), "row %d", i)
			assert.False(t, math.IsInf(result.NetTransfer[i], 0), "row %d", i)
		}
	}
}

func TestComputeIncidence_RuralCoefficients(t *testing.T) {
	ref := decileReference()
	ref.RuralCompensationCoefficients = []float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

	params := defaultParameters()
	params.RuralBonusShare = 100
	result := ComputeIncidence(params, ref)

	assert.InDelta(t, 2*result.Redistribution[0], result.Redistribution[9], tolerance)
	assert.InDelta(t, result.Totals.RebatePool, floats.Sum(result.Redistribution), 1e-9)

	params.RuralBonusShare = 0
	flat := ComputeIncidence(params, ref)
	assert.InDelta(t, flat.Redistribution[0], flat.Redistribution[9], tolerance)
}

func TestComputeIncidence_ClampsParameters(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = -10
	params.DirectRebateShare = 250
	params.TerritoryView = true
	params.SubsidyAllocation[0].Percent = 80

	result := ComputeIncidence(params, decileReference())

	assert.Equal(t, 0.0, result.Parameters.CarbonPrice)
	assert.Equal(t, 100.0, result.Parameters.DirectRebateShare)
	assert.False(t, result.Parameters.TerritoryView, "territory view needs territory data")

	total := 0
	for _, s := range result.Parameters.SubsidyAllocation {
		total += s.Percent
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, 80, params.SubsidyAllocation[0].Percent, "input must not be modified")
}

func TestComputeIncidence_EmptyAllocationFallsBackToCatalog(t *testing.T) {
	params := defaultParameters()
	params.SubsidyAllocation = nil

	result := ComputeIncidence(params, decileReference())

	require.Len(t, result.SubsidyFunding, len(testCatalog))
	for _, f := range result.SubsidyFunding {
		assert.Equal(t, 20, f.Percent)
	}
}

func TestComputeIncidence_RelativeNetTransfer(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = 1
	params.DirectRebateShare = 100

	result := ComputeIncidence(params, decileReference())
	relative := result.RelativeNetTransfer()

	assert.InDelta(t, 6.6/3.2*100, relative[0], 1e-9)
	assert.InDelta(t, -12.7/22.5*100, relative[9], 1e-9)
}
