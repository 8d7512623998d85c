package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/rgehrsitz/carbontax/internal/config"
)

// The built-in configuration carries territory data, so every decile figure
// below goes through the territory path.
func TestComputeIncidence_BuiltInConfiguration(t *testing.T) {
	cfg, err := config.NewInputParser().LoadDefault()
	require.NoError(t, err)
	ref := &cfg.ReferenceData
	require.True(t, ref.HasTerritories())

	params := cfg.Defaults.Clone()
	params.CarbonPrice = 1
	params.DirectRebateShare = 100
	params.ProgressivityWeight = 0
	params.RuralBonusShare = 0

	result := ComputeIncidence(params, ref)

	assert.InEpsilon(t, floats.Sum(ref.BaseEmissions), result.Totals.Revenue, 1e-6)
	assert.InDelta(t, 98.0, result.Totals.Revenue, 1e-9)
	for g, base := range ref.BaseEmissions {
		assert.InDelta(t, base, result.TaxPaid[g], 1e-9, "decile %d", g+1)
		assert.InDelta(t, 9.8-base, result.NetTransfer[g], 1e-9, "decile %d", g+1)
	}

	for _, price := range []float64{44.6, 100} {
		for _, view := range []bool{false, true} {
			params := cfg.Defaults.Clone()
			params.CarbonPrice = price
			params.RuralBonusShare = 50
			params.TerritoryView = view

			result := ComputeIncidence(params, ref)

			revenue := weightedSum(result.TaxPaid, result.PopulationWeights)
			assert.InEpsilon(t, ref.TotalEmissions()*price, revenue, 1e-6, "price=%v view=%v", price, view)
			assert.InEpsilon(t, ref.TotalEmissions()*price, result.Totals.Revenue, 1e-6, "price=%v view=%v", price, view)
		}
	}
}
