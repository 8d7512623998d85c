package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func territoryInputs(t *testing.T, price, rebatePerHousehold float64) (alloc, tax, pop *mat.Dense) {
	t.Helper()
	emissions, pop := territoryReference().TerritoryMatrices()
	require.NotNil(t, emissions)

	tax = mat.NewDense(3, 10, nil)
	tax.Scale(price, emissions)

	alloc = mat.NewDense(3, 10, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 10; c++ {
			alloc.Set(r, c, rebatePerHousehold)
		}
	}
	return alloc, tax, pop
}

func populationTotal(alloc, pop *mat.Dense) float64 {
	var weighted mat.Dense
	weighted.MulElem(alloc, pop)
	return mat.Sum(&weighted)
}

func TestCalibrateTerritoryEmissions(t *testing.T) {
	emissions := mat.NewDense(3, 2, []float64{
		6, 12,
		4, 8,
		2, 0,
	})
	pop := mat.NewDense(3, 2, []float64{
		0.25, 0.25,
		0.25, 0.5,
		0.5, 0.25,
	})

	// weighted: decile 1 is 3.5, decile 2 is 7
	out := CalibrateTerritoryEmissions(emissions, pop, []float64{7, 7})

	assert.InDeltaSlice(t, []float64{7, 7}, AggregateByDecile(out, pop), 1e-12)
	assert.InDelta(t, 12.0, out.At(0, 0), 1e-12)
	assert.InDelta(t, 12.0, out.At(0, 1), 1e-12, "already in line")
	assert.Equal(t, 6.0, emissions.At(0, 0), "input must not be modified")

	zero := mat.NewDense(3, 1, nil)
	assert.True(t, mat.Equal(zero, CalibrateTerritoryEmissions(zero, mat.NewDense(3, 1, []float64{0.2, 0.3, 0.5}), []float64{4})))
}

func TestApplyTerritoryTransfer_Target(t *testing.T) {
	alloc, tax, pop := territoryInputs(t, 1, 9.8)

	out, transfer := ApplyTerritoryTransfer(alloc, tax, pop, 100)

	// rural average 12.74, urban-center 7.35, capped at half the 9.8 average
	assert.InDelta(t, 4.9, transfer.TargetPerHousehold, tolerance)
	assert.InDelta(t, 12.25, transfer.Requested, tolerance)
	assert.InDelta(t, 12.25, transfer.Transferred, tolerance)
	assert.False(t, transfer.Capped)

	for c := 0; c < 10; c++ {
		assert.InDelta(t, 14.7, out.At(0, c), tolerance)
		assert.InDelta(t, 9.8, out.At(1, c), tolerance)
		assert.InDelta(t, 9.8*(1-12.25/29.4), out.At(2, c), tolerance)
	}
	assert.InDelta(t, populationTotal(alloc, pop), populationTotal(out, pop), 1e-9)
	assert.Equal(t, 9.8, alloc.At(0, 0), "input must not be modified")
}

func TestApplyTerritoryTransfer_ScalesWithShare(t *testing.T) {
	alloc, tax, pop := territoryInputs(t, 1, 9.8)

	_, half := ApplyTerritoryTransfer(alloc, tax, pop, 50)
	assert.InDelta(t, 2.45, half.TargetPerHousehold, tolerance)

	out, none := ApplyTerritoryTransfer(alloc, tax, pop, 0)
	assert.Equal(t, 0.0, none.Transferred)
	assert.True(t, mat.Equal(alloc, out))
}

func TestApplyTerritoryTransfer_CappedAtUrbanCenterPool(t *testing.T) {
	alloc, tax, pop := territoryInputs(t, 1, 0.98)

	out, transfer := ApplyTerritoryTransfer(alloc, tax, pop, 100)

	assert.True(t, transfer.Capped)
	assert.InDelta(t, 12.25, transfer.Requested, tolerance)
	assert.InDelta(t, 2.94, transfer.Transferred, tolerance)
	for c := 0; c < 10; c++ {
		assert.GreaterOrEqual(t, out.At(2, c), 0.0)
		assert.InDelta(t, 0.0, out.At(2, c), tolerance)
		assert.InDelta(t, 0.98+2.94/2.5, out.At(0, c), tolerance)
	}
	assert.InDelta(t, populationTotal(alloc, pop), populationTotal(out, pop), 1e-9)
}

func TestApplyTerritoryTransfer_NoGap(t *testing.T) {
	alloc, tax, pop := territoryInputs(t, 1, 9.8)
	// make urban-center households the heavier emitters
	tax.SetRow(2, floats.ScaleTo(make([]float64, 10), 2, tax.RawRowView(0)))

	out, transfer := ApplyTerritoryTransfer(alloc, tax, pop, 100)

	assert.Equal(t, 0.0, transfer.TargetPerHousehold)
	assert.True(t, mat.Equal(alloc, out))
}

func TestApplyTerritoryTransfer_NoRuralPopulation(t *testing.T) {
	alloc, tax, pop := territoryInputs(t, 1, 9.8)
	pop.SetRow(0, make([]float64, 10))

	out, transfer := ApplyTerritoryTransfer(alloc, tax, pop, 100)

	assert.Equal(t, 0.0, transfer.Requested)
	assert.True(t, mat.Equal(alloc, out))
}

func TestComputeIncidence_TerritoryView(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = 1
	params.DirectRebateShare = 100
	params.RuralBonusShare = 100
	params.TerritoryView = true

	result := ComputeIncidence(params, territoryReference())

	require.Equal(t, 30, result.Len())
	assert.Equal(t, []string{"1/rural", "1/suburban", "1/urban-center"}, result.Labels[:3])
	assert.Equal(t, "10/urban-center", result.Labels[29])
	assert.InDeltaSlice(t, []float64{0.25, 0.45, 0.30}, result.PopulationWeights[:3], tolerance)

	assert.InDelta(t, 1.3*3.2, result.TaxPaid[0], tolerance)
	assert.InDelta(t, 0.75*3.2, result.TaxPaid[2], tolerance)
	assert.InDelta(t, 14.7, result.Redistribution[0], tolerance)
	assert.InDelta(t, 9.8, result.Redistribution[1], tolerance)

	require.NotNil(t, result.Transfer)
	assert.InDelta(t, 12.25, result.Transfer.Transferred, tolerance)
}

func TestComputeIncidence_TerritoryAggregatedToDeciles(t *testing.T) {
	params := defaultParameters()
	params.CarbonPrice = 1
	params.DirectRebateShare = 100
	params.RuralBonusShare = 100

	result := ComputeIncidence(params, territoryReference())

	require.Equal(t, 10, result.Len())
	for g := 0; g < 10; g++ {
		assert.InDelta(t, testBaseEmissions[g], result.TaxPaid[g], 1e-9)
		// the transfer is zero-sum within every decile because shares are uniform
		assert.InDelta(t, 9.8, result.Redistribution[g], 1e-9)
	}
}
