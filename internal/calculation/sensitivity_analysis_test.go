package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepRange_Values(t *testing.T) {
	assert.Equal(t, []float64{0, 25, 50, 75, 100}, SweepRange{Min: 0, Max: 100, Steps: 5}.Values())
	assert.Equal(t, []float64{10}, SweepRange{Min: 10, Max: 100, Steps: 1}.Values())
}

func TestSensitivityAnalyzer_Price(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)

	analysis, err := analyzer.AnalyzeSingleParameter(defaultParameters(), decileReference(), "price",
		SweepRange{Min: 0, Max: 100, Steps: 5})
	require.NoError(t, err)

	assert.Equal(t, "price", analysis.Parameter)
	assert.Equal(t, "per tCO2e", analysis.Unit)
	require.Len(t, analysis.Points, 5)

	first := analysis.Points[0]
	assert.Equal(t, 0.0, first.Revenue)
	assert.Equal(t, 0, first.NetWinners)

	second := analysis.Points[1]
	assert.InDelta(t, 98*25, second.Revenue, 1e-6)
	// flat rebate of 0.7*9.8 per tonne against 3.2 tonnes for the poorest group
	assert.InDelta(t, (6.86-3.2)*25, second.PoorestNet, 1e-6)
	assert.InDelta(t, (6.86-22.5)*25, second.RichestNet, 1e-6)
	assert.Equal(t, second.PoorestRebate, second.RichestRebate)

	assert.InDelta(t, 3.66*100, analysis.PoorestNetRange, 1e-6)
	assert.InDelta(t, 15.64*100, analysis.RichestNetRange, 1e-6)
	assert.Equal(t, 44.6, analysis.Base.CarbonPrice, "base is not changed by the sweep")
}

func TestSensitivityAnalyzer_Progressivity(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(NewIncidenceEngine())

	analysis, err := analyzer.AnalyzeSingleParameter(defaultParameters(), decileReference(), "progressivity",
		SweepRange{Min: 0, Max: 100, Steps: 3})
	require.NoError(t, err)

	for i := 1; i < len(analysis.Points); i++ {
		prev, cur := analysis.Points[i-1], analysis.Points[i]
		assert.Greater(t, cur.PoorestRebate, prev.PoorestRebate)
		assert.Less(t, cur.RichestRebate, prev.RichestRebate)
		assert.InDelta(t, prev.Revenue, cur.Revenue, 1e-6)
	}
}

func TestSensitivityAnalyzer_Errors(t *testing.T) {
	analyzer := NewSensitivityAnalyzer(nil)
	ref := decileReference()

	_, err := analyzer.AnalyzeSingleParameter(defaultParameters(), ref, "altitude", SweepRange{Min: 0, Max: 1, Steps: 2})
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(defaultParameters(), ref, "price", SweepRange{Min: 0, Max: 1, Steps: 0})
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(defaultParameters(), ref, "price", SweepRange{Min: 5, Max: 1, Steps: 2})
	assert.Error(t, err)

	_, err = analyzer.AnalyzeSingleParameter(defaultParameters(), nil, "price", SweepRange{Min: 0, Max: 1, Steps: 2})
	assert.ErrorIs(t, err, ErrNoReferenceData)
}
