package calculation

import (
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
	"gonum.org/v1/gonum/floats"
)

// SensitivityAnalyzer sweeps one parameter and records how the poorest and
// richest groups fare
type SensitivityAnalyzer struct {
	engine *IncidenceEngine
}

// NewSensitivityAnalyzer creates an analyzer backed by engine (or a fresh one if nil)
func NewSensitivityAnalyzer(engine *IncidenceEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewIncidenceEngine()
	}
	return &SensitivityAnalyzer{engine: engine}
}

// SweepRange describes the values a sweep visits
type SweepRange struct {
	Min   float64
	Max   float64
	Steps int
}

// Values returns Steps evenly spaced values from Min to Max inclusive
func (r SweepRange) Values() []float64 {
	if r.Steps <= 1 {
		return []float64{r.Min}
	}
	return floats.Span(make([]float64, r.Steps), r.Min, r.Max)
}

// AnalyzeSingleParameter runs the model once per sweep value with the named
// parameter overridden on top of base
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	base domain.Parameters,
	ref *domain.ReferenceData,
	parameter string,
	sweep SweepRange,
) (*domain.SensitivityAnalysis, error) {
	if sweep.Steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1, got %d", sweep.Steps)
	}
	if sweep.Max < sweep.Min {
		return nil, fmt.Errorf("max %.2f is below min %.2f", sweep.Max, sweep.Min)
	}
	unit, err := transform.ScalarUnit(parameter)
	if err != nil {
		return nil, err
	}

	analysis := &domain.SensitivityAnalysis{
		Parameter: parameter,
		Unit:      unit,
		Base:      base.Clone(),
	}

	for _, value := range sweep.Values() {
		edit, err := transform.NewScalarEdit(parameter, value)
		if err != nil {
			return nil, err
		}
		params, err := transform.ApplyEdits(base, []transform.ParameterEdit{edit})
		if err != nil {
			return nil, fmt.Errorf("failed to set %s=%.2f: %w", parameter, value, err)
		}
		result, err := sa.engine.Compute(params, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to run model for %s=%.2f: %w", parameter, value, err)
		}
		analysis.Points = append(analysis.Points, sensitivityPoint(value, result))
	}

	analysis.PoorestNetRange = spread(analysis.Points, func(p domain.SensitivityPoint) float64 { return p.PoorestNet })
	analysis.RichestNetRange = spread(analysis.Points, func(p domain.SensitivityPoint) float64 { return p.RichestNet })
	return analysis, nil
}

func sensitivityPoint(value float64, result *domain.IncidenceResult) domain.SensitivityPoint {
	last := result.Len() - 1
	return domain.SensitivityPoint{
		Value:               value,
		Revenue:             result.Totals.Revenue,
		RevenuePerHousehold: result.PerHousehold(result.Totals.Revenue),
		PoorestNet:          result.NetTransfer[0],
		RichestNet:          result.NetTransfer[last],
		NetWinners:          result.NetWinners(),
		PoorestRebate:       result.Redistribution[0],
		RichestRebate:       result.Redistribution[last],
		MaxNetTransfer:      floats.Max(result.NetTransfer),
		MinNetTransfer:      floats.Min(result.NetTransfer),
	}
}

func spread(points []domain.SensitivityPoint, metric func(domain.SensitivityPoint) float64) float64 {
	if len(points) == 0 {
		return 0
	}
	lo, hi := metric(points[0]), metric(points[0])
	for _, p := range points[1:] {
		v := metric(p)
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return hi - lo
}
