package calculation

import (
	"errors"
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
)

// ErrNoReferenceData is returned when the engine is asked to run without a table
var ErrNoReferenceData = errors.New("reference data is required")

// IncidenceEngine wraps ComputeIncidence with logging for the CLI and TUI.
// It holds no per-run state and can be reused for any number of runs.
type IncidenceEngine struct {
	Logger Logger
}

// NewIncidenceEngine creates an engine that logs nothing
func NewIncidenceEngine() *IncidenceEngine {
	return &IncidenceEngine{Logger: NopLogger{}}
}

// SetLogger installs a logger; nil restores the no-op logger
func (e *IncidenceEngine) SetLogger(logger Logger) {
	if logger == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = logger
}

// Compute runs the model for one parameter snapshot
func (e *IncidenceEngine) Compute(params domain.Parameters, ref *domain.ReferenceData) (*domain.IncidenceResult, error) {
	if ref == nil {
		return nil, ErrNoReferenceData
	}
	if ref.GroupCount() == 0 {
		return nil, fmt.Errorf("%w: no income groups", ErrNoReferenceData)
	}

	result := ComputeIncidence(params, ref)
	e.logger().Debugf("price=%.2f rebate=%.0f%% progressivity=%.0f rural=%.0f%% territory_view=%t",
		result.Parameters.CarbonPrice, result.Parameters.DirectRebateShare,
		result.Parameters.ProgressivityWeight, result.Parameters.RuralBonusShare,
		result.Parameters.TerritoryView)
	e.logger().Debugf("revenue=%.2f rebate_pool=%.2f subsidy_pool=%.2f winners=%d/%d",
		result.Totals.Revenue, result.Totals.RebatePool, result.Totals.SubsidyPool,
		result.NetWinners(), result.Len())

	if t := result.Transfer; t != nil && t.Capped {
		e.logger().Warnf("rural transfer capped at urban-center pool: requested %.2f, transferred %.2f",
			t.Requested, t.Transferred)
	}
	return &result, nil
}

func (e *IncidenceEngine) logger() Logger {
	if e.Logger == nil {
		return NopLogger{}
	}
	return e.Logger
}
