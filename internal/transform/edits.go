package transform

import (
	"fmt"
	"math"

	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/domain"
)

// Scalar parameter names, shared by edits, sweeps and the query string
const (
	FieldPrice          = "price"
	FieldRedistribution = "redistribution"
	FieldProgressivity  = "progressivity"
	FieldRural          = "rural"
)

// ScalarFields lists the sweepable parameters
var ScalarFields = []string{FieldPrice, FieldRedistribution, FieldProgressivity, FieldRural}

// SetCarbonPrice sets the carbon price in currency per tonne.
// Negative prices are clamped to zero.
type SetCarbonPrice struct {
	Value float64
}

func (e *SetCarbonPrice) Name() string { return "set_price" }

func (e *SetCarbonPrice) Description() string {
	return fmt.Sprintf("Set carbon price to %.2f per tonne", e.Value)
}

func (e *SetCarbonPrice) Validate(domain.Parameters) error {
	return validateFinite(e.Name(), e.Value)
}

func (e *SetCarbonPrice) Apply(base domain.Parameters) (domain.Parameters, error) {
	out := base.Clone()
	out.CarbonPrice = math.Max(0, e.Value)
	return out, nil
}

// SetDirectRebateShare sets the percent of revenue returned as direct transfers
type SetDirectRebateShare struct {
	Value float64
}

func (e *SetDirectRebateShare) Name() string { return "set_redistribution" }

func (e *SetDirectRebateShare) Description() string {
	return fmt.Sprintf("Return %.0f%% of revenue as direct rebates", e.Value)
}

func (e *SetDirectRebateShare) Validate(domain.Parameters) error {
	return validateFinite(e.Name(), e.Value)
}

func (e *SetDirectRebateShare) Apply(base domain.Parameters) (domain.Parameters, error) {
	out := base.Clone()
	out.DirectRebateShare = clampPercent(e.Value)
	return out, nil
}

// SetProgressivity sets how strongly the rebate favours low deciles
type SetProgressivity struct {
	Value float64
}

func (e *SetProgressivity) Name() string { return "set_progressivity" }

func (e *SetProgressivity) Description() string {
	return fmt.Sprintf("Set rebate progressivity to %.0f", e.Value)
}

func (e *SetProgressivity) Validate(domain.Parameters) error {
	return validateFinite(e.Name(), e.Value)
}

func (e *SetProgressivity) Apply(base domain.Parameters) (domain.Parameters, error) {
	out := base.Clone()
	out.ProgressivityWeight = clampPercent(e.Value)
	return out, nil
}

// SetRuralBonus sets the percent of the rural compensation target applied
type SetRuralBonus struct {
	Value float64
}

func (e *SetRuralBonus) Name() string { return "set_rural_bonus" }

func (e *SetRuralBonus) Description() string {
	return fmt.Sprintf("Apply %.0f%% of the rural compensation target", e.Value)
}

func (e *SetRuralBonus) Validate(domain.Parameters) error {
	return validateFinite(e.Name(), e.Value)
}

func (e *SetRuralBonus) Apply(base domain.Parameters) (domain.Parameters, error) {
	out := base.Clone()
	out.RuralBonusShare = clampPercent(e.Value)
	return out, nil
}

// SetSubsidy moves one subsidy slider and rebalances the others. The program
// is looked up by Program when set, otherwise by Index.
type SetSubsidy struct {
	Program string
	Index   int
	Value   float64
}

func (e *SetSubsidy) Name() string { return "set_subsidy" }

func (e *SetSubsidy) Description() string {
	if e.Program != "" {
		return fmt.Sprintf("Allocate %.0f%% of subsidies to %s", e.Value, e.Program)
	}
	return fmt.Sprintf("Allocate %.0f%% of subsidies to program %d", e.Value, e.Index)
}

func (e *SetSubsidy) Validate(base domain.Parameters) error {
	if err := validateFinite(e.Name(), e.Value); err != nil {
		return err
	}
	if _, err := e.resolve(base); err != nil {
		return NewEditError(e.Name(), "validate", "unknown subsidy program", err)
	}
	return nil
}

func (e *SetSubsidy) Apply(base domain.Parameters) (domain.Parameters, error) {
	index, err := e.resolve(base)
	if err != nil {
		return domain.Parameters{}, err
	}
	rebalanced, err := allocation.Rebalance(base.SubsidyAllocation, index, e.Value)
	if err != nil {
		return domain.Parameters{}, err
	}
	out := base.Clone()
	out.SubsidyAllocation = rebalanced
	return out, nil
}

func (e *SetSubsidy) resolve(base domain.Parameters) (int, error) {
	if e.Program != "" {
		if i := base.SubsidyIndex(e.Program); i >= 0 {
			return i, nil
		}
		return -1, fmt.Errorf("program %q not in allocation", e.Program)
	}
	if e.Index < 0 || e.Index >= len(base.SubsidyAllocation) {
		return -1, fmt.Errorf("%w: %d", allocation.ErrIndexOutOfRange, e.Index)
	}
	return e.Index, nil
}

// SetTerritoryView switches between decile and decile-by-territory reporting
type SetTerritoryView struct {
	Enabled bool
}

func (e *SetTerritoryView) Name() string { return "set_territory_view" }

func (e *SetTerritoryView) Description() string {
	if e.Enabled {
		return "Report results per decile and territory"
	}
	return "Report results per decile"
}

func (e *SetTerritoryView) Validate(domain.Parameters) error { return nil }

func (e *SetTerritoryView) Apply(base domain.Parameters) (domain.Parameters, error) {
	out := base.Clone()
	out.TerritoryView = e.Enabled
	return out, nil
}

// NewScalarEdit returns the edit that sets one of ScalarFields
func NewScalarEdit(field string, value float64) (ParameterEdit, error) {
	switch field {
	case FieldPrice:
		return &SetCarbonPrice{Value: value}, nil
	case FieldRedistribution:
		return &SetDirectRebateShare{Value: value}, nil
	case FieldProgressivity:
		return &SetProgressivity{Value: value}, nil
	case FieldRural:
		return &SetRuralBonus{Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown parameter %q (expected one of %v)", field, ScalarFields)
	}
}

// ScalarUnit returns the display unit of a scalar field
func ScalarUnit(field string) (string, error) {
	switch field {
	case FieldPrice:
		return "per tCO2e", nil
	case FieldRedistribution, FieldRural:
		return "%", nil
	case FieldProgressivity:
		return "", nil
	default:
		return "", fmt.Errorf("unknown parameter %q (expected one of %v)", field, ScalarFields)
	}
}

// ScalarValue reads one of ScalarFields from p
func ScalarValue(p domain.Parameters, field string) (float64, error) {
	switch field {
	case FieldPrice:
		return p.CarbonPrice, nil
	case FieldRedistribution:
		return p.DirectRebateShare, nil
	case FieldProgressivity:
		return p.ProgressivityWeight, nil
	case FieldRural:
		return p.RuralBonusShare, nil
	default:
		return 0, fmt.Errorf("unknown parameter %q (expected one of %v)", field, ScalarFields)
	}
}

func validateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NewEditError(name, "validate", fmt.Sprintf("value must be a finite number, got %v", v), nil)
	}
	return nil
}

// clampPercent keeps share controls in [0,100]; sliders cannot go further and
// typed values are pulled back rather than rejected.
func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
