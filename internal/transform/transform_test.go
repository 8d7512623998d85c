package transform

import (
	"math"
	"testing"

	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseParameters() domain.Parameters {
	return domain.Parameters{
		CarbonPrice:         44.6,
		DirectRebateShare:   70,
		ProgressivityWeight: 0,
		RuralBonusShare:     0,
		SubsidyAllocation: []domain.SubsidyShare{
			{Name: "Thermal renovation", Percent: 30},
			{Name: "Public transport", Percent: 25},
			{Name: "Clean vehicles", Percent: 20},
			{Name: ProgramElectricityExemption, Percent: 15},
			{Name: ProgramVATReduction, Percent: 10},
		},
	}
}

func TestApplyEdits_DoesNotMutateBase(t *testing.T) {
	base := baseParameters()
	out, err := ApplyEdits(base, []ParameterEdit{
		&SetCarbonPrice{Value: 100},
		&SetSubsidy{Index: 0, Value: 60},
	})
	require.NoError(t, err)

	assert.Equal(t, 44.6, base.CarbonPrice)
	assert.Equal(t, 30, base.SubsidyAllocation[0].Percent)
	assert.Equal(t, 100.0, out.CarbonPrice)
	assert.Equal(t, 60, out.SubsidyAllocation[0].Percent)
	assert.Equal(t, allocation.Total, allocation.Sum(out.SubsidyAllocation))
}

func TestApplyEdits_Errors(t *testing.T) {
	_, err := ApplyEdits(baseParameters(), []ParameterEdit{nil})
	assert.Error(t, err)

	_, err = ApplyEdits(baseParameters(), []ParameterEdit{&SetSubsidy{Program: "Moon base", Value: 10}})
	require.Error(t, err)
	var editErr *EditError
	assert.ErrorAs(t, err, &editErr)

	_, err = ApplyEdits(baseParameters(), []ParameterEdit{&SetCarbonPrice{Value: math.NaN()}})
	assert.Error(t, err)
}

func TestScalarEdits_Clamp(t *testing.T) {
	out, err := ApplyEdits(baseParameters(), []ParameterEdit{
		&SetCarbonPrice{Value: -5},
		&SetDirectRebateShare{Value: 140},
		&SetProgressivity{Value: -1},
		&SetRuralBonus{Value: 55},
		&SetTerritoryView{Enabled: true},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.CarbonPrice)
	assert.Equal(t, 100.0, out.DirectRebateShare)
	assert.Equal(t, 0.0, out.ProgressivityWeight)
	assert.Equal(t, 55.0, out.RuralBonusShare)
	assert.True(t, out.TerritoryView)
}

func TestSetSubsidy_ByProgramAndIndex(t *testing.T) {
	byName, err := ApplyEdits(baseParameters(), []ParameterEdit{&SetSubsidy{Program: ProgramVATReduction, Value: 60}})
	require.NoError(t, err)
	byIndex, err := ApplyEdits(baseParameters(), []ParameterEdit{&SetSubsidy{Index: 4, Value: 60}})
	require.NoError(t, err)
	assert.Equal(t, byName.SubsidyAllocation, byIndex.SubsidyAllocation)
	assert.Equal(t, 60, byName.SubsidyAllocation[4].Percent)

	_, err = ApplyEdits(baseParameters(), []ParameterEdit{&SetSubsidy{Index: 9, Value: 60}})
	assert.ErrorIs(t, err, allocation.ErrIndexOutOfRange)
}

func TestNewScalarEdit(t *testing.T) {
	for _, field := range ScalarFields {
		edit, err := NewScalarEdit(field, 42)
		require.NoError(t, err, field)
		out, err := edit.Apply(baseParameters())
		require.NoError(t, err)
		got, err := ScalarValue(out, field)
		require.NoError(t, err)
		assert.Equal(t, 42.0, got, field)
		_, err = ScalarUnit(field)
		assert.NoError(t, err)
	}

	_, err := NewScalarEdit("altitude", 1)
	assert.Error(t, err)
	_, err = ScalarValue(baseParameters(), "altitude")
	assert.Error(t, err)
}

func TestEditRegistry_ParseEditSpec(t *testing.T) {
	registry := NewEditRegistry()

	tests := []struct {
		spec     string
		expected ParameterEdit
	}{
		{"set_price:value=80", &SetCarbonPrice{Value: 80}},
		{"set_redistribution:value=70", &SetDirectRebateShare{Value: 70}},
		{"set_progressivity:value=50", &SetProgressivity{Value: 50}},
		{"set_rural_bonus: value = 25", &SetRuralBonus{Value: 25}},
		{"set_subsidy:program=VAT reduction,value=60", &SetSubsidy{Program: "VAT reduction", Value: 60}},
		{"set_subsidy:index=2,value=10", &SetSubsidy{Index: 2, Value: 10}},
		{"set_territory_view:enabled=true", &SetTerritoryView{Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			edit, err := registry.ParseEditSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, edit)
		})
	}

	bad := []string{
		"set_price",
		"set_price:80",
		"set_price:value=cheap",
		"set_price:amount=80",
		"set_subsidy:value=10",
		"set_subsidy:index=x,value=10",
		"set_territory_view:enabled=maybe",
		"launch_rocket:value=1",
	}
	for _, spec := range bad {
		_, err := registry.ParseEditSpec(spec)
		assert.Error(t, err, spec)
	}

	assert.Contains(t, registry.List(), "set_subsidy")
}

func TestBuiltInTemplates(t *testing.T) {
	catalog := []string{"Thermal renovation", ProgramElectricityExemption, ProgramVATReduction}
	registry := CreateBuiltInTemplates(catalog)
	assert.Equal(t, []string{"consumption", "electricity", "equal-capita", "exempting"}, registry.List())

	base := baseParameters()
	base.ProgressivityWeight = 80

	capita, ok := registry.Get("Equal-Capita")
	require.True(t, ok)
	out, err := ApplyTemplate(base, capita)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.ProgressivityWeight)
	assert.Equal(t, "equal-capita", out.Measure)

	exempting, ok := registry.Get("exempting")
	require.True(t, ok)
	out, err = ApplyTemplate(base, exempting)
	require.NoError(t, err)
	assert.Equal(t, 60, out.SubsidyAllocation[3].Percent)
	assert.Equal(t, allocation.Total, allocation.Sum(out.SubsidyAllocation))

	limited := CreateBuiltInTemplates([]string{"Thermal renovation"})
	_, ok = limited.Get("consumption")
	assert.False(t, ok)
}

func TestRegisterMeasures(t *testing.T) {
	registry := CreateBuiltInTemplates(nil)
	err := registry.RegisterMeasures([]domain.Measure{
		{Name: "electricity", Description: "stronger targeting", Edits: []string{"set_progressivity:value=90"}},
		{Name: "rural-first", Edits: []string{"set_rural_bonus:value=100", "set_progressivity:value=25"}},
	}, NewEditRegistry())
	require.NoError(t, err)

	tmpl, ok := registry.Get("electricity")
	require.True(t, ok)
	assert.Equal(t, "stronger targeting", tmpl.Description)

	out, err := ApplyTemplate(baseParameters(), tmpl)
	require.NoError(t, err)
	assert.Equal(t, 90.0, out.ProgressivityWeight)

	err = registry.RegisterMeasures([]domain.Measure{{Name: "broken", Edits: []string{"nope"}}}, NewEditRegistry())
	assert.Error(t, err)

	assert.Contains(t, GetTemplateHelp(registry), "rural-first")
	assert.Equal(t, []string{"a", "b"}, ParseTemplateList(" a, ,b "))
	assert.Nil(t, ParseTemplateList(""))
}

func TestApplyMeasureEdit(t *testing.T) {
	templates := CreateBuiltInTemplates([]string{ProgramVATReduction})
	edits := NewEditRegistry()
	templates.RegisterApplyMeasure(edits)

	edit, err := edits.ParseEditSpec("apply_measure:name=consumption")
	require.NoError(t, err)

	out, err := ApplyEdits(baseParameters(), []ParameterEdit{edit, &SetCarbonPrice{Value: 60}})
	require.NoError(t, err)
	assert.Equal(t, "consumption", out.Measure)
	assert.Equal(t, 60, out.SubsidyAllocation[4].Percent)
	assert.Equal(t, 60.0, out.CarbonPrice)

	_, err = edits.ParseEditSpec("apply_measure:name=unknown")
	assert.Error(t, err)
	_, err = edits.ParseEditSpec("apply_measure:measure=consumption")
	assert.Error(t, err)
}
