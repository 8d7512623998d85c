package config

import (
	"testing"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveScenario(t *testing.T) {
	cfg, err := NewInputParser().LoadFromBytes([]byte(yamlConfig), FormatYAML)
	require.NoError(t, err)
	edits, templates, err := Registries(cfg)
	require.NoError(t, err)

	scenario, err := LookupScenario(cfg, "consumption")
	require.NoError(t, err)

	params, adjustments, err := ResolveScenario(cfg, scenario, edits, templates)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
	assert.Equal(t, 80.0, params.CarbonPrice)
	assert.Equal(t, "consumption", params.Measure)
	assert.Equal(t, []domain.SubsidyShare{
		{Name: "Thermal renovation", Percent: 40},
		{Name: "VAT reduction", Percent: 60},
	}, params.SubsidyAllocation)

	// defaults are left alone
	assert.Equal(t, 50.0, cfg.Defaults.CarbonPrice)
	assert.Equal(t, 60, cfg.Defaults.SubsidyAllocation[0].Percent)
}

func TestResolveScenario_Sanitizes(t *testing.T) {
	cfg, err := NewInputParser().LoadFromBytes([]byte(yamlConfig), FormatYAML)
	require.NoError(t, err)
	edits, templates, err := Registries(cfg)
	require.NoError(t, err)

	params, adjustments, err := ResolveScenario(cfg, domain.Scenario{
		Name:  "territory",
		Edits: []string{"set_territory_view:enabled=true"},
	}, edits, templates)
	require.NoError(t, err)
	assert.False(t, params.TerritoryView)
	require.Len(t, adjustments, 1)
	assert.Equal(t, "territory_view", adjustments[0].Field)
}

func TestResolveScenario_Errors(t *testing.T) {
	cfg, err := NewInputParser().LoadFromBytes([]byte(yamlConfig), FormatYAML)
	require.NoError(t, err)
	edits, templates, err := Registries(cfg)
	require.NoError(t, err)

	_, _, err = ResolveScenario(cfg, domain.Scenario{Name: "x", Measure: "nope"}, edits, templates)
	assert.ErrorIs(t, err, ErrUnknownMeasure)

	_, _, err = ResolveScenario(cfg, domain.Scenario{Name: "x", Edits: []string{"set_price"}}, edits, templates)
	assert.ErrorContains(t, err, "scenario x")
}

func TestLookupScenario(t *testing.T) {
	cfg := &domain.Configuration{Scenarios: []domain.Scenario{{Name: "baseline"}}}

	s, err := LookupScenario(cfg, "baseline")
	require.NoError(t, err)
	assert.Equal(t, "baseline", s.Name)

	s, err = LookupScenario(cfg, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultsScenarioName, s.Name)

	s, err = LookupScenario(cfg, DefaultsScenarioName)
	require.NoError(t, err)
	assert.Empty(t, s.Edits)

	_, err = LookupScenario(cfg, "missing")
	assert.ErrorContains(t, err, "scenario missing not found")
}

func TestRegistries_ConfiguredMeasureOverridesBuiltIn(t *testing.T) {
	cfg := &domain.Configuration{
		ReferenceData: domain.ReferenceData{SubsidyCatalog: []string{"VAT reduction"}},
		Measures: []domain.Measure{
			{Name: "electricity", Description: "custom", Edits: []string{"set_progressivity:value=80"}},
		},
	}

	edits, templates, err := Registries(cfg)
	require.NoError(t, err)

	tpl, ok := templates.Get("electricity")
	require.True(t, ok)
	assert.Equal(t, "custom", tpl.Description)

	_, err = edits.ParseEditSpec("apply_measure:name=consumption")
	assert.NoError(t, err)
}
