package config

import (
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// DefaultsScenarioName names the implicit scenario that runs the configured defaults
const DefaultsScenarioName = "defaults"

// ResolveScenario builds the parameter snapshot for a scenario: the defaults,
// then the scenario's measure, then its own edits, sanitized against the
// reference data.
func ResolveScenario(
	config *domain.Configuration,
	scenario domain.Scenario,
	edits *transform.EditRegistry,
	templates *transform.TemplateRegistry,
) (domain.Parameters, []Adjustment, error) {
	params := config.Defaults.Clone()

	if scenario.Measure != "" {
		template, ok := templates.Get(scenario.Measure)
		if !ok {
			return domain.Parameters{}, nil, fmt.Errorf("%w: %s", ErrUnknownMeasure, scenario.Measure)
		}
		var err error
		params, err = transform.ApplyTemplate(params, template)
		if err != nil {
			return domain.Parameters{}, nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
	}

	parsed, err := edits.ParseEditSpecs(scenario.Edits)
	if err != nil {
		return domain.Parameters{}, nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	params, err = transform.ApplyEdits(params, parsed)
	if err != nil {
		return domain.Parameters{}, nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	params, adjustments := Sanitize(params, &config.ReferenceData)
	return params, adjustments, nil
}

// LookupScenario returns the named scenario. The name "defaults" resolves to
// an empty scenario when the configuration does not define one.
func LookupScenario(config *domain.Configuration, name string) (domain.Scenario, error) {
	if s := config.FindScenario(name); s != nil {
		return *s, nil
	}
	if name == DefaultsScenarioName || name == "" {
		return domain.Scenario{Name: DefaultsScenarioName, Description: "Configured defaults"}, nil
	}
	return domain.Scenario{}, fmt.Errorf("scenario %s not found in configuration", name)
}
