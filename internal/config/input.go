package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
	"gopkg.in/yaml.v3"
)

// Display metadata used when the reference data leaves it blank
const (
	DefaultCurrency = "EUR"
	DefaultUnit     = "tCO2e"
)

// populationShareTolerance bounds |Σ_t share[t][g] - 1|
const populationShareTolerance = 1e-6

// territoryEmissionsTolerance bounds the relative gap between a decile's
// population-weighted territory emissions and its base emissions
const territoryEmissionsTolerance = 1e-3

// ErrInvalidReferenceData wraps every reference data validation failure
var ErrInvalidReferenceData = errors.New("invalid reference data")

//go:embed defaults.yaml
var defaultConfiguration []byte

// Format is a configuration file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatForPath picks the encoding from the file extension. Anything that is
// not .toml is read as YAML, which also accepts JSON.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML, JSON or TOML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data, FormatForPath(filename))
}

// LoadDefault loads the built-in configuration
func (ip *InputParser) LoadDefault() (*domain.Configuration, error) {
	return ip.LoadFromBytes(defaultConfiguration, FormatYAML)
}

// Load reads filename, or the built-in configuration when filename is empty
func (ip *InputParser) Load(filename string) (*domain.Configuration, error) {
	if filename == "" {
		return ip.LoadDefault()
	}
	return ip.LoadFromFile(filename)
}

// LoadFromBytes decodes and validates a configuration
func (ip *InputParser) LoadFromBytes(data []byte, format Format) (*domain.Configuration, error) {
	var config domain.Configuration
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported configuration format %q", format)
	}

	applyReferenceDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration. A missing default
// subsidy allocation is filled from the catalog; any other out-of-range default
// is an error.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ValidateReferenceData(&config.ReferenceData); err != nil {
		return err
	}

	if len(config.Defaults.SubsidyAllocation) == 0 {
		config.Defaults.SubsidyAllocation = allocation.FromCatalog(config.ReferenceData.SubsidyCatalog)
	}
	if _, adjustments := Sanitize(config.Defaults, &config.ReferenceData); len(adjustments) > 0 {
		return fmt.Errorf("defaults: %s", adjustments[0])
	}

	edits, templates, err := Registries(config)
	if err != nil {
		return fmt.Errorf("measures validation failed: %w", err)
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		if err := ip.validateScenario(scenario, edits, templates); err != nil {
			return fmt.Errorf("scenario %d validation failed: %w", i, err)
		}
		if seen[scenario.Name] {
			return fmt.Errorf("duplicate scenario name %q", scenario.Name)
		}
		seen[scenario.Name] = true
	}

	return nil
}

// Registries builds the edit registry and the measure registry for a
// configuration: built-in measures for its catalog, then configured measures,
// then the apply_measure edit bound to the result.
func Registries(config *domain.Configuration) (*transform.EditRegistry, *transform.TemplateRegistry, error) {
	edits := transform.NewEditRegistry()
	templates := transform.CreateBuiltInTemplates(config.ReferenceData.SubsidyCatalog)
	if err := templates.RegisterMeasures(config.Measures, edits); err != nil {
		return nil, nil, err
	}
	templates.RegisterApplyMeasure(edits)
	return edits, templates, nil
}

// validateScenario checks that a scenario's measure exists and its edits
// parse and apply to the defaults
func (ip *InputParser) validateScenario(scenario domain.Scenario, edits *transform.EditRegistry, templates *transform.TemplateRegistry) error {
	if scenario.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if scenario.Measure != "" {
		if _, ok := templates.Get(scenario.Measure); !ok {
			return fmt.Errorf("scenario %s references unknown measure: %s", scenario.Name, scenario.Measure)
		}
	}
	if _, err := edits.ParseEditSpecs(scenario.Edits); err != nil {
		return fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	return nil
}

// ValidateReferenceData checks the emissions table. Every failure wraps
// ErrInvalidReferenceData.
func ValidateReferenceData(ref *domain.ReferenceData) error {
	if err := validateReferenceData(ref); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidReferenceData, err)
	}
	return nil
}

func validateReferenceData(ref *domain.ReferenceData) error {
	if ref == nil {
		return fmt.Errorf("reference data is required")
	}
	n := ref.GroupCount()
	if n == 0 {
		return fmt.Errorf("base_emissions must not be empty")
	}
	for g, e := range ref.BaseEmissions {
		if !isFinite(e) || e <= 0 {
			return fmt.Errorf("base_emissions[%d] must be a positive number, got %v", g, e)
		}
	}

	if len(ref.SubsidyCatalog) == 0 {
		return fmt.Errorf("subsidy_catalog must not be empty")
	}
	programs := make(map[string]bool, len(ref.SubsidyCatalog))
	for i, name := range ref.SubsidyCatalog {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("subsidy_catalog[%d] has no name", i)
		}
		if programs[name] {
			return fmt.Errorf("subsidy_catalog lists %q twice", name)
		}
		programs[name] = true
	}

	if ref.HasRuralCoefficients() {
		if len(ref.RuralCompensationCoefficients) != n {
			return fmt.Errorf("rural_compensation_coefficients has %d entries, expected %d",
				len(ref.RuralCompensationCoefficients), n)
		}
		for g, c := range ref.RuralCompensationCoefficients {
			if !isFinite(c) {
				return fmt.Errorf("rural_compensation_coefficients[%d] is not a number", g)
			}
		}
	}

	if ref.HasTerritories() {
		return validateTerritories(ref)
	}
	return nil
}

func validateTerritories(ref *domain.ReferenceData) error {
	n := ref.GroupCount()
	if len(ref.Territories) != len(domain.TerritoryNames) {
		return fmt.Errorf("expected territories %v, got %d entries", domain.TerritoryNames, len(ref.Territories))
	}
	for _, name := range domain.TerritoryNames {
		if ref.Territory(name) == nil {
			return fmt.Errorf("territory %q is missing", name)
		}
	}

	for _, td := range ref.Territories {
		if len(td.Emissions) != n {
			return fmt.Errorf("territory %s has %d emissions, expected %d", td.Name, len(td.Emissions), n)
		}
		if len(td.PopulationShare) != n {
			return fmt.Errorf("territory %s has %d population shares, expected %d", td.Name, len(td.PopulationShare), n)
		}
		for g := 0; g < n; g++ {
			if !isFinite(td.Emissions[g]) || td.Emissions[g] < 0 {
				return fmt.Errorf("territory %s emissions[%d] must be non-negative, got %v", td.Name, g, td.Emissions[g])
			}
			if !isFinite(td.PopulationShare[g]) || td.PopulationShare[g] < 0 || td.PopulationShare[g] > 1 {
				return fmt.Errorf("territory %s population_share[%d] must be in [0,1], got %v", td.Name, g, td.PopulationShare[g])
			}
		}
	}

	for g := 0; g < n; g++ {
		total := 0.0
		for _, td := range ref.Territories {
			total += td.PopulationShare[g]
		}
		if math.Abs(total-1) > populationShareTolerance {
			return fmt.Errorf("population shares for decile %d sum to %.6f, expected 1", g+1, total)
		}
	}

	for g, weighted := range ref.TerritoryWeightedEmissions() {
		base := ref.BaseEmissions[g]
		if math.Abs(weighted-base) > territoryEmissionsTolerance*base {
			return fmt.Errorf("territory emissions for decile %d average %.4f, base_emissions has %.4f", g+1, weighted, base)
		}
	}
	return nil
}

func applyReferenceDefaults(config *domain.Configuration) {
	if config.ReferenceData.Currency == "" {
		config.ReferenceData.Currency = DefaultCurrency
	}
	if config.ReferenceData.Unit == "" {
		config.ReferenceData.Unit = DefaultUnit
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
