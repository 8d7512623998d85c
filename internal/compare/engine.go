package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.IncidenceEngine
	MetricsCalculator *MetricsCalculator
	EditRegistry      *transform.EditRegistry
	TemplateRegistry  *transform.TemplateRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.IncidenceEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewIncidenceEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against
	Alternatives     []string // Configured scenarios to compare
	Templates        []string // Measures applied on top of the base scenario
	ConfigPath       string
}

// Compare runs the base scenario, every named alternative and the base with
// each measure applied. Metrics are taken per decile whatever the scenario's
// territory view.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	cfg *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {
	edits, templates, err := config.Registries(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to register measures: %w", err)
	}
	ce.EditRegistry = edits
	ce.TemplateRegistry = templates

	baseScenario, err := config.LookupScenario(cfg, options.BaseScenarioName)
	if err != nil {
		return nil, err
	}
	baseParams, err := ce.resolve(cfg, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base scenario: %w", err)
	}
	baseResult, err := ce.run(cfg, baseScenario.Name, baseParams)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult.Description = baseScenario.Description

	alternatives := []ComparisonResult{}

	for _, altName := range options.Alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scenario, err := config.LookupScenario(cfg, altName)
		if err != nil {
			return nil, fmt.Errorf("alternative %w", err)
		}
		params, err := ce.resolve(cfg, scenario)
		if err != nil {
			return nil, err
		}
		altResult, err := ce.run(cfg, scenario.Name, params)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}
		altResult.Description = scenario.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownMeasure, templateName)
		}

		modified, err := transform.ApplyTemplate(baseParams, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply measure %s: %w", templateName, err)
		}
		modified, adjustments := config.Sanitize(modified, &cfg.ReferenceData)
		ce.logAdjustments(adjustments)

		altResult, err := ce.run(cfg, baseScenario.Name+"_"+template.Name, modified)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate measure %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
		Currency:           cfg.ReferenceData.Currency,
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareScenarios compares explicit configured scenarios (no measures)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	cfg *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	return ce.Compare(ctx, cfg, CompareOptions{
		BaseScenarioName: baseScenarioName,
		Alternatives:     alternativeScenarioNames,
	})
}

func (ce *CompareEngine) resolve(cfg *domain.Configuration, scenario domain.Scenario) (domain.Parameters, error) {
	params, adjustments, err := config.ResolveScenario(cfg, scenario, ce.EditRegistry, ce.TemplateRegistry)
	if err != nil {
		return domain.Parameters{}, err
	}
	ce.logAdjustments(adjustments)
	return params, nil
}

func (ce *CompareEngine) run(cfg *domain.Configuration, name string, params domain.Parameters) (ComparisonResult, error) {
	params.TerritoryView = false
	result, err := ce.CalcEngine.Compute(params, &cfg.ReferenceData)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(name, result), nil
}

func (ce *CompareEngine) logAdjustments(adjustments []config.Adjustment) {
	if ce.CalcEngine.Logger == nil {
		return
	}
	for _, a := range adjustments {
		ce.CalcEngine.Logger.Warnf("%s", a)
	}
}
