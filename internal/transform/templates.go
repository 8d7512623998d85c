package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/carbontax/internal/domain"
)

// Subsidy programs the built-in measures refer to by name
const (
	ProgramElectricityExemption = "Electricity exemption"
	ProgramVATReduction         = "VAT reduction"
)

// TemplateRegistry manages compensation-measure presets
type TemplateRegistry struct {
	templates map[string]Template
}

// Template is a named compensation measure: edits applied in order
type Template struct {
	Name        string
	Description string
	Edits       []ParameterEdit
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry, replacing any with the same name
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(name)]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates the measures offered by the calculator. The
// subsidy-based measures are only registered when the catalog has the program
// they steer money to.
func CreateBuiltInTemplates(catalog []string) *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "equal-capita",
		Description: "Same rebate for every household",
		Edits: []ParameterEdit{
			&SetProgressivity{Value: 0},
			&SetRuralBonus{Value: 0},
		},
	})

	registry.Register(Template{
		Name:        "electricity",
		Description: "Rebate targeted at low-income deciles",
		Edits: []ParameterEdit{
			&SetProgressivity{Value: 50},
		},
	})

	if hasProgram(catalog, ProgramElectricityExemption) {
		registry.Register(Template{
			Name:        "exempting",
			Description: "Flat rebate, subsidies steered to exempting household electricity",
			Edits: []ParameterEdit{
				&SetProgressivity{Value: 0},
				&SetSubsidy{Program: ProgramElectricityExemption, Value: 60},
			},
		})
	}

	if hasProgram(catalog, ProgramVATReduction) {
		registry.Register(Template{
			Name:        "consumption",
			Description: "Flat rebate, subsidies steered to a VAT reduction",
			Edits: []ParameterEdit{
				&SetProgressivity{Value: 0},
				&SetSubsidy{Program: ProgramVATReduction, Value: 60},
			},
		})
	}

	return registry
}

// RegisterMeasures adds configured measures, overriding built-ins of the same name
func (tr *TemplateRegistry) RegisterMeasures(measures []domain.Measure, edits *EditRegistry) error {
	for _, m := range measures {
		parsed, err := edits.ParseEditSpecs(m.Edits)
		if err != nil {
			return fmt.Errorf("measure %s: %w", m.Name, err)
		}
		tr.Register(Template{Name: m.Name, Description: m.Description, Edits: parsed})
	}
	return nil
}

// ApplyTemplate applies a measure to base and records its name on the result
func ApplyTemplate(base domain.Parameters, template Template) (domain.Parameters, error) {
	out, err := ApplyEdits(base, template.Edits)
	if err != nil {
		return domain.Parameters{}, err
	}
	out.Measure = template.Name
	return out, nil
}

// ApplyMeasure applies every edit of a measure and records its name
type ApplyMeasure struct {
	Template Template
}

func (e *ApplyMeasure) Name() string { return "apply_measure" }

func (e *ApplyMeasure) Description() string {
	return fmt.Sprintf("Apply compensation measure %s", e.Template.Name)
}

func (e *ApplyMeasure) Validate(base domain.Parameters) error {
	for _, edit := range e.Template.Edits {
		if err := edit.Validate(base); err != nil {
			return NewEditError(e.Name(), "validate", "measure "+e.Template.Name, err)
		}
	}
	return nil
}

func (e *ApplyMeasure) Apply(base domain.Parameters) (domain.Parameters, error) {
	return ApplyTemplate(base, e.Template)
}

// RegisterApplyMeasure makes "apply_measure:name=<measure>" available in
// edits, resolving the name against this registry at parse time.
func (tr *TemplateRegistry) RegisterApplyMeasure(edits *EditRegistry) {
	edits.Register("apply_measure", func(params map[string]string) (ParameterEdit, error) {
		name, ok := params["name"]
		if !ok {
			return nil, fmt.Errorf("apply_measure requires 'name' parameter")
		}
		t, ok := tr.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown measure: %s", name)
		}
		return &ApplyMeasure{Template: t}, nil
	})
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No measures registered"
	}

	var sb strings.Builder
	sb.WriteString("Available compensation measures:\n")
	for _, name := range registry.List() {
		t := registry.templates[name]
		sb.WriteString(fmt.Sprintf("  %-16s %s\n", t.Name, t.Description))
	}
	return sb.String()
}

func hasProgram(catalog []string, name string) bool {
	for _, c := range catalog {
		if c == name {
			return true
		}
	}
	return false
}
