package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/output"
	"github.com/rgehrsitz/carbontax/internal/transform"
	"github.com/rgehrsitz/carbontax/internal/tui/components"
)

// sliderSubsidy is the slider key for subsidy programs; the other sliders use
// the transform.Field* names
const sliderSubsidy = "subsidy"

// Options configures a Model
type Options struct {
	ConfigPath string // empty loads the embedded defaults
	Query      string // share-link query applied on top of the defaults
	ExportDir  string // directory for exports, "." when empty

	// Logger receives engine output and sanitize adjustments
	Logger calculation.Logger

	// Clipboard copies share links; defaults to the system clipboard
	Clipboard func(string) error
}

// Model represents the entire application state
type Model struct {
	opts Options

	// Terminal dimensions
	width  int
	height int

	// Configuration and registries
	config    *domain.Configuration
	edits     *transform.EditRegistry
	templates *transform.TemplateRegistry
	measures  []string
	measureAt int

	engine *calculation.IncidenceEngine

	// Current snapshot and its result
	params   domain.Parameters
	result   *domain.IncidenceResult
	relative bool

	sliders []*components.ParameterSlider
	focused int

	keys keyMap
	help help.Model

	status string
	err    error
}

// NewModel creates a new application model. The configuration is loaded by Init.
func NewModel(opts Options) Model {
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	engine := calculation.NewIncidenceEngine()
	engine.SetLogger(opts.Logger)

	return Model{
		opts:      opts,
		engine:    engine,
		keys:      defaultKeyMap(),
		help:      help.New(),
		measureAt: -1,
		width:     100,
		height:    40,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return loadConfigCmd(m.opts.ConfigPath)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().Load(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// Params returns the current parameter snapshot
func (m Model) Params() domain.Parameters {
	return m.params
}

// Result returns the model output for the current snapshot
func (m Model) Result() *domain.IncidenceResult {
	return m.result
}

// Status returns the last status line
func (m Model) Status() string {
	return m.status
}

// setConfig installs a loaded configuration and runs the model on its defaults
// (or on the startup query)
func (m Model) setConfig(cfg *domain.Configuration) (Model, error) {
	edits, templates, err := config.Registries(cfg)
	if err != nil {
		return m, err
	}
	m.config = cfg
	m.edits = edits
	m.templates = templates
	m.measures = templates.List()
	m.measureAt = -1

	params := cfg.Defaults.Clone()
	if m.opts.Query != "" {
		params, err = config.ParseQueryWithMeasures(m.opts.Query, cfg.Defaults, &cfg.ReferenceData, templates)
		if err != nil {
			return m, fmt.Errorf("invalid query: %w", err)
		}
	}

	m.sliders = buildSliders(&cfg.ReferenceData, params)
	m.focused = 0
	m.sliders[0].SetFocused(true)
	return m.setParams(params)
}

// setParams sanitizes params, reruns the model and syncs the sliders
func (m Model) setParams(params domain.Parameters) (Model, error) {
	ref := &m.config.ReferenceData
	params, adjustments := config.Sanitize(params, ref)
	for _, a := range adjustments {
		m.engine.Logger.Debugf("%s", a)
	}

	result, err := m.engine.Compute(params, ref)
	if err != nil {
		return m, err
	}
	m.params = params
	m.result = result
	syncSliders(m.sliders, params)
	return m, nil
}

// applyEdits runs edits on the current snapshot
func (m Model) applyEdits(edits ...transform.ParameterEdit) (Model, error) {
	next, err := transform.ApplyEdits(m.params, edits)
	if err != nil {
		return m, err
	}
	return m.setParams(next)
}

// moveSlider sets the focused slider to value. Moving a slider by hand means
// the snapshot no longer matches the last measure.
func (m Model) moveSlider(value float64) (Model, error) {
	s := m.sliders[m.focused]
	var edit transform.ParameterEdit
	if s.Key == sliderSubsidy {
		edit = &transform.SetSubsidy{Index: s.Index, Value: value}
	} else {
		var err error
		edit, err = transform.NewScalarEdit(s.Key, value)
		if err != nil {
			return m, err
		}
	}
	m.params.Measure = ""
	return m.applyEdits(edit)
}

// nextMeasure applies the next measure in name order to the current snapshot
func (m Model) nextMeasure() (Model, error) {
	if len(m.measures) == 0 {
		m.status = "No measures configured"
		return m, nil
	}
	m.measureAt = (m.measureAt + 1) % len(m.measures)
	template, _ := m.templates.Get(m.measures[m.measureAt])
	next, err := transform.ApplyTemplate(m.params, template)
	if err != nil {
		return m, err
	}
	m, err = m.setParams(next)
	if err != nil {
		return m, err
	}
	m.status = fmt.Sprintf("Measure %s: %s", template.Name, template.Description)
	return m, nil
}

// shareCmd builds the share URL and copies it to the clipboard
func (m Model) shareCmd() tea.Cmd {
	base := m.config.ShareBaseURL
	params := m.params
	copyFn := m.opts.Clipboard
	return func() tea.Msg {
		url, err := config.ShareURL(base, params)
		if err != nil {
			return ErrorMsg{Err: fmt.Errorf("cannot build share link: %w", err)}
		}
		return ShareMsg{URL: url, CopyErr: copyFn(url)}
	}
}

// exportCmd writes the current result as CSV and xlsx
func (m Model) exportCmd() tea.Cmd {
	report := output.NewReport(m.result, &m.config.ReferenceData, m.relative)
	dir := m.opts.ExportDir
	return func() tea.Msg {
		var paths []string
		for _, name := range []string{"csv", "xlsx"} {
			f := output.GetFormatterByName(name)
			path, err := output.WriteFormattedIn(dir, f, report, output.Extension(f))
			if err != nil {
				return ExportedMsg{Paths: paths, Err: err}
			}
			paths = append(paths, path)
		}
		return ExportedMsg{Paths: paths}
	}
}

// buildSliders creates one slider per control. The rural slider is only
// offered when the reference data can calibrate a rural bonus.
func buildSliders(ref *domain.ReferenceData, params domain.Parameters) []*components.ParameterSlider {
	priceMax := 200.0
	if params.CarbonPrice > priceMax {
		priceMax = params.CarbonPrice
	}
	priceUnit := fmt.Sprintf(" %s/%s", ref.Currency, ref.Unit)

	sliders := []*components.ParameterSlider{
		components.NewParameterSlider(transform.FieldPrice, "Carbon price", params.CarbonPrice, 0, priceMax, 1).
			WithUnit(priceUnit).
			WithFormat("%.1f").
			WithDescription("Tax per tonne of emissions"),
		components.NewParameterSlider(transform.FieldRedistribution, "Direct rebate share", params.DirectRebateShare, 0, 100, 5).
			WithUnit("%").
			WithDescription("Revenue returned to households; the rest funds subsidies"),
		components.NewParameterSlider(transform.FieldProgressivity, "Progressivity", params.ProgressivityWeight, 0, 100, 5).
			WithDescription("0 gives every household the same rebate"),
	}
	if ref.HasTerritories() || ref.HasRuralCoefficients() {
		sliders = append(sliders,
			components.NewParameterSlider(transform.FieldRural, "Rural bonus", params.RuralBonusShare, 0, 100, 5).
				WithUnit("%").
				WithDescription("Extra rebate for rural households"))
	}
	for i, s := range params.SubsidyAllocation {
		sliders = append(sliders,
			components.NewParameterSlider(sliderSubsidy, truncate(s.Name, 22), float64(s.Percent), 0, 100, 5).
				WithIndex(i).
				WithUnit("%").
				WithDescription("Share of the subsidy pool; the other programs rebalance"))
	}
	return sliders
}

// syncSliders copies the snapshot back into the sliders
func syncSliders(sliders []*components.ParameterSlider, params domain.Parameters) {
	for _, s := range sliders {
		switch s.Key {
		case sliderSubsidy:
			if s.Index < len(params.SubsidyAllocation) {
				s.SetValue(float64(params.SubsidyAllocation[s.Index].Percent))
			}
		default:
			if v, err := transform.ScalarValue(params, s.Key); err == nil {
				s.SetValue(v)
			}
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
