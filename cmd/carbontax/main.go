package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "carbontax %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "carbontax",
		Short: "Carbon tax incidence calculator",
		Long: `Models who pays a carbon tax and who gets the revenue back, per income
decile and optionally per territory (rural, suburban, urban-center).

Without --config the built-in illustrative decile table is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "Configuration file (.yaml, .yml or .toml)")
	root.PersistentFlags().Bool("debug", false, "Enable debug output for detailed calculations")

	root.AddCommand(calculateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(compareCmd())
	root.AddCommand(sensitivityCmd())
	root.AddCommand(breakEvenCmd())
	root.AddCommand(shareCmd())
	root.AddCommand(rebalanceCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(measuresCmd())
	root.AddCommand(versionCmd())
	return root
}

// session is a loaded configuration with its edit and measure registries
type session struct {
	config    *domain.Configuration
	edits     *transform.EditRegistry
	templates *transform.TemplateRegistry
	logger    calculation.Logger
}

func loadSession(cmd *cobra.Command) (*session, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.NewInputParser().Load(path)
	if err != nil {
		return nil, err
	}
	edits, templates, err := config.Registries(cfg)
	if err != nil {
		return nil, err
	}

	var logger calculation.Logger = calculation.NopLogger{}
	if debugOn, _ := cmd.Flags().GetBool("debug"); debugOn {
		logger = simpleCLILogger{}
	}
	return &session{config: cfg, edits: edits, templates: templates, logger: logger}, nil
}

func (s *session) reference() *domain.ReferenceData {
	return &s.config.ReferenceData
}

func (s *session) engine() *calculation.IncidenceEngine {
	engine := calculation.NewIncidenceEngine()
	engine.SetLogger(s.logger)
	return engine
}

// parameters builds a snapshot from the defaults: the query string first,
// then the measure, then each edit spec, sanitized last
func (s *session) parameters(query, measure string, specs []string) (domain.Parameters, error) {
	params := s.config.Defaults.Clone()
	var err error

	if query != "" {
		params, err = config.ParseQueryWithMeasures(query, params, s.reference(), s.templates)
		if err != nil {
			return domain.Parameters{}, err
		}
	}

	if measure != "" {
		template, ok := s.templates.Get(measure)
		if !ok {
			return domain.Parameters{}, fmt.Errorf("%w: %s (see 'carbontax measures')", config.ErrUnknownMeasure, measure)
		}
		if params, err = transform.ApplyTemplate(params, template); err != nil {
			return domain.Parameters{}, err
		}
	}

	edits, err := s.edits.ParseEditSpecs(specs)
	if err != nil {
		return domain.Parameters{}, err
	}
	if params, err = transform.ApplyEdits(params, edits); err != nil {
		return domain.Parameters{}, err
	}

	params, adjustments := config.Sanitize(params, s.reference())
	for _, a := range adjustments {
		s.logger.Warnf("%s", a)
	}
	return params, nil
}

// addParameterFlags registers the flags every command that runs the model shares
func addParameterFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("query", "q", "", "Start from a share query string or URL (e.g. \"price=100&measure=electricity\")")
	cmd.Flags().StringP("measure", "m", "", "Compensation measure to apply (see 'carbontax measures')")
	cmd.Flags().StringArrayP("edit", "e", nil, "Parameter edit spec, repeatable (e.g. set_price:value=80)")
}

func parameterFlags(cmd *cobra.Command) (query, measure string, specs []string) {
	query, _ = cmd.Flags().GetString("query")
	measure, _ = cmd.Flags().GetString("measure")
	specs, _ = cmd.Flags().GetStringArray("edit")
	return query, measure, specs
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
