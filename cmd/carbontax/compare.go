package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/compare"
	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/output"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a base scenario against alternatives and measures",
		Long: `Compare a base policy scenario against configured scenarios and
compensation measures applied on top of the base.

Examples:
  carbontax compare --base baseline --alt full-rebate --alt high-price
  carbontax compare --base baseline --measures electricity,consumption --format csv
  carbontax compare --list-measures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			if list, _ := cmd.Flags().GetBool("list-measures"); list {
				fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(s.templates))
				return nil
			}

			base, _ := cmd.Flags().GetString("base")
			alts, _ := cmd.Flags().GetStringSlice("alt")
			measuresStr, _ := cmd.Flags().GetString("measures")
			format, _ := cmd.Flags().GetString("format")
			measures := transform.ParseTemplateList(measuresStr)

			if len(alts) == 0 && len(measures) == 0 {
				return fmt.Errorf("nothing to compare: give --alt scenarios or --measures (or use --list-measures)")
			}

			engine := compare.NewCompareEngine(s.engine())
			configPath, _ := cmd.Flags().GetString("config")
			compSet, err := engine.Compare(cmd.Context(), s.config, compare.CompareOptions{
				BaseScenarioName: base,
				Alternatives:     alts,
				Templates:        measures,
				ConfigPath:       configPath,
			})
			if err != nil {
				return fmt.Errorf("comparison failed: %w", err)
			}

			var out string
			switch strings.ToLower(format) {
			case "table", "console":
				out = (&compare.TableFormatter{}).Format(compSet)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(compSet) + "\n"
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
				out += "\n"
			default:
				return fmt.Errorf("unknown format %q (valid: table, compact, csv, json)", format)
			}
			if err != nil {
				return fmt.Errorf("failed to format comparison: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("base", config.DefaultsScenarioName, "Base scenario name to compare against")
	cmd.Flags().StringSlice("alt", nil, "Configured scenario to compare, repeatable or comma-separated")
	cmd.Flags().String("measures", "", "Comma-separated list of measures applied to the base scenario")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().Bool("list-measures", false, "List all available compensation measures")
	return cmd
}

func sensitivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Sweep one parameter and report how the poorest and richest groups fare",
		Long: `Run the model once per step while one parameter moves across a range.

Parameters: price, redistribution, progressivity, rural.

Examples:
  carbontax sensitivity --param price --min 0 --max 200 --steps 9
  carbontax sensitivity --param progressivity --min 0 --max 100 --steps 5 --measure electricity`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			base, err := s.parameters(parameterFlags(cmd))
			if err != nil {
				return err
			}

			param, _ := cmd.Flags().GetString("param")
			minValue, _ := cmd.Flags().GetFloat64("min")
			maxValue, _ := cmd.Flags().GetFloat64("max")
			steps, _ := cmd.Flags().GetInt("steps")
			format, _ := cmd.Flags().GetString("format")

			analyzer := calculation.NewSensitivityAnalyzer(s.engine())
			analysis, err := analyzer.AnalyzeSingleParameter(base, s.reference(), param,
				calculation.SweepRange{Min: minValue, Max: maxValue, Steps: steps})
			if err != nil {
				return fmt.Errorf("sensitivity analysis failed: %w", err)
			}

			out, err := output.NewSensitivityFormatter(format).FormatSensitivityAnalysis(analysis)
			if err != nil {
				return fmt.Errorf("failed to format analysis: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addParameterFlags(cmd)
	cmd.Flags().StringP("param", "p", "price", "Parameter to sweep (price, redistribution, progressivity, rural)")
	cmd.Flags().Float64("min", 0, "First value of the sweep")
	cmd.Flags().Float64("max", 200, "Last value of the sweep")
	cmd.Flags().Int("steps", 5, "Number of values, evenly spaced from min to max")
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	return cmd
}
