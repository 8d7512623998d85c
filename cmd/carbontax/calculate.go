package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/output"
)

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute tax paid and net transfer per group",
		Long: `Run the redistribution model once and print the result.

Examples:
  carbontax calculate
  carbontax calculate --measure electricity --edit set_price:value=100
  carbontax calculate --query "price=80&territory=true" --format csv --output result.csv
  carbontax calculate --relative`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			params, err := s.parameters(parameterFlags(cmd))
			if err != nil {
				return err
			}

			format, _ := cmd.Flags().GetString("format")
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (valid: %s; aliases: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "),
					strings.Join(output.AvailableFormatAliases(), ", "))
			}

			result, err := s.engine().Compute(params, s.reference())
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}
			relative, _ := cmd.Flags().GetBool("relative")
			data, err := formatter.Format(output.NewReport(result, s.reference(), relative))
			if err != nil {
				return fmt.Errorf("failed to format result: %w", err)
			}

			path, _ := cmd.Flags().GetString("output")
			if path == "" {
				if formatter.Name() == "xlsx" {
					return fmt.Errorf("xlsx output needs --output")
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	addParameterFlags(cmd)
	cmd.Flags().StringP("format", "f", "console", "Output format (console, csv, detailed-csv, json, xlsx)")
	cmd.Flags().StringP("output", "o", "", "Write to this file instead of standard output")
	cmd.Flags().Bool("relative", false, "Report amounts as a percent of each group's tax paid")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Long:  "Check reference data, defaults, measures and scenario edits. Without a file the built-in configuration is checked.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if len(args) == 1 {
				path = args[0]
			}
			cfg, err := config.NewInputParser().Load(path)
			if err != nil {
				return fmt.Errorf("configuration is invalid: %w", err)
			}

			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintln(out, "Built-in configuration is valid")
			} else {
				fmt.Fprintf(out, "Configuration file %s is valid\n", path)
			}
			ref := &cfg.ReferenceData
			fmt.Fprintf(out, "  Reference data: %s (%d groups, %d territories)\n", ref.Name, ref.GroupCount(), len(ref.Territories))
			fmt.Fprintf(out, "  Subsidy programs: %d\n", len(ref.SubsidyCatalog))
			fmt.Fprintf(out, "  Measures: %d configured\n", len(cfg.Measures))
			fmt.Fprintf(out, "  Scenarios: %d\n", len(cfg.Scenarios))
			return nil
		},
	}
}
