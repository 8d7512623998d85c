package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/allocation"
	"github.com/rgehrsitz/carbontax/internal/config"
	"github.com/rgehrsitz/carbontax/internal/domain"
	"github.com/rgehrsitz/carbontax/internal/output"
	"github.com/rgehrsitz/carbontax/internal/transform"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

func shareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Print a link that reproduces the current parameters",
		Long: `Encode a parameter snapshot into a query string on the configured
share_base_url. The link opens the same view in the TUI (--query) or any
command that takes --query.

Examples:
  carbontax share --measure electricity --edit set_price:value=100
  carbontax share --query "price=80" --copy`,
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

			base := s.config.ShareBaseURL
			if override, _ := cmd.Flags().GetString("base-url"); override != "" {
				base = override
			}
			link, err := config.ShareURL(base, params)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)

			if copyLink, _ := cmd.Flags().GetBool("copy"); copyLink {
				if err := copyToClipboard(link); err != nil {
					s.logger.Warnf("clipboard unavailable: %v", err)
					fmt.Fprintln(cmd.ErrOrStderr(), "Could not copy to clipboard")
					return nil
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
			}
			return nil
		},
	}
	addParameterFlags(cmd)
	cmd.Flags().Bool("copy", false, "Also copy the link to the clipboard")
	cmd.Flags().String("base-url", "", "Override the configured share_base_url")
	return cmd
}

func rebalanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rebalance",
		Short: "Set one subsidy program and rescale the others to keep 100%",
		Long: `Apply a single subsidy slider move and print the resulting allocation.
Untouched programs keep their relative weights.

Examples:
  carbontax rebalance --index 0 --value 35
  carbontax rebalance --subsidies 30,25,20,15,10 --index 4 --value 60`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}

			alloc := s.config.Defaults.SubsidyAllocation
			if raw, _ := cmd.Flags().GetString("subsidies"); raw != "" {
				if alloc, err = parseAllocation(raw, s.reference().SubsidyCatalog); err != nil {
					return err
				}
			}

			index, _ := cmd.Flags().GetInt("index")
			if program, _ := cmd.Flags().GetString("program"); program != "" {
				index = programIndex(alloc, program)
				if index < 0 {
					return fmt.Errorf("subsidy program %q not found", program)
				}
			}
			value, _ := cmd.Flags().GetFloat64("value")

			next, err := allocation.Rebalance(alloc, index, value)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			percents := make([]string, len(next))
			for i, share := range next {
				marker := " "
				if i == index {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-24s %3d%%\n", marker, share.Name, share.Percent)
				percents[i] = strconv.Itoa(share.Percent)
			}
			fmt.Fprintf(out, "Allocation: %s\n", strings.Join(percents, ","))
			return nil
		},
	}
	cmd.Flags().String("subsidies", "", "Current allocation as comma-separated percents (default: configured defaults)")
	cmd.Flags().IntP("index", "i", -1, "Zero-based index of the program to set")
	cmd.Flags().String("program", "", "Name of the program to set, instead of --index")
	cmd.Flags().Float64P("value", "v", 0, "New percent for the program")
	return cmd
}

// parseAllocation reads "30,25,20" into shares named after the catalog
func parseAllocation(raw string, catalog []string) ([]domain.SubsidyShare, error) {
	parts := strings.Split(raw, ",")
	alloc := make([]domain.SubsidyShare, 0, len(parts))
	for i, part := range parts {
		percent, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid subsidy percent %q: %w", part, err)
		}
		name := fmt.Sprintf("Program %d", i+1)
		if len(parts) == len(catalog) {
			name = catalog[i]
		}
		alloc = append(alloc, domain.SubsidyShare{Name: name, Percent: percent})
	}
	return alloc, nil
}

func programIndex(alloc []domain.SubsidyShare, name string) int {
	for i, s := range alloc {
		if strings.EqualFold(s.Name, name) {
			return i
		}
	}
	return -1
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the result as CSV and xlsx files",
		Long: `Write carbon-pricing-data_<timestamp>.csv (Group, Tax Cost, Net Transfer)
and the matching .xlsx workbook into a directory.`,
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
			result, err := s.engine().Compute(params, s.reference())
			if err != nil {
				return fmt.Errorf("calculation failed: %w", err)
			}

			dir, _ := cmd.Flags().GetString("dir")
			relative, _ := cmd.Flags().GetBool("relative")
			csvOnly, _ := cmd.Flags().GetBool("csv-only")
			report := output.NewReport(result, s.reference(), relative)

			formatters := []output.Formatter{output.CSVFormatter{}}
			if !csvOnly {
				formatters = append(formatters, output.XLSXFormatter{})
			}
			for _, f := range formatters {
				path, err := output.WriteFormattedIn(dir, f, report, output.Extension(f))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			}
			return nil
		},
	}
	addParameterFlags(cmd)
	cmd.Flags().StringP("dir", "d", ".", "Directory to write the files into")
	cmd.Flags().Bool("relative", false, "Report amounts as a percent of each group's tax paid")
	cmd.Flags().Bool("csv-only", false, "Skip the xlsx workbook")
	return cmd
}

func measuresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "measures",
		Short: "List the compensation measures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSession(cmd)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(s.templates))
			return nil
		},
	}
}
