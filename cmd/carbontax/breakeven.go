package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/breakeven"
)

func breakEvenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breakeven",
		Short: "Find the setting at which a decile's net transfer reaches zero",
		Long: `Search one parameter (redistribution, progressivity or rural) for the
value at which an income group's net transfer per household reaches a
target, zero by default. The search runs on the decile view.

Examples:
  carbontax breakeven --param redistribution --group 5
  carbontax breakeven --param progressivity --group 3 --target-net 50
  carbontax breakeven --param redistribution --all`,
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
			group, _ := cmd.Flags().GetInt("group")
			targetNet, _ := cmd.Flags().GetFloat64("target-net")
			all, _ := cmd.Flags().GetBool("all")
			format, _ := cmd.Flags().GetString("format")

			req := breakeven.OptimizationRequest{
				Base:        base,
				Reference:   s.reference(),
				Target:      breakeven.OptimizationTarget(param),
				Constraints: breakeven.Constraints{Group: group, TargetNet: targetNet},
			}
			if cmd.Flags().Changed("min") {
				v, _ := cmd.Flags().GetFloat64("min")
				req.Constraints.Min = &v
			}
			if cmd.Flags().Changed("max") {
				v, _ := cmd.Flags().GetFloat64("max")
				req.Constraints.Max = &v
			}

			solver := breakeven.NewDefaultSolver(s.engine())
			table := &breakeven.TableFormatter{Currency: s.reference().Currency}
			jsonFmt := &breakeven.JSONFormatter{Pretty: true}

			var out string
			if all {
				multi, err := solver.OptimizeAllGroups(cmd.Context(), req)
				if err != nil {
					return err
				}
				switch format {
				case "json":
					out, err = jsonFmt.FormatMultiGroup(multi)
				case "table":
					out = table.FormatMultiGroup(multi)
				default:
					return fmt.Errorf("unknown format %q (valid: table, json)", format)
				}
				if err != nil {
					return err
				}
			} else {
				result, err := solver.Optimize(cmd.Context(), req)
				if err != nil {
					return err
				}
				switch format {
				case "json":
					out, err = jsonFmt.Format(result)
				case "table":
					out = table.Format(result)
				default:
					return fmt.Errorf("unknown format %q (valid: table, json)", format)
				}
				if err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	addParameterFlags(cmd)
	cmd.Flags().StringP("param", "p", string(breakeven.OptimizeRedistribution), "Parameter to search (redistribution, progressivity, rural)")
	cmd.Flags().IntP("group", "g", 1, "Decile to solve for, 1 is the poorest")
	cmd.Flags().Float64("target-net", 0, "Net transfer per household to reach")
	cmd.Flags().Float64("min", 0, "Lower end of the search range")
	cmd.Flags().Float64("max", 100, "Upper end of the search range")
	cmd.Flags().Bool("all", false, "Solve for every decile")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	return cmd
}
