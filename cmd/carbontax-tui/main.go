package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/carbontax/internal/calculation"
	"github.com/rgehrsitz/carbontax/internal/tui"
)

// fileLogger implements calculation.Logger on the log file bubbletea opens,
// since the alternate screen owns stdout
type fileLogger struct{}

func (fileLogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (fileLogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (fileLogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (fileLogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carbontax-tui [config-file]",
		Short: "Interactive carbon tax incidence calculator",
		Long: `Move the policy sliders and watch the net transfer per income group.

Without a config file the built-in illustrative decile table is used.
Press ? inside the program for all keys.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := tui.Options{}
			if len(args) == 1 {
				opts.ConfigPath = args[0]
				if _, err := os.Stat(opts.ConfigPath); os.IsNotExist(err) {
					return fmt.Errorf("config file not found: %s", opts.ConfigPath)
				}
			}
			opts.Query, _ = cmd.Flags().GetString("query")
			opts.ExportDir, _ = cmd.Flags().GetString("export-dir")

			if logPath, _ := cmd.Flags().GetString("debug"); logPath != "" {
				f, err := tea.LogToFile(logPath, "carbontax")
				if err != nil {
					return fmt.Errorf("failed to open debug log: %w", err)
				}
				defer f.Close()
				opts.Logger = fileLogger{}
			} else {
				opts.Logger = calculation.NopLogger{}
			}

			p := tea.NewProgram(tui.NewModel(opts), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringP("query", "q", "", "Start from a share link or query string")
	cmd.Flags().String("export-dir", ".", "Directory the export key writes into")
	cmd.Flags().String("debug", "", "Write debug logs to this file")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
