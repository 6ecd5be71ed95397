package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/output"
	"github.com/marple/lotsync/pkg/monitor"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live TUI dashboard of the statistics aggregate",
	Long: `Launch a live-updating dashboard showing today's draw and the lifetime
counters, refreshed on an interval.

Key bindings:
  r  Force refresh
  q  Quit`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		interval, _ := cmd.Flags().GetDuration("interval")
		if interval < 500*time.Millisecond {
			interval = 2 * time.Second
		}

		model := monitor.NewModel(eng, interval, version)

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running monitor: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
	monitorCmd.Flags().Duration("interval", 2*time.Second, "Refresh interval")
}
