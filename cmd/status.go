package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/config"
	"github.com/marple/lotsync/internal/engine"
	"github.com/marple/lotsync/internal/output"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show sync configuration and backend health",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		url := config.GetServerURL()
		if url == "" {
			output.Warning("No backend configured (local-only mode)")
		} else {
			output.Info("Backend:      %s", url)
			if config.GetAPIKey() != "" {
				output.Info("API key:      set")
			} else {
				output.Info("API key:      not set")
			}
			policy := eng.Policy()
			switch {
			case policy.Failing() && !policy.WouldAttempt():
				output.Warning("Sync:         paused after a failure, retrying soon")
			case policy.Failing():
				output.Info("Sync:         retrying on next operation")
			default:
				output.Info("Sync:         healthy")
			}
		}
		output.Info("Poll every:   %s", config.GetPollInterval())
		output.Info("Cache:        %s", store.Path())
		if at, ok, err := store.UpdatedAt(engine.StatsKey); err == nil && ok {
			output.Info("Cached at:    %s", at)
		}

		local := eng.LocalStats()
		output.Info("Draw date:    %s", local.CurrentDrawDate)
		output.Info("Draw:         %s", local.CurrentDrawID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
