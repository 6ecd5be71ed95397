package cmd

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/config"
	"github.com/marple/lotsync/internal/engine"
	"github.com/marple/lotsync/internal/models"
	"github.com/marple/lotsync/internal/output"
)

var (
	watchInterval time.Duration
	watchJSON     bool
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Stream statistics updates until interrupted",
	GroupID: "query",
	Long: `Poll the aggregate on an interval and print each refresh. The first
read happens immediately. While the backend is failing, polling slows
down to a third of the configured cadence.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		interval := watchInterval
		if !cmd.Flags().Changed("interval") {
			interval = config.GetPollInterval()
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cancel := eng.Subscribe(ctx, func(g *models.GlobalStats) {
			if watchJSON {
				output.JSON(g)
				return
			}
			output.Info("%s  tickets=%d pool=%.2f participants=%d users=%d draw=%s",
				time.Now().Format("15:04:05"),
				g.TodayTicketsSold, g.TodayPrizePool, g.TodayParticipants,
				g.TotalUsers, g.CurrentDrawID)
		}, interval)
		defer cancel()

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchInterval, "interval", engine.DefaultPollInterval, "Poll interval")
	watchCmd.Flags().BoolVar(&watchJSON, "json", false, "Print each update as JSON")
}
