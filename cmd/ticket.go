package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/output"
)

var (
	ticketDrawID   string
	ticketUsername string
	ticketJSON     bool
)

var ticketCmd = &cobra.Command{
	Use:   "ticket <user-id> <ticket-id>",
	Short: "Record a ticket purchase",
	Long: `Record a ticket purchase against today's draw.

The purchase is committed to the local cache immediately; when a backend is
configured the event is forwarded and the backend's aggregate replaces the
local one. Call once per distinct participant event; no per-user dedup is
performed here.`,
	GroupID: "record",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		drawID := ticketDrawID
		if drawID == "" {
			drawID = eng.LocalStats().CurrentDrawID
		}

		res := eng.RecordTicketPurchase(cmd.Context(), args[0], args[1], drawID, ticketUsername)
		if ticketJSON {
			return output.JSON(res.Stats)
		}
		output.Success("Ticket %s recorded for draw %s (today: %d sold)",
			args[1], drawID, res.Stats.TodayTicketsSold)
		if res.Offline {
			output.Offline()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ticketCmd)
	ticketCmd.Flags().StringVar(&ticketDrawID, "draw", "", "Draw ID (default: the current local draw)")
	ticketCmd.Flags().StringVar(&ticketUsername, "username", "", "Username for the backend event")
	ticketCmd.Flags().BoolVar(&ticketJSON, "json", false, "Output the resulting aggregate as JSON")
}
