package cmd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/output"
)

var (
	drawCompleteID      string
	drawCompleteWinner  string
	drawCompleteTicket  string
	drawCompleteAmount  float64
	drawCompleteEntries int64
	drawCompleteJSON    bool
)

var drawCmd = &cobra.Command{
	Use:     "draw",
	Short:   "Draw lifecycle commands",
	GroupID: "record",
}

var drawCompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Record a completed draw and its winner",
	Long: `Record a completed draw: the winner snapshot, the prize paid out, and
the lifetime draw counters. Missing details are prompted for
interactively.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		if drawCompleteID == "" {
			drawCompleteID = eng.LocalStats().CurrentDrawID
		}
		if drawCompleteWinner == "" || drawCompleteTicket == "" || drawCompleteAmount <= 0 {
			if err := runDrawCompleteForm(); err != nil {
				return err
			}
		}

		res := eng.RecordDrawCompletion(cmd.Context(),
			drawCompleteID, drawCompleteWinner, drawCompleteTicket,
			drawCompleteAmount, drawCompleteEntries)
		if drawCompleteJSON {
			return output.JSON(res.Stats)
		}
		output.Success("Draw %s completed: %s won %.2f", drawCompleteID, drawCompleteWinner, drawCompleteAmount)
		if res.Offline {
			output.Offline()
		}
		return nil
	},
}

// runDrawCompleteForm prompts for the fields not supplied as flags.
func runDrawCompleteForm() error {
	amountStr := ""
	if drawCompleteAmount > 0 {
		amountStr = strconv.FormatFloat(drawCompleteAmount, 'f', 2, 64)
	}
	entriesStr := strconv.FormatInt(drawCompleteEntries, 10)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Draw ID").
				Value(&drawCompleteID).
				Validate(requireValue("draw ID")),
			huh.NewInput().
				Title("Winner username").
				Value(&drawCompleteWinner).
				Validate(requireValue("winner username")),
			huh.NewInput().
				Title("Winning ticket ID").
				Value(&drawCompleteTicket).
				Validate(requireValue("ticket ID")),
			huh.NewInput().
				Title("Prize amount").
				Value(&amountStr).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || v <= 0 {
						return errors.New("enter a positive amount")
					}
					return nil
				}),
			huh.NewInput().
				Title("Total entries").
				Value(&entriesStr).
				Validate(func(s string) error {
					v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || v < 0 {
						return errors.New("enter a non-negative count")
					}
					return nil
				}),
		).Title("Complete draw"),
	)
	if err := form.Run(); err != nil {
		return err
	}

	drawCompleteAmount, _ = strconv.ParseFloat(strings.TrimSpace(amountStr), 64)
	drawCompleteEntries, _ = strconv.ParseInt(strings.TrimSpace(entriesStr), 10, 64)
	return nil
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func init() {
	rootCmd.AddCommand(drawCmd)
	drawCmd.AddCommand(drawCompleteCmd)
	drawCompleteCmd.Flags().StringVar(&drawCompleteID, "draw", "", "Draw ID (default: the current local draw)")
	drawCompleteCmd.Flags().StringVar(&drawCompleteWinner, "winner", "", "Winner username")
	drawCompleteCmd.Flags().StringVar(&drawCompleteTicket, "ticket", "", "Winning ticket ID")
	drawCompleteCmd.Flags().Float64Var(&drawCompleteAmount, "amount", 0, "Prize amount paid out")
	drawCompleteCmd.Flags().Int64Var(&drawCompleteEntries, "entries", 0, "Total entries in the draw")
	drawCompleteCmd.Flags().BoolVar(&drawCompleteJSON, "json", false, "Output the resulting aggregate as JSON")
}
