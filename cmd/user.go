package cmd

import (
	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/output"
)

var userJSON bool

var userCmd = &cobra.Command{
	Use:     "user <user-id>",
	Short:   "Record a new user registration",
	GroupID: "record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		res := eng.RecordUserRegistration(cmd.Context(), args[0])
		if userJSON {
			return output.JSON(res.Stats)
		}
		output.Success("User %s recorded (%d total)", args[0], res.Stats.TotalUsers)
		if res.Offline {
			output.Offline()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.Flags().BoolVar(&userJSON, "json", false, "Output the resulting aggregate as JSON")
}
