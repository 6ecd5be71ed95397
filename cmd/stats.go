package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marple/lotsync/internal/output"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:     "stats",
	Aliases: []string{"show"},
	Short:   "Show the global lottery statistics",
	Long: `Show the global statistics aggregate.

When a backend is configured and reachable its authoritative aggregate is
fetched and cached; otherwise the local cache is shown. Either way the
command succeeds.`,
	GroupID: "query",
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, store, err := buildEngine()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer store.Close()

		res := eng.ReadStats(cmd.Context())
		if statsJSON {
			return output.JSON(res.Stats)
		}
		fmt.Print(output.FormatStats(res.Stats))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output as JSON")
}
