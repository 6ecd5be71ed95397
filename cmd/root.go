package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var version string

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "lotsync",
	Short: "Offline-first sync for global lottery statistics",
	Long: `lotsync keeps the shared lottery statistics aggregate usable on this
device even with no backend reachable, and reconciles with the backend
opportunistically when one is configured.

Every recording command commits to the local cache first; the backend,
when reachable, answers with the authoritative aggregate which replaces
the local copy wholesale.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Accept both under_score and dash-ed flag spellings.
	rootCmd.SetGlobalNormalizationFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "record", Title: "Recording Commands:"},
		&cobra.Group{ID: "query", Title: "Query Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)
	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}
