// Package commands contains the prwarden CLI commands.
package commands

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd is the base command for the prwarden CLI.
var rootCmd = &cobra.Command{
	Use:   "prwarden",
	Short: "Pull request process bot",
	Long: `prwarden enforces process rules on pull requests: ticket references
in titles, external-contributor greetings and SME reviewer assignment.

The webhook server lives in prwarden-web; this CLI replays saved
webhook payloads through the same rules for local testing.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
