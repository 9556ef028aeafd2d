// Package commands implements the gatebot command line.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	version string
)

var rootCmd = &cobra.Command{
	Use:   "gatebot",
	Short: "gatebot - Telegram channel membership gate",
	Long: `gatebot checks that a Telegram user has joined every required channel
before handing out the link to the website.

  gatebot run              Run the bot (default)
  gatebot check <user-id>  Check one user's memberships and print the result`,
	SilenceUsage: true,
	RunE:         runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./config.yaml", "config file (yaml, toml or json; skipped when missing)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ver string) error {
	version = ver
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gatebot %s\n", version)
	},
}
