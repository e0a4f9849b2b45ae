// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-dormant",
	Short: "A CLI tool to find dormant users across GitHub organizations.",
	Long: `github-dormant walks every repository and branch of one or more GitHub
organizations, merges commit, issue and pull request activity into a last-seen
date per user, and writes a CSV classifying each user as active, inactive or
never-active against a configurable day threshold.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
