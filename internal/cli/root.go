package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the autoreel CLI
var rootCmd = &cobra.Command{
	Use:   "autoreel",
	Short: "Trend-driven video content automation",
	Long: `autoreel fetches trending YouTube videos, analyzes what performs,
turns topics into text-to-video prompts, drives video generation, and
keeps track of the videos you publish.`,
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
