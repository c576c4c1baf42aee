// Envdash is a terminal dashboard for an indoor environment monitoring
// backend.
//
// It polls the backend's REST API for the latest sensor reading and the
// recent history, shows comfort status, device states and trend charts, and
// raises an alert whenever the comfort level leaves "Comfortable". One-shot
// commands print the same data (and the backend's prediction history,
// device status and summary) without starting the full-screen dashboard.
//
// Usage:
//
//	envdash [command] [flags]
//
// Running without arguments launches the dashboard.
// See 'envdash --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/envdash/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "envdash",
	Short: "Indoor Environment Monitoring Dashboard",
	Long: `A terminal dashboard for an indoor environment monitoring backend.

Shows the latest temperature, humidity and air quality readings with their
predictions, the comfort status, the state of the air conditioner, purifier
and dehumidifier, and charts of the recent history. An alert is raised
whenever the comfort level changes away from "Comfortable".

If no command is specified, the dashboard will launch automatically.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the dashboard when no subcommand provided
		return runDashboard(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s (commit: %s)\n", version.BinaryName, version.Version, version.Commit)
	},
}
