package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "landguard",
	Short: "Landguard - industrial land plot violation monitoring",
	Long: `Landguard monitors industrial land plots for regulatory violations.

It evaluates remote-sensing detection signals against configurable
thresholds and classifies each plot into one of five outcomes:
  - encroachment beyond the approved boundary
  - illegal construction exceeding the approved built-up area
  - suspicious temporal change
  - unused land showing no activity
  - compliant

Detected violations are stored with severity, confidence, and
recommended enforcement actions.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
