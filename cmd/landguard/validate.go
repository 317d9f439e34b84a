package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"landguard-hq/landguard/pkg/config"
	"landguard-hq/landguard/pkg/rules"
)

var validateFlags struct {
	thresholdsFile string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and threshold files",
	Long: `Check a configuration file (and optionally a thresholds file)
for errors without starting the daemon. All problems are reported
together.

Examples:
  # Validate the daemon configuration
  landguard validate --config /etc/landguard/config.yaml

  # Also validate a thresholds policy file
  landguard validate --thresholds thresholds.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.thresholdsFile, "thresholds", "", "thresholds YAML file to validate")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return err
	}
	fmt.Printf("configuration valid: %s\n", cfgFile)
	fmt.Printf("  policy mode:     %s\n", cfg.Policy.Mode)
	fmt.Printf("  storage backend: %s\n", cfg.Storage.Backend)
	fmt.Printf("  schedule:        %s\n", cfg.Monitoring.Schedule)

	if validateFlags.thresholdsFile != "" {
		data, err := os.ReadFile(validateFlags.thresholdsFile)
		if err != nil {
			return fmt.Errorf("failed to read thresholds file: %w", err)
		}
		t := rules.DefaultThresholds()
		if err := yaml.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to parse thresholds file: %w", err)
		}
		if err := t.Validate(); err != nil {
			return err
		}
		fmt.Printf("thresholds valid: %s\n", validateFlags.thresholdsFile)
		fmt.Printf("  encroachment ratio:         %.4f\n", t.EncroachmentRatio)
		fmt.Printf("  illegal construction ratio: %.4f\n", t.IllegalConstructionRatio)
		fmt.Printf("  unused land heat cutoff:    %.4f\n", t.UnusedLandHeatCutoff)
		fmt.Printf("  change score cutoff:        %.4f\n", t.ChangeScoreCutoff)
	}
	return nil
}
