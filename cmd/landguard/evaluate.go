package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"landguard-hq/landguard/pkg/detection"
	"landguard-hq/landguard/pkg/records"
	"landguard-hq/landguard/pkg/rules"
)

var evaluateFlags struct {
	signalsFile    string
	thresholdsFile string
	format         string
	store          bool
}

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate one plot's detection signals",
	Long: `Evaluate a single plot's detection signals against the active
thresholds and print the classification.

The signals file is a JSON document with the plot's detection fields.
Thresholds come from the configuration file unless overridden with
--thresholds.

Examples:
  # Evaluate with configured thresholds
  landguard evaluate --signals plot-42.json

  # Evaluate with a specific thresholds file
  landguard evaluate --signals plot-42.json --thresholds strict.yaml

  # Store the result in the configured backend
  landguard evaluate --signals plot-42.json --store`,
	RunE: evaluateSignals,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)

	evaluateCmd.Flags().StringVarP(&evaluateFlags.signalsFile, "signals", "s", "", "signals JSON file (required)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.thresholdsFile, "thresholds", "", "thresholds YAML file (overrides config)")
	evaluateCmd.Flags().StringVar(&evaluateFlags.format, "format", "json", "output format: json, text")
	evaluateCmd.Flags().BoolVar(&evaluateFlags.store, "store", false, "persist a detected violation")
	evaluateCmd.MarkFlagRequired("signals")
}

func evaluateSignals(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(evaluateFlags.signalsFile)
	if err != nil {
		return fmt.Errorf("failed to read signals file: %w", err)
	}
	var signals detection.Signals
	if err := json.Unmarshal(data, &signals); err != nil {
		return fmt.Errorf("failed to parse signals file: %w", err)
	}

	thresholds, err := resolveThresholds()
	if err != nil {
		return err
	}

	engine, err := rules.NewEngine(thresholds, slog.Default())
	if err != nil {
		return err
	}
	result, err := engine.Evaluate(signals)
	if err != nil {
		return err
	}

	violation := records.NewViolation(result, time.Now())

	if evaluateFlags.store && result.ViolationType != rules.ViolationCompliant {
		cfg, err := loadDaemonConfig()
		if err != nil {
			return err
		}
		storage, err := openStorage(cfg)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Store(cmd.Context(), violation); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "stored violation %s\n", violation.ID)
	}

	return printViolation(violation, evaluateFlags.format)
}

// resolveThresholds picks the thresholds for a one-shot evaluation:
// the --thresholds file when given, otherwise the config file's static
// thresholds, otherwise the built-in defaults when no config exists.
func resolveThresholds() (rules.Thresholds, error) {
	if evaluateFlags.thresholdsFile != "" {
		data, err := os.ReadFile(evaluateFlags.thresholdsFile)
		if err != nil {
			return rules.Thresholds{}, fmt.Errorf("failed to read thresholds file: %w", err)
		}
		t := rules.DefaultThresholds()
		if err := yaml.Unmarshal(data, &t); err != nil {
			return rules.Thresholds{}, fmt.Errorf("failed to parse thresholds file: %w", err)
		}
		if err := t.Validate(); err != nil {
			return rules.Thresholds{}, err
		}
		return t, nil
	}

	if _, err := os.Stat(cfgFile); err != nil {
		return rules.DefaultThresholds(), nil
	}
	cfg, err := loadDaemonConfig()
	if err != nil {
		return rules.Thresholds{}, err
	}
	return cfg.Policy.Thresholds, nil
}

func printViolation(v *records.Violation, format string) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(v.Presentation(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "text":
		view := v.Presentation()
		fmt.Printf("Plot:        %s\n", view.PlotID)
		fmt.Printf("Type:        %s\n", view.ViolationType)
		fmt.Printf("Severity:    %s\n", view.Severity)
		fmt.Printf("Confidence:  %.2f\n", view.ConfidenceScore)
		fmt.Printf("Priority:    %d\n", view.Priority)
		fmt.Printf("Description: %s\n", view.Description)
		fmt.Printf("Actions:\n%s\n", view.RecommendedAction)
	default:
		return fmt.Errorf("unknown format %q (expected json or text)", format)
	}
	return nil
}
