package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults, and
// validates the result. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies LANDGUARD_* environment variable overrides on top. Environment
// variables always take precedence over file values.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration invalid after environment overrides: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Monitoring overrides
	if val := os.Getenv("LANDGUARD_MONITORING_SCHEDULE"); val != "" {
		cfg.Monitoring.Schedule = val
	}
	if val := os.Getenv("LANDGUARD_MONITORING_SIGNALS_DIR"); val != "" {
		cfg.Monitoring.SignalsDir = val
	}
	if val := os.Getenv("LANDGUARD_MONITORING_RUN_ON_START"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Monitoring.RunOnStart = b
		}
	}
	if val := os.Getenv("LANDGUARD_MONITORING_CYCLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Monitoring.CycleTimeout = d
		}
	}

	// Policy overrides
	if val := os.Getenv("LANDGUARD_POLICY_MODE"); val != "" {
		cfg.Policy.Mode = val
	}
	if val := os.Getenv("LANDGUARD_POLICY_FILE_PATH"); val != "" {
		cfg.Policy.FilePath = val
	}
	if val := os.Getenv("LANDGUARD_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}
	if val := os.Getenv("LANDGUARD_POLICY_GIT_REPOSITORY"); val != "" {
		cfg.Policy.GitRepository = val
	}
	if val := os.Getenv("LANDGUARD_POLICY_GIT_BRANCH"); val != "" {
		cfg.Policy.GitBranch = val
	}
	if val := os.Getenv("LANDGUARD_POLICY_GIT_PATH"); val != "" {
		cfg.Policy.GitPath = val
	}

	// Storage overrides
	if val := os.Getenv("LANDGUARD_STORAGE_BACKEND"); val != "" {
		cfg.Storage.Backend = val
	}
	if val := os.Getenv("LANDGUARD_STORAGE_SQLITE_PATH"); val != "" {
		cfg.Storage.SQLite.Path = val
	}

	// Telemetry overrides
	if val := os.Getenv("LANDGUARD_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("LANDGUARD_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("LANDGUARD_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("LANDGUARD_METRICS_LISTEN_ADDRESS"); val != "" {
		cfg.Telemetry.Metrics.ListenAddress = val
	}
}
