package main

import (
	"fmt"
	"log/slog"

	"landguard-hq/landguard/pkg/config"
	"landguard-hq/landguard/pkg/policy"
	"landguard-hq/landguard/pkg/records"
	"landguard-hq/landguard/pkg/telemetry/logging"
)

// loadDaemonConfig loads the configuration file with environment
// overrides and applies global flag overrides.
func loadDaemonConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger builds the process logger from the telemetry section and
// installs it as the slog default.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	logger, err := logging.New(cfg.Telemetry.Logging, nil)
	if err != nil {
		return nil, err
	}
	logging.SetDefault(logger)
	return logger, nil
}

// openStorage creates the configured violation record backend.
func openStorage(cfg *config.Config) (records.Storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendMemory:
		return records.NewMemoryStorage(), nil
	case config.StorageBackendSQLite:
		return records.NewSQLiteStorage(&records.SQLiteConfig{
			Path:         cfg.Storage.SQLite.Path,
			MaxOpenConns: cfg.Storage.SQLite.MaxOpenConns,
			MaxIdleConns: cfg.Storage.SQLite.MaxIdleConns,
			WALMode:      cfg.Storage.SQLite.WALMode,
			BusyTimeout:  cfg.Storage.SQLite.BusyTimeout,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// buildPolicySource creates the thresholds source selected by the policy
// section.
func buildPolicySource(cfg *config.Config, logger *slog.Logger) (policy.Source, error) {
	switch cfg.Policy.Mode {
	case config.PolicyModeStatic:
		return policy.NewStaticSource(cfg.Policy.Thresholds)
	case config.PolicyModeFile:
		return policy.NewFileSource(cfg.Policy.FilePath, logger)
	case config.PolicyModeGit:
		gitCfg := policy.DefaultGitConfig()
		gitCfg.Repository = cfg.Policy.GitRepository
		gitCfg.Branch = cfg.Policy.GitBranch
		gitCfg.Path = cfg.Policy.GitPath
		gitCfg.LocalPath = cfg.Policy.GitLocalPath
		gitCfg.PollInterval = cfg.Policy.GitPollInterval
		return policy.NewGitSource(gitCfg, logger)
	default:
		return nil, fmt.Errorf("unknown policy mode %q", cfg.Policy.Mode)
	}
}
