package config

import (
	"time"

	"landguard-hq/landguard/pkg/rules"
)

// Policy source modes.
const (
	PolicyModeStatic = "static"
	PolicyModeFile   = "file"
	PolicyModeGit    = "git"
)

// Storage backends.
const (
	StorageBackendSQLite = "sqlite"
	StorageBackendMemory = "memory"
)

// Default values for configuration fields.
const (
	// Monitoring defaults. The schedule runs a cycle every hour.
	DefaultMonitoringSchedule   = "0 * * * *"
	DefaultMonitoringSignalsDir = "data/signals"
	DefaultMonitoringRunOnStart = true
	DefaultCycleTimeout         = 10 * time.Minute

	// Policy defaults
	DefaultPolicyMode         = PolicyModeStatic
	DefaultPolicyFilePath     = "thresholds.yaml"
	DefaultPolicyGitBranch    = "main"
	DefaultPolicyGitPath      = "thresholds.yaml"
	DefaultGitPollInterval    = 5 * time.Minute
	DefaultPolicyGitLocalPath = "data/policy-repo"

	// Storage defaults
	DefaultStorageBackend    = StorageBackendSQLite
	DefaultSQLitePath        = "data/violations.db"
	DefaultSQLiteMaxOpen     = 10
	DefaultSQLiteMaxIdle     = 5
	DefaultSQLiteWALMode     = true
	DefaultSQLiteBusyTimeout = 5 * time.Second

	// Telemetry defaults
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "json"
	DefaultMetricsEnabled = false
	DefaultMetricsListen  = "127.0.0.1:9090"
	DefaultMetricsPath    = "/metrics"
)

// DefaultConfig returns a fully populated configuration with default
// values for every field.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in default values for any zero-valued fields.
// Explicitly configured values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Monitoring.Schedule == "" {
		cfg.Monitoring.Schedule = DefaultMonitoringSchedule
	}
	if cfg.Monitoring.SignalsDir == "" {
		cfg.Monitoring.SignalsDir = DefaultMonitoringSignalsDir
	}
	if cfg.Monitoring.CycleTimeout == 0 {
		cfg.Monitoring.CycleTimeout = DefaultCycleTimeout
	}

	if cfg.Policy.Mode == "" {
		cfg.Policy.Mode = DefaultPolicyMode
	}
	if isZeroThresholds(cfg.Policy.Thresholds) {
		cfg.Policy.Thresholds = rules.DefaultThresholds()
	}
	if cfg.Policy.FilePath == "" {
		cfg.Policy.FilePath = DefaultPolicyFilePath
	}
	if cfg.Policy.GitBranch == "" {
		cfg.Policy.GitBranch = DefaultPolicyGitBranch
	}
	if cfg.Policy.GitPath == "" {
		cfg.Policy.GitPath = DefaultPolicyGitPath
	}
	if cfg.Policy.GitLocalPath == "" {
		cfg.Policy.GitLocalPath = DefaultPolicyGitLocalPath
	}
	if cfg.Policy.GitPollInterval == 0 {
		cfg.Policy.GitPollInterval = DefaultGitPollInterval
	}

	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = DefaultStorageBackend
	}
	// WAL mode defaults to on only when the whole section is omitted;
	// an explicit sqlite section with wal_mode absent keeps it off.
	if cfg.Storage.SQLite == (SQLiteConfig{}) {
		cfg.Storage.SQLite.WALMode = DefaultSQLiteWALMode
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Storage.SQLite.MaxOpenConns == 0 {
		cfg.Storage.SQLite.MaxOpenConns = DefaultSQLiteMaxOpen
	}
	if cfg.Storage.SQLite.MaxIdleConns == 0 {
		cfg.Storage.SQLite.MaxIdleConns = DefaultSQLiteMaxIdle
	}
	if cfg.Storage.SQLite.BusyTimeout == 0 {
		cfg.Storage.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLogLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLogFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListen
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}

// isZeroThresholds reports whether no threshold field was configured.
// A partially configured section is left untouched so Validate can
// reject it rather than silently patching it.
func isZeroThresholds(t rules.Thresholds) bool {
	return t == rules.Thresholds{}
}
