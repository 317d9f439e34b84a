package config

import (
	"time"

	"landguard-hq/landguard/pkg/rules"
)

// Config is the root daemon configuration.
type Config struct {
	Monitoring MonitoringConfig `yaml:"monitoring" json:"monitoring"`
	Policy     PolicyConfig     `yaml:"policy" json:"policy"`
	Storage    StorageConfig    `yaml:"storage" json:"storage"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" json:"telemetry"`
}

// MonitoringConfig controls the evaluation cycle.
type MonitoringConfig struct {
	// Schedule is a cron expression for periodic evaluation cycles.
	Schedule string `yaml:"schedule" json:"schedule"`

	// SignalsDir is the directory holding per-plot signal files.
	SignalsDir string `yaml:"signals_dir" json:"signals_dir"`

	// RunOnStart triggers one cycle immediately at daemon startup.
	RunOnStart bool `yaml:"run_on_start" json:"run_on_start"`

	// CycleTimeout bounds a single evaluation cycle.
	CycleTimeout time.Duration `yaml:"cycle_timeout" json:"cycle_timeout"`
}

// PolicyConfig selects where thresholds come from.
//
// Mode "static" uses the inline Thresholds section, "file" loads and
// watches a thresholds YAML file, "git" tracks a file in a Git
// repository.
type PolicyConfig struct {
	Mode string `yaml:"mode" json:"mode"`

	// Thresholds are the inline values used in static mode. They also
	// act as the base when validating; file and git modes ignore them.
	Thresholds rules.Thresholds `yaml:"thresholds" json:"thresholds"`

	// FilePath is the thresholds file for file mode.
	FilePath string `yaml:"file_path" json:"file_path"`

	// Watch enables hot reload of thresholds on change.
	Watch bool `yaml:"watch" json:"watch"`

	// Git mode settings.
	GitRepository   string        `yaml:"git_repository" json:"git_repository"`
	GitBranch       string        `yaml:"git_branch" json:"git_branch"`
	GitPath         string        `yaml:"git_path" json:"git_path"`
	GitLocalPath    string        `yaml:"git_local_path" json:"git_local_path"`
	GitPollInterval time.Duration `yaml:"git_poll_interval" json:"git_poll_interval"`
}

// StorageConfig selects the violation record backend.
type StorageConfig struct {
	// Backend is "sqlite" or "memory".
	Backend string `yaml:"backend" json:"backend"`

	SQLite SQLiteConfig `yaml:"sqlite" json:"sqlite"`
}

// SQLiteConfig holds SQLite backend settings.
type SQLiteConfig struct {
	Path         string        `yaml:"path" json:"path"`
	MaxOpenConns int           `yaml:"max_open_conns" json:"max_open_conns"`
	MaxIdleConns int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	WALMode      bool          `yaml:"wal_mode" json:"wal_mode"`
	BusyTimeout  time.Duration `yaml:"busy_timeout" json:"busy_timeout"`
}

// TelemetryConfig controls logging and metrics.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format" json:"format"`

	// AddSource includes file:line in log records.
	AddSource bool `yaml:"add_source" json:"add_source"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	ListenAddress string `yaml:"listen_address" json:"listen_address"`
	Path          string `yaml:"path" json:"path"`
}
