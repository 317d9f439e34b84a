package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "monitoring.schedule").
	Field string

	// Message is a human-readable error message.
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every field error found in a configuration.
type ValidationError struct {
	Errors []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the entire configuration, collecting all field errors
// before returning. Returns nil if the configuration is valid.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateMonitoring(&cfg.Monitoring)...)
	errs = append(errs, validatePolicy(&cfg.Policy)...)
	errs = append(errs, validateStorage(&cfg.Storage)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateMonitoring(cfg *MonitoringConfig) []FieldError {
	var errs []FieldError

	if cfg.Schedule == "" {
		errs = append(errs, FieldError{
			Field:   "monitoring.schedule",
			Message: "schedule cannot be empty",
		})
	} else if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		errs = append(errs, FieldError{
			Field:   "monitoring.schedule",
			Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Schedule, err),
		})
	}

	if cfg.SignalsDir == "" {
		errs = append(errs, FieldError{
			Field:   "monitoring.signals_dir",
			Message: "signals directory cannot be empty",
		})
	}

	if cfg.CycleTimeout <= 0 {
		errs = append(errs, FieldError{
			Field:   "monitoring.cycle_timeout",
			Message: "cycle timeout must be positive",
		})
	}

	return errs
}

func validatePolicy(cfg *PolicyConfig) []FieldError {
	var errs []FieldError

	switch cfg.Mode {
	case PolicyModeStatic:
		if err := cfg.Thresholds.Validate(); err != nil {
			errs = append(errs, FieldError{
				Field:   "policy.thresholds",
				Message: err.Error(),
			})
		}
	case PolicyModeFile:
		if cfg.FilePath == "" {
			errs = append(errs, FieldError{
				Field:   "policy.file_path",
				Message: "file path is required in file mode",
			})
		}
	case PolicyModeGit:
		if cfg.GitRepository == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git_repository",
				Message: "repository URL is required in git mode",
			})
		}
		if cfg.GitBranch == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git_branch",
				Message: "branch cannot be empty",
			})
		}
		if cfg.GitPath == "" {
			errs = append(errs, FieldError{
				Field:   "policy.git_path",
				Message: "path cannot be empty",
			})
		}
		if cfg.GitPollInterval <= 0 {
			errs = append(errs, FieldError{
				Field:   "policy.git_poll_interval",
				Message: "poll interval must be positive",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "policy.mode",
			Message: fmt.Sprintf("unknown mode %q (expected static, file, or git)", cfg.Mode),
		})
	}

	return errs
}

func validateStorage(cfg *StorageConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case StorageBackendMemory:
	case StorageBackendSQLite:
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.path",
				Message: "database path cannot be empty",
			})
		}
		if cfg.SQLite.MaxOpenConns <= 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.max_open_conns",
				Message: "must be positive",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.max_idle_conns",
				Message: "cannot be negative",
			})
		}
		if cfg.SQLite.BusyTimeout < 0 {
			errs = append(errs, FieldError{
				Field:   "storage.sqlite.busy_timeout",
				Message: "cannot be negative",
			})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "storage.backend",
			Message: fmt.Sprintf("unknown backend %q (expected sqlite or memory)", cfg.Backend),
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (expected debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (expected json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if cfg.Metrics.ListenAddress == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: "listen address is required when metrics are enabled",
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "path must start with /",
			})
		}
	}

	return errs
}
