package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"landguard-hq/landguard/pkg/config"
)

// New creates a structured logger from the logging configuration. The
// writer defaults to os.Stdout when nil.
func New(cfg config.LoggingConfig, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stdout
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	return slog.New(handler), nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", name)
	}
}

// SetDefault installs the logger as both the slog default and the
// destination of the legacy log package.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
