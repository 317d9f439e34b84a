// Package logging builds the process-wide structured logger on top of
// log/slog. The daemon writes JSON records by default; text output is
// available for interactive use.
package logging
