// Package monitor orchestrates periodic evaluation cycles.
//
// A cycle lists plots from a SignalProvider, fetches each plot's detection
// signals, evaluates them against the active thresholds, and persists any
// detected violations. Cycles run on a cron schedule via the Scheduler,
// or on demand through RunCycle.
//
// A plot whose signals cannot be fetched or fail validation is skipped
// and counted; one bad plot never aborts the cycle.
package monitor
