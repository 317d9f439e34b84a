// Package records persists classified violation results as durable,
// queryable records.
//
// The rules engine emits one result per plot per analysis cycle; this
// package turns each into a Violation record with a unique ID, a detection
// timestamp, and a snapshot of the input signals for audit, then writes it
// through a Storage backend. Two backends are provided:
//
//   - MemoryStorage: map-backed, for tests and ephemeral runs
//   - SQLiteStorage: durable single-file store with WAL mode
//
// Records are append-only. Historical multi-violation tracking works by
// accumulation: a plot with co-occurring violations surfaces the
// lower-priority one in a later cycle once the higher-priority condition
// is remediated, and every cycle's single-label record is kept.
package records
