// Package policy manages the engine's threshold snapshots as versioned,
// hot-reloadable regulatory policy.
//
// Thresholds are the tunable surface of the rules engine; operators retune
// them without rebuilding. A Source loads one validated Thresholds snapshot
// and optionally watches for changes:
//
//   - StaticSource: a fixed snapshot from the main configuration
//   - FileSource: a YAML thresholds file, hot-reloaded via fsnotify
//   - GitSource: a thresholds file inside a Git repository, polled for
//     new commits; the commit history is the audit trail for every
//     policy change
//
// The Manager sits between a Source and the evaluation path. It holds an
// atomically swapped snapshot: Current() always returns one consistent
// Thresholds value, never a half-reloaded mix, so concurrent evaluations
// during a reload see either the old policy or the new one in full. A
// reload that fails validation keeps the last known good snapshot.
package policy
