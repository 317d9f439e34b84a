// Package metrics exposes Prometheus metrics for the evaluation pipeline:
// per-evaluation counters and latency, cycle-level summaries, and policy
// reload outcomes. The Collector owns its own registry so tests never
// collide on the global default.
package metrics
