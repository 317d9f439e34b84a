// Package rules implements the violation decision engine for industrial
// land monitoring. It converts a plot's detection signals into exactly one
// classified violation outcome with severity, confidence, and recommended
// remediation actions.
//
// The engine encodes the regulatory policy itself: a fixed priority ordering
// across competing violation types, threshold-driven severity banding, and
// per-type confidence formulas. Evaluation is deterministic and auditable;
// the input signals travel with the result so downstream consumers can
// reconstruct why a classification was made.
//
// # Evaluation Flow
//
//	detection.Signals + Thresholds
//	       ↓
//	Validate signals (reject malformed input before any ratio is computed)
//	       ↓
//	For each rule in fixed priority order:
//	  encroachment → illegal_construction → suspicious_change → unused_land
//	    Trigger holds? → Classify (severity, confidence, actions) → return
//	       ↓
//	No rule triggered → compliant (confidence 1.0)
//
// Evaluation short-circuits on the first triggered rule. When several
// triggers hold simultaneously only the highest-priority violation is
// reported for that cycle; callers needing multi-violation history invoke
// the engine once per analysis cycle and persist each single-label record.
//
// # Basic Usage
//
//	engine, err := rules.NewEngine(rules.DefaultThresholds(), logger)
//	if err != nil {
//	    return err
//	}
//
//	result, err := engine.Evaluate(signals)
//	if err != nil {
//	    // *detection.ValidationError: malformed input, no result produced
//	    return err
//	}
//
//	if result.ViolationType != rules.ViolationCompliant {
//	    store(result)
//	}
//
// # Concurrency
//
// The engine is a pure, synchronous, stateless function of its inputs: no
// I/O, no locks, no mutable state between calls. It is safe to call from
// any number of goroutines. For hot-reloadable thresholds, pass a snapshot
// per call via EvaluateWith rather than mutating a shared engine.
package rules
