// Package detection defines the per-plot detection signals consumed by the
// violation rules engine.
//
// Signals are assembled by the external satellite analysis pipeline (spatial
// overlay, built-up segmentation, thermal compositing, change detection) and
// handed to this system as a single immutable record per plot per analysis
// cycle. This package owns the input contract only: field domains, required
// combinations, and the validation errors raised before any rule evaluation
// takes place.
//
// # Field Domains
//
//   - ApprovedArea: square meters, must be positive
//   - EncroachmentArea: square meters, non-negative, required when
//     HasEncroachment is set
//   - BuiltUpArea: square meters, non-negative
//   - BuiltUpPercentage, HeatPercentage: 0-100
//   - MeanNDBI: signed normalized difference built-up index
//   - ChangeScore: 0.0-1.0 calibrated change confidence
//
// Validation failures are reported as *ValidationError and identify the
// offending field. A record that fails validation never reaches the rules
// engine, so no ratio is ever computed from malformed input.
package detection
