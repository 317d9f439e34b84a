package rules

import (
	"log/slog"

	"landguard-hq/landguard/pkg/detection"
)

// Engine evaluates detection signals against the ordered rule set.
//
// An Engine is immutable after construction and safe for concurrent use.
// Evaluate reads the constructor's threshold snapshot; EvaluateWith takes
// an explicit snapshot per call for callers with hot-reloadable policy.
type Engine struct {
	thresholds Thresholds
	ruleSet    []Rule
	logger     *slog.Logger
}

// NewEngine creates an engine with the given threshold snapshot.
// Returns a *ConfigurationError if any threshold is outside its domain.
func NewEngine(thresholds Thresholds, logger *slog.Logger) (*Engine, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		thresholds: thresholds,
		ruleSet:    defaultRuleSet(),
		logger:     logger.With("component", "rules.engine"),
	}, nil
}

// Thresholds returns the engine's threshold snapshot.
func (e *Engine) Thresholds() Thresholds {
	return e.thresholds
}

// Evaluate classifies one plot's signals against the engine's thresholds.
// It returns exactly one Result, or an error and no Result:
// a *detection.ValidationError for malformed signals. The engine holds no
// state across calls; identical input always yields identical output.
func (e *Engine) Evaluate(signals detection.Signals) (*Result, error) {
	return e.evaluate(signals, e.thresholds)
}

// EvaluateWith classifies signals against an explicit threshold snapshot.
// Use this when thresholds are hot-reloaded: read one consistent snapshot
// and pass it here rather than mutating a shared engine mid-evaluation.
// Returns a *ConfigurationError if the snapshot is malformed.
func (e *Engine) EvaluateWith(signals detection.Signals, thresholds Thresholds) (*Result, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return e.evaluate(signals, thresholds)
}

// evaluate walks the rule set in fixed priority order and returns the
// first match, or the compliant default when no trigger holds. Later
// rules are not evaluated once a trigger holds, even if they would also
// trigger.
func (e *Engine) evaluate(signals detection.Signals, thresholds Thresholds) (*Result, error) {
	if err := signals.Validate(); err != nil {
		return nil, err
	}

	for _, rule := range e.ruleSet {
		if !rule.Trigger(signals, thresholds) {
			continue
		}

		result := rule.Classify(signals, thresholds)
		e.logger.Info("violation detected",
			"plot_id", signals.PlotID,
			"violation_type", result.ViolationType,
			"severity", result.Severity,
			"confidence", result.Confidence,
			"priority", result.Priority,
		)
		return &result, nil
	}

	e.logger.Debug("plot is compliant", "plot_id", signals.PlotID)
	result := compliantResult(signals)
	return &result, nil
}

// BatchOutcome is one plot's outcome within a batch evaluation. Exactly
// one of Result and Err is set.
type BatchOutcome struct {
	PlotID string
	Result *Result
	Err    error
}

// EvaluateBatch evaluates many plots and collects per-plot outcomes.
// A malformed record does not abort the batch; its error is recorded in
// the outcome and evaluation continues with the next plot. The outcome
// slice preserves input order.
func (e *Engine) EvaluateBatch(signals []detection.Signals) []BatchOutcome {
	outcomes := make([]BatchOutcome, 0, len(signals))
	counts := make(map[ViolationType]int)

	for _, s := range signals {
		result, err := e.Evaluate(s)
		if err != nil {
			e.logger.Error("batch evaluation failed for plot",
				"plot_id", s.PlotID,
				"error", err,
			)
			outcomes = append(outcomes, BatchOutcome{PlotID: s.PlotID, Err: err})
			continue
		}
		counts[result.ViolationType]++
		outcomes = append(outcomes, BatchOutcome{PlotID: s.PlotID, Result: result})
	}

	attrs := make([]any, 0, 2+2*len(counts))
	attrs = append(attrs, "plot_count", len(signals))
	for _, t := range ViolationTypes {
		if counts[t] > 0 {
			attrs = append(attrs, string(t), counts[t])
		}
	}
	e.logger.Info("batch evaluation complete", attrs...)

	return outcomes
}
