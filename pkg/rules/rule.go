package rules

import (
	"landguard-hq/landguard/pkg/detection"
)

// Rule pairs a trigger predicate with a classifier for one violation type.
// Rules are independent: a trigger inspects only the signals and the
// threshold snapshot, and a classifier is only invoked after its own
// trigger held. The engine owns ordering and short-circuiting.
type Rule struct {
	// Type is the violation type this rule detects.
	Type ViolationType

	// Priority is the fixed rank of this rule in the evaluation order,
	// 1 highest. Informational; the rule set slice ordering is what the
	// engine actually walks.
	Priority int

	// Trigger reports whether the violation condition holds.
	// All threshold comparisons are strict: a ratio exactly equal to its
	// threshold does not trigger.
	Trigger func(s detection.Signals, t Thresholds) bool

	// Classify computes the severity band, confidence, description and
	// recommended actions for signals whose Trigger held.
	Classify func(s detection.Signals, t Thresholds) Result
}

// defaultRuleSet returns the rules in fixed priority order. The order is
// part of the regulatory contract: encroachment outranks illegal
// construction, which outranks suspicious change, which outranks unused
// land. Compliant is not a rule; it is the engine's terminal default.
func defaultRuleSet() []Rule {
	return []Rule{
		encroachmentRule(),
		illegalConstructionRule(),
		suspiciousChangeRule(),
		unusedLandRule(),
	}
}

// bandEpsilon absorbs the float error of area divisions when a measured
// magnitude lands exactly on a severity band edge (12000/10000 - 1.0 is
// a hair under 0.20).
const bandEpsilon = 1e-9

// atLeastBand reports whether a magnitude meets a severity band edge.
// Band edges are inclusive: a magnitude equal to the edge takes the
// higher band. Rule triggers stay strict; only banding uses this.
func atLeastBand(v, edge float64) bool {
	return v >= edge-bandEpsilon
}

// clampConfidence bounds a confidence value to [0,1].
func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
