package rules

import (
	"landguard-hq/landguard/pkg/detection"
)

// ViolationType classifies the outcome of one evaluation. The set is
// closed; the engine never emits a value outside the five constants below.
type ViolationType string

const (
	// ViolationEncroachment is activity detected outside the approved
	// plot boundary. Highest priority.
	ViolationEncroachment ViolationType = "encroachment"

	// ViolationIllegalConstruction is a built-up footprint exceeding the
	// approved area.
	ViolationIllegalConstruction ViolationType = "illegal_construction"

	// ViolationSuspiciousChange is a high change detection score
	// indicating rapid alterations to the plot.
	ViolationSuspiciousChange ViolationType = "suspicious_change"

	// ViolationUnusedLand is a plot showing no meaningful activity.
	ViolationUnusedLand ViolationType = "unused_land"

	// ViolationCompliant is the default outcome when no trigger holds.
	ViolationCompliant ViolationType = "compliant"
)

// ViolationTypes lists all violation types in fixed priority order,
// highest priority first. The engine evaluates rules in exactly this
// order and the order is never changed by data.
var ViolationTypes = []ViolationType{
	ViolationEncroachment,
	ViolationIllegalConstruction,
	ViolationSuspiciousChange,
	ViolationUnusedLand,
	ViolationCompliant,
}

// Valid reports whether t is a member of the closed violation type set.
func (t ViolationType) Valid() bool {
	switch t {
	case ViolationEncroachment, ViolationIllegalConstruction,
		ViolationSuspiciousChange, ViolationUnusedLand, ViolationCompliant:
		return true
	}
	return false
}

// String returns the wire representation of the violation type.
func (t ViolationType) String() string {
	return string(t)
}

// Severity is the discrete severity band assigned to a violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is a member of the closed severity set.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// String returns the wire representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// Result is the single classified outcome of one evaluation call.
type Result struct {
	// ViolationType is the classified violation, or ViolationCompliant.
	ViolationType ViolationType `json:"violation_type"`

	// Severity is the assigned severity band.
	Severity Severity `json:"severity"`

	// Confidence is the engine's certainty in the classification,
	// clamped to [0,1]. Not a calibrated statistical probability.
	Confidence float64 `json:"confidence"`

	// Description explains the finding with the measured values.
	Description string `json:"description"`

	// RecommendedActions is the fixed ordered remediation list for the
	// violation type. Ordering and count are part of the contract.
	RecommendedActions []string `json:"recommended_actions"`

	// Priority is the urgency ranking, 1 most urgent, 5 least.
	Priority int `json:"priority"`

	// Signals is the input record the classification was made from,
	// carried through for audit.
	Signals detection.Signals `json:"signals"`
}
