package records

import (
	"time"

	"github.com/google/uuid"

	"landguard-hq/landguard/pkg/detection"
	"landguard-hq/landguard/pkg/rules"
)

// Violation is one persisted classification outcome for one plot in one
// analysis cycle.
type Violation struct {
	// ID is the unique record identifier (UUID v4).
	ID string `json:"id"`

	// PlotID identifies the classified plot.
	PlotID string `json:"plot_id"`

	// ViolationType is the classified violation, including "compliant".
	ViolationType rules.ViolationType `json:"violation_type"`

	// Severity is the assigned severity band.
	Severity rules.Severity `json:"severity"`

	// Confidence is the engine's certainty, within [0,1].
	Confidence float64 `json:"confidence"`

	// Description explains the finding with the measured values.
	Description string `json:"description"`

	// RecommendedActions is the ordered remediation list.
	RecommendedActions []string `json:"recommended_actions"`

	// Priority is the urgency ranking, 1 most urgent.
	Priority int `json:"priority"`

	// DetectedAt is when the evaluation produced this result.
	DetectedAt time.Time `json:"detected_at"`

	// Signals is the audit snapshot of the engine's input.
	Signals detection.Signals `json:"signals"`
}

// NewViolation builds a record from an evaluation result.
func NewViolation(result *rules.Result, detectedAt time.Time) *Violation {
	return &Violation{
		ID:                 uuid.NewString(),
		PlotID:             result.Signals.PlotID,
		ViolationType:      result.ViolationType,
		Severity:           result.Severity,
		Confidence:         result.Confidence,
		Description:        result.Description,
		RecommendedActions: result.RecommendedActions,
		Priority:           result.Priority,
		DetectedAt:         detectedAt,
		Signals:            result.Signals,
	}
}

// View is the presentation serialization of a Violation: the shape the
// API and UI layers consume. Recommended actions collapse to a single
// newline-joined text block.
type View struct {
	ID                string  `json:"id"`
	PlotID            string  `json:"plotId"`
	ViolationType     string  `json:"violationType"`
	Severity          string  `json:"severity"`
	ConfidenceScore   float64 `json:"confidenceScore"`
	Description       string  `json:"description"`
	RecommendedAction string  `json:"recommendedAction"`
	Priority          int     `json:"priority"`
	DetectedAt        string  `json:"detectedAt"`
}

// Presentation converts the record to its presentation shape.
func (v *Violation) Presentation() *View {
	return &View{
		ID:                v.ID,
		PlotID:            v.PlotID,
		ViolationType:     v.ViolationType.String(),
		Severity:          v.Severity.String(),
		ConfidenceScore:   v.Confidence,
		Description:       v.Description,
		RecommendedAction: rules.JoinActions(v.RecommendedActions),
		Priority:          v.Priority,
		DetectedAt:        v.DetectedAt.UTC().Format(time.RFC3339),
	}
}
