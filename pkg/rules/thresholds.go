package rules

// Default threshold values. These mirror the regulatory policy defaults;
// operators retune them through configuration, never by rebuilding.
const (
	// DefaultEncroachmentRatio triggers the encroachment rule when the
	// encroached fraction of the approved area exceeds it (1%).
	DefaultEncroachmentRatio = 0.01

	// DefaultIllegalConstructionRatio triggers the illegal construction
	// rule when built-up over approved exceeds it (110% of approved).
	DefaultIllegalConstructionRatio = 1.10

	// DefaultUnusedLandHeatCutoff is the thermal activity fraction below
	// which a plot counts as showing no heat signature (5%).
	DefaultUnusedLandHeatCutoff = 0.05

	// DefaultChangeScoreCutoff triggers the suspicious change rule when
	// the change confidence exceeds it.
	DefaultChangeScoreCutoff = 0.70
)

// Thresholds is the tunable policy surface of the engine. A Thresholds
// value is an immutable snapshot: the With* builders return modified
// copies, and every evaluation reads one consistent snapshot. Callers
// doing hot reload swap whole snapshots, never individual fields.
type Thresholds struct {
	// EncroachmentRatio is the encroached-area fraction of the approved
	// area above which the encroachment rule triggers. Must be positive.
	EncroachmentRatio float64 `yaml:"encroachment_ratio" json:"encroachment_ratio"`

	// IllegalConstructionRatio is the built-up over approved area ratio
	// above which the illegal construction rule triggers. Must be at
	// least 1.0: a value below that would flag plots inside their
	// approved footprint.
	IllegalConstructionRatio float64 `yaml:"illegal_construction_ratio" json:"illegal_construction_ratio"`

	// UnusedLandHeatCutoff is the thermal signature fraction below which
	// a plot counts as inactive. Must be within (0,1].
	UnusedLandHeatCutoff float64 `yaml:"unused_land_heat_cutoff" json:"unused_land_heat_cutoff"`

	// ChangeScoreCutoff is the change confidence above which the
	// suspicious change rule triggers. Must be within (0,1).
	ChangeScoreCutoff float64 `yaml:"change_score_cutoff" json:"change_score_cutoff"`
}

// DefaultThresholds returns the default threshold snapshot.
func DefaultThresholds() Thresholds {
	return Thresholds{
		EncroachmentRatio:        DefaultEncroachmentRatio,
		IllegalConstructionRatio: DefaultIllegalConstructionRatio,
		UnusedLandHeatCutoff:     DefaultUnusedLandHeatCutoff,
		ChangeScoreCutoff:        DefaultChangeScoreCutoff,
	}
}

// Validate checks every threshold against its sane domain.
// It returns a *ConfigurationError for the first violation found.
func (t Thresholds) Validate() error {
	if t.EncroachmentRatio <= 0 {
		return NewConfigurationError("encroachment_ratio", t.EncroachmentRatio, "must be positive")
	}
	if t.IllegalConstructionRatio < 1.0 {
		return NewConfigurationError("illegal_construction_ratio", t.IllegalConstructionRatio, "must be at least 1.0")
	}
	if t.UnusedLandHeatCutoff <= 0 || t.UnusedLandHeatCutoff > 1 {
		return NewConfigurationError("unused_land_heat_cutoff", t.UnusedLandHeatCutoff, "must be within (0,1]")
	}
	if t.ChangeScoreCutoff <= 0 || t.ChangeScoreCutoff >= 1 {
		return NewConfigurationError("change_score_cutoff", t.ChangeScoreCutoff, "must be within (0,1)")
	}
	return nil
}

// WithEncroachmentRatio returns a copy with the encroachment ratio set.
func (t Thresholds) WithEncroachmentRatio(ratio float64) Thresholds {
	t.EncroachmentRatio = ratio
	return t
}

// WithIllegalConstructionRatio returns a copy with the construction ratio set.
func (t Thresholds) WithIllegalConstructionRatio(ratio float64) Thresholds {
	t.IllegalConstructionRatio = ratio
	return t
}

// WithUnusedLandHeatCutoff returns a copy with the heat cutoff set.
func (t Thresholds) WithUnusedLandHeatCutoff(cutoff float64) Thresholds {
	t.UnusedLandHeatCutoff = cutoff
	return t
}

// WithChangeScoreCutoff returns a copy with the change cutoff set.
func (t Thresholds) WithChangeScoreCutoff(cutoff float64) Thresholds {
	t.ChangeScoreCutoff = cutoff
	return t
}
