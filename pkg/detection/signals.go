package detection

// Signals contains the detection measurements for one plot in one analysis
// cycle. The struct is a value type: construct it, validate it, pass it by
// value. Nothing in this system mutates a Signals record after construction.
type Signals struct {
	// PlotID identifies the industrial plot this record belongs to.
	PlotID string `json:"plot_id" yaml:"plot_id"`

	// ApprovedArea is the sanctioned plot area in square meters.
	// Must be positive; every area ratio is computed against it.
	ApprovedArea float64 `json:"approved_area" yaml:"approved_area"`

	// HasEncroachment indicates the spatial overlay found activity
	// outside the approved boundary.
	HasEncroachment bool `json:"has_encroachment" yaml:"has_encroachment"`

	// EncroachmentArea is the measured area outside the boundary in
	// square meters. Required (non-zero) when HasEncroachment is set.
	EncroachmentArea float64 `json:"encroachment_area" yaml:"encroachment_area"`

	// BuiltUpArea is the segmented built-up footprint in square meters.
	BuiltUpArea float64 `json:"built_up_area" yaml:"built_up_area"`

	// BuiltUpPercentage is the built-up share of the plot, 0-100.
	BuiltUpPercentage float64 `json:"built_up_percentage" yaml:"built_up_percentage"`

	// HeatPercentage is the thermal signature share of the plot, 0-100.
	HeatPercentage float64 `json:"heat_percentage" yaml:"heat_percentage"`

	// MeanNDBI is the mean normalized difference built-up index.
	// Negative values indicate vegetation or bare ground.
	MeanNDBI float64 `json:"mean_ndbi" yaml:"mean_ndbi"`

	// ChangeScore is the change detection confidence, 0.0-1.0.
	ChangeScore float64 `json:"change_score" yaml:"change_score"`
}

// Validate checks field domains and required combinations.
// It returns a *ValidationError describing the first violation found,
// or nil if the record is well-formed.
func (s Signals) Validate() error {
	if s.ApprovedArea <= 0 {
		return NewValidationError(s.PlotID, "approved_area", "must be positive")
	}
	if s.EncroachmentArea < 0 {
		return NewValidationError(s.PlotID, "encroachment_area", "must not be negative")
	}
	if s.HasEncroachment && s.EncroachmentArea == 0 {
		return NewValidationError(s.PlotID, "encroachment_area", "required when encroachment is flagged")
	}
	if s.BuiltUpArea < 0 {
		return NewValidationError(s.PlotID, "built_up_area", "must not be negative")
	}
	if s.BuiltUpPercentage < 0 || s.BuiltUpPercentage > 100 {
		return NewValidationError(s.PlotID, "built_up_percentage", "must be within 0-100")
	}
	if s.HeatPercentage < 0 || s.HeatPercentage > 100 {
		return NewValidationError(s.PlotID, "heat_percentage", "must be within 0-100")
	}
	if s.ChangeScore < 0 || s.ChangeScore > 1 {
		return NewValidationError(s.PlotID, "change_score", "must be within 0.0-1.0")
	}
	return nil
}

// EncroachmentRatio returns the encroachment area as a fraction of the
// approved area. Call only after Validate has passed.
func (s Signals) EncroachmentRatio() float64 {
	return s.EncroachmentArea / s.ApprovedArea
}

// BuiltUpRatio returns the built-up area as a fraction of the approved
// area. Call only after Validate has passed.
func (s Signals) BuiltUpRatio() float64 {
	return s.BuiltUpArea / s.ApprovedArea
}
