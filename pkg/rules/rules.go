package rules

import (
	"fmt"

	"landguard-hq/landguard/pkg/detection"
)

// encroachmentRule detects activity outside the approved plot boundary.
// This is the highest-priority violation: land beyond the sanctioned
// boundary is in unauthorized use regardless of what happens inside it.
func encroachmentRule() Rule {
	return Rule{
		Type:     ViolationEncroachment,
		Priority: 1,
		Trigger: func(s detection.Signals, t Thresholds) bool {
			return s.HasEncroachment && s.EncroachmentRatio() > t.EncroachmentRatio
		},
		Classify: func(s detection.Signals, t Thresholds) Result {
			ratio := s.EncroachmentRatio()

			var severity Severity
			switch {
			case atLeastBand(ratio, 0.10):
				severity = SeverityCritical
			case atLeastBand(ratio, 0.05):
				severity = SeverityHigh
			default:
				severity = SeverityMedium
			}

			return Result{
				ViolationType: ViolationEncroachment,
				Severity:      severity,
				Confidence:    clampConfidence(0.80 + ratio),
				Description: fmt.Sprintf(
					"Encroachment detected: %.2f sqm (%.1f%% of approved area) extends beyond the plot boundary. Unauthorized use of adjacent land.",
					s.EncroachmentArea, ratio*100,
				),
				RecommendedActions: RecommendedActions(ViolationEncroachment),
				Priority:           1,
				Signals:            s,
			}
		},
	}
}

// illegalConstructionRule detects a built-up footprint exceeding the
// approved area. The severity band and priority rank both tighten with
// the excess fraction.
func illegalConstructionRule() Rule {
	return Rule{
		Type:     ViolationIllegalConstruction,
		Priority: 2,
		Trigger: func(s detection.Signals, t Thresholds) bool {
			return s.BuiltUpRatio() > t.IllegalConstructionRatio
		},
		Classify: func(s detection.Signals, t Thresholds) Result {
			excess := s.BuiltUpRatio() - 1.0

			var severity Severity
			var priority int
			switch {
			case atLeastBand(excess, 0.50):
				severity, priority = SeverityHigh, 1
			case atLeastBand(excess, 0.20):
				severity, priority = SeverityHigh, 2
			default:
				severity, priority = SeverityMedium, 3
			}

			return Result{
				ViolationType: ViolationIllegalConstruction,
				Severity:      severity,
				Confidence:    clampConfidence(0.70 + excess/2),
				Description: fmt.Sprintf(
					"Illegal construction detected: built-up area %.2f sqm exceeds approved area %.2f sqm by %.1f%%. Potential unauthorized expansion or construction.",
					s.BuiltUpArea, s.ApprovedArea, excess*100,
				),
				RecommendedActions: RecommendedActions(ViolationIllegalConstruction),
				Priority:           priority,
				Signals:            s,
			}
		},
	}
}

// suspiciousChangeRule detects rapid alterations flagged by the change
// detection model. The score is a calibrated probability, so it is used
// directly as the confidence.
func suspiciousChangeRule() Rule {
	return Rule{
		Type:     ViolationSuspiciousChange,
		Priority: 3,
		Trigger: func(s detection.Signals, t Thresholds) bool {
			return s.ChangeScore > t.ChangeScoreCutoff
		},
		Classify: func(s detection.Signals, t Thresholds) Result {
			var severity Severity
			var priority int
			switch {
			case atLeastBand(s.ChangeScore, 0.90):
				severity, priority = SeverityMedium, 2
			case atLeastBand(s.ChangeScore, 0.80):
				severity, priority = SeverityMedium, 3
			default:
				severity, priority = SeverityLow, 4
			}

			return Result{
				ViolationType: ViolationSuspiciousChange,
				Severity:      severity,
				Confidence:    clampConfidence(s.ChangeScore),
				Description: fmt.Sprintf(
					"Suspicious change detected: change confidence score %.0f%% indicates significant alterations to the plot. Possible unauthorized modifications or land use change.",
					s.ChangeScore*100,
				),
				RecommendedActions: RecommendedActions(ViolationSuspiciousChange),
				Priority:           priority,
				Signals:            s,
			}
		},
	}
}

// unusedLandRule detects plots showing no meaningful activity: negligible
// built-up footprint, no thermal signature, and a vegetation-dominated
// NDBI. The heat cutoff is configured as a fraction and compared against
// the percentage signal.
func unusedLandRule() Rule {
	return Rule{
		Type:     ViolationUnusedLand,
		Priority: 4,
		Trigger: func(s detection.Signals, t Thresholds) bool {
			return s.BuiltUpPercentage < 5.0 &&
				s.HeatPercentage < t.UnusedLandHeatCutoff*100 &&
				s.MeanNDBI < 0.0
		},
		Classify: func(s detection.Signals, t Thresholds) Result {
			return Result{
				ViolationType: ViolationUnusedLand,
				Severity:      SeverityLow,
				Confidence:    clampConfidence(1.0 - s.BuiltUpPercentage/100),
				Description: fmt.Sprintf(
					"Unused land detected: plot shows minimal activity with only %.1f%% built-up area and %.1f%% thermal signature. Land appears underutilized or abandoned.",
					s.BuiltUpPercentage, s.HeatPercentage,
				),
				RecommendedActions: RecommendedActions(ViolationUnusedLand),
				Priority:           4,
				Signals:            s,
			}
		},
	}
}

// compliantResult is the terminal default when no rule triggered.
func compliantResult(s detection.Signals) Result {
	return Result{
		ViolationType: ViolationCompliant,
		Severity:      SeverityLow,
		Confidence:    1.0,
		Description: fmt.Sprintf(
			"Plot is compliant: built-up area %.2f sqm is within approved limits. No violations detected.",
			s.BuiltUpArea,
		),
		RecommendedActions: RecommendedActions(ViolationCompliant),
		Priority:           5,
		Signals:            s,
	}
}
