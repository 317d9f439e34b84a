package rules

import (
	"encoding/json"
	"errors"
	"log/slog"
	"reflect"
	"testing"

	"landguard-hq/landguard/pkg/detection"
)

func testEngine(t testing.TB) *Engine {
	t.Helper()
	engine, err := NewEngine(DefaultThresholds(), slog.Default())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

// TestEngine_Evaluate_Scenarios covers the reference classification
// scenarios end to end.
func TestEngine_Evaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		signals        detection.Signals
		wantType       ViolationType
		wantSeverity   Severity
		wantPriority   int
		wantConfidence float64
	}{
		{
			name: "encroachment at five percent",
			signals: detection.Signals{
				PlotID:           "PLOT-001",
				ApprovedArea:     10000,
				HasEncroachment:  true,
				EncroachmentArea: 500,
			},
			wantType:       ViolationEncroachment,
			wantSeverity:   SeverityHigh,
			wantPriority:   1,
			wantConfidence: 0.85,
		},
		{
			name: "illegal construction twenty percent over",
			signals: detection.Signals{
				PlotID:       "PLOT-002",
				ApprovedArea: 10000,
				BuiltUpArea:  12000,
			},
			wantType:       ViolationIllegalConstruction,
			wantSeverity:   SeverityHigh,
			wantPriority:   2,
			wantConfidence: 0.80,
		},
		{
			name: "suspicious change at 0.95",
			signals: detection.Signals{
				PlotID:            "PLOT-003",
				ApprovedArea:      10000,
				BuiltUpArea:       9000,
				BuiltUpPercentage: 90,
				HeatPercentage:    40,
				MeanNDBI:          0.2,
				ChangeScore:       0.95,
			},
			wantType:       ViolationSuspiciousChange,
			wantSeverity:   SeverityMedium,
			wantPriority:   2,
			wantConfidence: 0.95,
		},
		{
			name: "unused land",
			signals: detection.Signals{
				PlotID:            "PLOT-004",
				ApprovedArea:      10000,
				BuiltUpArea:       200,
				BuiltUpPercentage: 2,
				HeatPercentage:    1,
				MeanNDBI:          -0.1,
			},
			wantType:       ViolationUnusedLand,
			wantSeverity:   SeverityLow,
			wantPriority:   4,
			wantConfidence: 0.98,
		},
		{
			name: "compliant when everything is below threshold",
			signals: detection.Signals{
				PlotID:            "PLOT-005",
				ApprovedArea:      10000,
				BuiltUpArea:       9000,
				BuiltUpPercentage: 90,
				HeatPercentage:    40,
				MeanNDBI:          0.2,
				ChangeScore:       0.3,
			},
			wantType:       ViolationCompliant,
			wantSeverity:   SeverityLow,
			wantPriority:   5,
			wantConfidence: 1.0,
		},
	}

	engine := testEngine(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Evaluate(tt.signals)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}

			if result.ViolationType != tt.wantType {
				t.Errorf("ViolationType = %v, want %v", result.ViolationType, tt.wantType)
			}
			if result.Severity != tt.wantSeverity {
				t.Errorf("Severity = %v, want %v", result.Severity, tt.wantSeverity)
			}
			if result.Priority != tt.wantPriority {
				t.Errorf("Priority = %d, want %d", result.Priority, tt.wantPriority)
			}
			if !almostEqual(result.Confidence, tt.wantConfidence) {
				t.Errorf("Confidence = %v, want %v", result.Confidence, tt.wantConfidence)
			}
			if result.Signals != tt.signals {
				t.Errorf("Signals passthrough = %+v, want %+v", result.Signals, tt.signals)
			}
			if len(result.RecommendedActions) == 0 {
				t.Error("RecommendedActions is empty")
			}
			if result.Description == "" {
				t.Error("Description is empty")
			}
		})
	}
}

// TestEngine_Evaluate_PriorityOrder verifies that encroachment wins when
// both the encroachment and illegal construction triggers hold, and that
// the lower-priority rules never run once a higher one matched.
func TestEngine_Evaluate_PriorityOrder(t *testing.T) {
	engine := testEngine(t)

	// Encroachment and illegal construction both trigger; unused land
	// and change cannot, but nothing below encroachment should matter.
	signals := detection.Signals{
		PlotID:           "PLOT-010",
		ApprovedArea:     10000,
		HasEncroachment:  true,
		EncroachmentArea: 2000,
		BuiltUpArea:      20000,
		ChangeScore:      0.99,
	}

	result, err := engine.Evaluate(signals)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if result.ViolationType != ViolationEncroachment {
		t.Errorf("ViolationType = %v, want %v", result.ViolationType, ViolationEncroachment)
	}
	if result.Severity != SeverityCritical {
		t.Errorf("Severity = %v, want %v", result.Severity, SeverityCritical)
	}
}

// TestEngine_Evaluate_Totality verifies that every valid input maps onto
// exactly one member of the closed type set with confidence in [0,1].
func TestEngine_Evaluate_Totality(t *testing.T) {
	engine := testEngine(t)

	// Sweep a coarse grid over the signal space.
	for _, encroach := range []float64{0, 50, 200, 600, 1500} {
		for _, builtUp := range []float64{0, 4000, 11500, 16000} {
			for _, change := range []float64{0, 0.5, 0.75, 0.85, 0.95} {
				signals := detection.Signals{
					PlotID:            "PLOT-SWEEP",
					ApprovedArea:      10000,
					HasEncroachment:   encroach > 0,
					EncroachmentArea:  encroach,
					BuiltUpArea:       builtUp,
					BuiltUpPercentage: builtUp / 200,
					HeatPercentage:    builtUp / 400,
					MeanNDBI:          builtUp/10000 - 0.5,
					ChangeScore:       change,
				}

				result, err := engine.Evaluate(signals)
				if err != nil {
					t.Fatalf("Evaluate(%+v) error = %v", signals, err)
				}
				if !result.ViolationType.Valid() {
					t.Errorf("ViolationType %q outside closed set", result.ViolationType)
				}
				if !result.Severity.Valid() {
					t.Errorf("Severity %q outside closed set", result.Severity)
				}
				if result.Confidence < 0 || result.Confidence > 1 {
					t.Errorf("Confidence %v outside [0,1]", result.Confidence)
				}
				if result.Priority < 1 || result.Priority > 5 {
					t.Errorf("Priority %d outside 1-5", result.Priority)
				}
			}
		}
	}
}

// TestEngine_Evaluate_Deterministic verifies identical input yields
// byte-identical output.
func TestEngine_Evaluate_Deterministic(t *testing.T) {
	engine := testEngine(t)

	signals := detection.Signals{
		PlotID:           "PLOT-020",
		ApprovedArea:     10000,
		HasEncroachment:  true,
		EncroachmentArea: 750,
		BuiltUpArea:      13000,
		ChangeScore:      0.88,
	}

	first, err := engine.Evaluate(signals)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	second, err := engine.Evaluate(signals)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}

	firstJSON, _ := json.Marshal(first)
	secondJSON, _ := json.Marshal(second)
	if string(firstJSON) != string(secondJSON) {
		t.Errorf("serialized results differ:\n%s\n%s", firstJSON, secondJSON)
	}
}

// TestEngine_Evaluate_ValidationErrors verifies malformed input is
// rejected before any ratio is computed and no result is produced.
func TestEngine_Evaluate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		signals detection.Signals
	}{
		{
			name:    "zero approved area",
			signals: detection.Signals{PlotID: "P", ApprovedArea: 0},
		},
		{
			name:    "negative approved area",
			signals: detection.Signals{PlotID: "P", ApprovedArea: -100},
		},
		{
			name: "negative encroachment area",
			signals: detection.Signals{
				PlotID: "P", ApprovedArea: 10000, EncroachmentArea: -5,
			},
		},
		{
			name: "encroachment flagged without area",
			signals: detection.Signals{
				PlotID: "P", ApprovedArea: 10000, HasEncroachment: true,
			},
		},
		{
			name: "change score above one",
			signals: detection.Signals{
				PlotID: "P", ApprovedArea: 10000, ChangeScore: 1.5,
			},
		},
		{
			name: "built-up percentage above hundred",
			signals: detection.Signals{
				PlotID: "P", ApprovedArea: 10000, BuiltUpPercentage: 120,
			},
		},
	}

	engine := testEngine(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Evaluate(tt.signals)
			if err == nil {
				t.Fatal("Evaluate() error = nil, want validation error")
			}
			if result != nil {
				t.Errorf("Evaluate() result = %+v, want nil", result)
			}
			if !errors.Is(err, detection.ErrInvalidSignals) {
				t.Errorf("error %v does not wrap ErrInvalidSignals", err)
			}
			var vErr *detection.ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error %v is not a *ValidationError", err)
			}
		})
	}
}

// TestEngine_EvaluateWith verifies per-call threshold snapshots override
// the constructor snapshot and are themselves validated.
func TestEngine_EvaluateWith(t *testing.T) {
	engine := testEngine(t)

	signals := detection.Signals{
		PlotID:       "PLOT-030",
		ApprovedArea: 10000,
		BuiltUpArea:  11500, // 15% over approved
	}

	// Default thresholds: 1.15 > 1.10 triggers illegal construction.
	result, err := engine.Evaluate(signals)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.ViolationType != ViolationIllegalConstruction {
		t.Fatalf("ViolationType = %v, want %v", result.ViolationType, ViolationIllegalConstruction)
	}

	// Relaxed snapshot: 1.15 is no longer over the line.
	relaxed := DefaultThresholds().WithIllegalConstructionRatio(1.20)
	result, err = engine.EvaluateWith(signals, relaxed)
	if err != nil {
		t.Fatalf("EvaluateWith() error = %v", err)
	}
	if result.ViolationType != ViolationCompliant {
		t.Errorf("ViolationType = %v, want %v", result.ViolationType, ViolationCompliant)
	}

	// Malformed snapshot is rejected.
	broken := DefaultThresholds().WithEncroachmentRatio(-0.5)
	result, err = engine.EvaluateWith(signals, broken)
	if err == nil {
		t.Fatal("EvaluateWith() error = nil, want configuration error")
	}
	if result != nil {
		t.Errorf("EvaluateWith() result = %+v, want nil", result)
	}
	if !errors.Is(err, ErrInvalidThresholds) {
		t.Errorf("error %v does not wrap ErrInvalidThresholds", err)
	}
}

// TestEngine_EvaluateBatch verifies per-plot errors do not abort the
// batch and outcomes preserve input order.
func TestEngine_EvaluateBatch(t *testing.T) {
	engine := testEngine(t)

	batch := []detection.Signals{
		{PlotID: "A", ApprovedArea: 10000, HasEncroachment: true, EncroachmentArea: 500},
		{PlotID: "B", ApprovedArea: 0}, // malformed
		{PlotID: "C", ApprovedArea: 10000, BuiltUpArea: 9000, BuiltUpPercentage: 90, HeatPercentage: 40, MeanNDBI: 0.2},
	}

	outcomes := engine.EvaluateBatch(batch)
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}

	if outcomes[0].PlotID != "A" || outcomes[0].Err != nil || outcomes[0].Result == nil {
		t.Errorf("outcome A = %+v, want result without error", outcomes[0])
	}
	if outcomes[0].Result.ViolationType != ViolationEncroachment {
		t.Errorf("outcome A type = %v, want %v", outcomes[0].Result.ViolationType, ViolationEncroachment)
	}

	if outcomes[1].PlotID != "B" || outcomes[1].Err == nil || outcomes[1].Result != nil {
		t.Errorf("outcome B = %+v, want error without result", outcomes[1])
	}

	if outcomes[2].PlotID != "C" || outcomes[2].Err != nil {
		t.Errorf("outcome C = %+v, want result without error", outcomes[2])
	}
	if outcomes[2].Result.ViolationType != ViolationCompliant {
		t.Errorf("outcome C type = %v, want %v", outcomes[2].Result.ViolationType, ViolationCompliant)
	}
}

// TestNewEngine_InvalidThresholds verifies the constructor rejects
// malformed threshold snapshots.
func TestNewEngine_InvalidThresholds(t *testing.T) {
	_, err := NewEngine(Thresholds{}, nil)
	if err == nil {
		t.Fatal("NewEngine() error = nil, want configuration error")
	}
	if !errors.Is(err, ErrInvalidThresholds) {
		t.Errorf("error %v does not wrap ErrInvalidThresholds", err)
	}
}

// almostEqual compares confidences with a tolerance large enough to
// absorb float error in the area divisions.
func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
