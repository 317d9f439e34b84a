package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"landguard-hq/landguard/pkg/detection"
	"landguard-hq/landguard/pkg/rules"
)

func testViolation(plotID string, violationType rules.ViolationType, detectedAt time.Time) *Violation {
	result := &rules.Result{
		ViolationType:      violationType,
		Severity:           rules.SeverityHigh,
		Confidence:         0.85,
		Description:        "test finding",
		RecommendedActions: rules.RecommendedActions(violationType),
		Priority:           1,
		Signals: detection.Signals{
			PlotID:           plotID,
			ApprovedArea:     10000,
			HasEncroachment:  true,
			EncroachmentArea: 500,
		},
	}
	return NewViolation(result, detectedAt)
}

// TestMemoryStorage_StoreAndGet tests the basic round trip.
func TestMemoryStorage_StoreAndGet(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	ctx := context.Background()
	violation := testViolation("PLOT-001", rules.ViolationEncroachment, time.Now())

	if err := storage.Store(ctx, violation); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := storage.Get(ctx, violation.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PlotID != "PLOT-001" {
		t.Errorf("PlotID = %q, want PLOT-001", got.PlotID)
	}
	if got.ViolationType != rules.ViolationEncroachment {
		t.Errorf("ViolationType = %v", got.ViolationType)
	}

	if _, err := storage.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

// TestMemoryStorage_Query tests filtering, ordering, and pagination.
func TestMemoryStorage_Query(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	fixtures := []*Violation{
		testViolation("PLOT-A", rules.ViolationEncroachment, base),
		testViolation("PLOT-A", rules.ViolationIllegalConstruction, base.Add(time.Hour)),
		testViolation("PLOT-B", rules.ViolationEncroachment, base.Add(2*time.Hour)),
		testViolation("PLOT-B", rules.ViolationCompliant, base.Add(3*time.Hour)),
	}
	for _, v := range fixtures {
		if err := storage.Store(ctx, v); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}

	tests := []struct {
		name      string
		query     *Query
		wantCount int
	}{
		{"all records", &Query{}, 4},
		{"by plot", &Query{PlotID: "PLOT-A"}, 2},
		{"by type", &Query{ViolationType: rules.ViolationEncroachment}, 2},
		{"by plot and type", &Query{PlotID: "PLOT-B", ViolationType: rules.ViolationCompliant}, 1},
		{"since cutoff", &Query{Since: base.Add(90 * time.Minute)}, 2},
		{"until cutoff", &Query{Until: base.Add(time.Minute)}, 1},
		{"limited", &Query{Limit: 2}, 2},
		{"offset past end", &Query{Offset: 10}, 0},
		{"negative offset treated as zero", &Query{Offset: -1}, 4},
		{"negative offset with limit", &Query{Offset: -5, Limit: 2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := storage.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(results) != tt.wantCount {
				t.Errorf("len(results) = %d, want %d", len(results), tt.wantCount)
			}
		})
	}

	// Newest first.
	results, err := storage.Query(ctx, &Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].DetectedAt.After(results[i-1].DetectedAt) {
			t.Errorf("results not ordered newest first at index %d", i)
		}
	}
}

// TestMemoryStorage_CountByType tests the statistics grouping.
func TestMemoryStorage_CountByType(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	ctx := context.Background()
	now := time.Now()
	for i := 0; i < 3; i++ {
		if err := storage.Store(ctx, testViolation("P", rules.ViolationEncroachment, now)); err != nil {
			t.Fatalf("Store() error = %v", err)
		}
	}
	if err := storage.Store(ctx, testViolation("P", rules.ViolationUnusedLand, now)); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	counts, err := storage.CountByType(ctx)
	if err != nil {
		t.Fatalf("CountByType() error = %v", err)
	}
	if counts[rules.ViolationEncroachment] != 3 {
		t.Errorf("encroachment count = %d, want 3", counts[rules.ViolationEncroachment])
	}
	if counts[rules.ViolationUnusedLand] != 1 {
		t.Errorf("unused_land count = %d, want 1", counts[rules.ViolationUnusedLand])
	}
}

// TestMemoryStorage_StoreCopies verifies caller mutation after Store does
// not corrupt the stored record.
func TestMemoryStorage_StoreCopies(t *testing.T) {
	storage := NewMemoryStorage()
	defer storage.Close()

	ctx := context.Background()
	violation := testViolation("PLOT-001", rules.ViolationEncroachment, time.Now())

	if err := storage.Store(ctx, violation); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	violation.PlotID = "mutated"
	violation.RecommendedActions[0] = "mutated"

	got, err := storage.Get(ctx, violation.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.PlotID == "mutated" {
		t.Error("stored record shares PlotID with the caller's value")
	}
	if got.RecommendedActions[0] == "mutated" {
		t.Error("stored record shares action slice with the caller's value")
	}
}
