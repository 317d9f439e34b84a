package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"landguard-hq/landguard/pkg/detection"
	"landguard-hq/landguard/pkg/policy"
	"landguard-hq/landguard/pkg/records"
	"landguard-hq/landguard/pkg/rules"
	"landguard-hq/landguard/pkg/telemetry/metrics"
)

// stubProvider serves signals from a map and fails listed plots.
type stubProvider struct {
	signals map[string]detection.Signals
	order   []string
	fail    map[string]bool
}

func (p *stubProvider) Plots(_ context.Context) ([]string, error) {
	return p.order, nil
}

func (p *stubProvider) Fetch(_ context.Context, plotID string) (detection.Signals, error) {
	if p.fail[plotID] {
		return detection.Signals{}, fmt.Errorf("signals unavailable for %q", plotID)
	}
	s, ok := p.signals[plotID]
	if !ok {
		return detection.Signals{}, fmt.Errorf("unknown plot %q", plotID)
	}
	return s, nil
}

func compliantSignals(plotID string) detection.Signals {
	return detection.Signals{
		PlotID:            plotID,
		ApprovedArea:      10000,
		BuiltUpArea:       8000,
		BuiltUpPercentage: 80,
		HeatPercentage:    40,
		MeanNDBI:          0.3,
		ChangeScore:       0.10,
	}
}

func encroachingSignals(plotID string) detection.Signals {
	s := compliantSignals(plotID)
	s.HasEncroachment = true
	s.EncroachmentArea = 500
	return s
}

func testMonitor(t *testing.T, provider SignalProvider, storage records.Storage, collector *metrics.Collector) *Monitor {
	t.Helper()

	logger := slog.Default()
	engine, err := rules.NewEngine(rules.DefaultThresholds(), logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	src, err := policy.NewStaticSource(rules.DefaultThresholds())
	if err != nil {
		t.Fatalf("NewStaticSource() error = %v", err)
	}
	manager, err := policy.NewManager(context.Background(), src, logger)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	m, err := New(engine, manager, provider, storage, collector, logger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestMonitor_RunCycle(t *testing.T) {
	provider := &stubProvider{
		order: []string{"PLOT-001", "PLOT-002", "PLOT-003"},
		signals: map[string]detection.Signals{
			"PLOT-001": encroachingSignals("PLOT-001"),
			"PLOT-002": compliantSignals("PLOT-002"),
			"PLOT-003": encroachingSignals("PLOT-003"),
		},
	}
	storage := records.NewMemoryStorage()
	defer storage.Close()

	m := testMonitor(t, provider, storage, metrics.NewCollector(nil))

	summary, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if summary.Plots != 3 {
		t.Errorf("Plots = %d, want 3", summary.Plots)
	}
	if summary.Violations != 2 {
		t.Errorf("Violations = %d, want 2", summary.Violations)
	}
	if summary.Compliant != 1 {
		t.Errorf("Compliant = %d, want 1", summary.Compliant)
	}
	if summary.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", summary.Skipped)
	}
	if summary.ByType[string(rules.ViolationEncroachment)] != 2 {
		t.Errorf("ByType[encroachment] = %d, want 2", summary.ByType[string(rules.ViolationEncroachment)])
	}

	// Only violations are persisted.
	stored, err := storage.Query(context.Background(), &records.Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("stored records = %d, want 2", len(stored))
	}
	for _, v := range stored {
		if v.ViolationType == rules.ViolationCompliant {
			t.Errorf("compliant record stored for plot %s", v.PlotID)
		}
	}
}

func TestMonitor_RunCycle_SkipsFailedPlots(t *testing.T) {
	invalid := compliantSignals("PLOT-BAD")
	invalid.ApprovedArea = 0

	provider := &stubProvider{
		order: []string{"PLOT-001", "PLOT-GONE", "PLOT-BAD"},
		signals: map[string]detection.Signals{
			"PLOT-001": encroachingSignals("PLOT-001"),
			"PLOT-BAD": invalid,
		},
		fail: map[string]bool{"PLOT-GONE": true},
	}
	storage := records.NewMemoryStorage()
	defer storage.Close()

	m := testMonitor(t, provider, storage, nil)

	summary, err := m.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}

	if summary.Skipped != 2 {
		t.Errorf("Skipped = %d, want 2", summary.Skipped)
	}
	if summary.Violations != 1 {
		t.Errorf("Violations = %d, want 1", summary.Violations)
	}
}

func TestMonitor_RunCycle_ContextCancelled(t *testing.T) {
	provider := &stubProvider{
		order: []string{"PLOT-001"},
		signals: map[string]detection.Signals{
			"PLOT-001": compliantSignals("PLOT-001"),
		},
	}
	storage := records.NewMemoryStorage()
	defer storage.Close()

	m := testMonitor(t, provider, storage, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.RunCycle(ctx); err == nil {
		t.Error("RunCycle() expected error for cancelled context")
	}
}

func TestNew_RequiredDependencies(t *testing.T) {
	logger := slog.Default()
	engine, err := rules.NewEngine(rules.DefaultThresholds(), logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	src, _ := policy.NewStaticSource(rules.DefaultThresholds())
	manager, err := policy.NewManager(context.Background(), src, logger)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	provider := &stubProvider{}
	storage := records.NewMemoryStorage()
	defer storage.Close()

	tests := []struct {
		name string
		call func() (*Monitor, error)
	}{
		{"nil engine", func() (*Monitor, error) {
			return New(nil, manager, provider, storage, nil, logger)
		}},
		{"nil manager", func() (*Monitor, error) {
			return New(engine, nil, provider, storage, nil, logger)
		}},
		{"nil provider", func() (*Monitor, error) {
			return New(engine, manager, nil, storage, nil, logger)
		}},
		{"nil storage", func() (*Monitor, error) {
			return New(engine, manager, provider, nil, nil, logger)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.call(); err == nil {
				t.Error("New() expected error, got nil")
			}
		})
	}
}

func TestScheduler_Lifecycle(t *testing.T) {
	provider := &stubProvider{}
	storage := records.NewMemoryStorage()
	defer storage.Close()

	m := testMonitor(t, provider, storage, nil)

	if _, err := NewScheduler(m, "not a schedule", time.Minute, slog.Default()); err == nil {
		t.Error("NewScheduler() expected error for invalid schedule")
	}

	s, err := NewScheduler(m, "0 * * * *", time.Minute, slog.Default())
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := s.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if s.NextRun() == nil {
		t.Error("NextRun() = nil while running")
	}
	if err := s.Start(ctx); err == nil {
		t.Error("second Start() expected error")
	}

	cancel()
	deadline := time.After(2 * time.Second)
	for s.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("scheduler still running after cancel")
		case <-time.After(5 * time.Millisecond):
		}
	}
}
