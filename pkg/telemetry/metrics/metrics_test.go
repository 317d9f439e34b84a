package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"landguard-hq/landguard/pkg/rules"
)

func TestCollector_RecordEvaluation(t *testing.T) {
	c := NewCollector(nil)

	result := &rules.Result{
		ViolationType: rules.ViolationEncroachment,
		Severity:      rules.SeverityHigh,
	}
	c.RecordEvaluation(result, 500*time.Microsecond)
	c.RecordEvaluation(result, 200*time.Microsecond)

	got := testutil.ToFloat64(c.evaluationsTotal.WithLabelValues("encroachment", "high"))
	if got != 2 {
		t.Errorf("evaluations_total{encroachment,high} = %v, want 2", got)
	}

	other := testutil.ToFloat64(c.evaluationsTotal.WithLabelValues("compliant", "low"))
	if other != 0 {
		t.Errorf("evaluations_total{compliant,low} = %v, want 0", other)
	}
}

func TestCollector_RecordError(t *testing.T) {
	c := NewCollector(nil)

	c.RecordError("validation")
	c.RecordError("validation")
	c.RecordError("storage")

	if got := testutil.ToFloat64(c.evaluationErrors.WithLabelValues("validation")); got != 2 {
		t.Errorf("evaluation_errors_total{validation} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.evaluationErrors.WithLabelValues("storage")); got != 1 {
		t.Errorf("evaluation_errors_total{storage} = %v, want 1", got)
	}
}

func TestCollector_RecordCycle(t *testing.T) {
	c := NewCollector(nil)

	finished := time.Unix(1700000000, 0)
	c.RecordCycle(25, 4, 1, finished)

	if got := testutil.ToFloat64(c.cyclesTotal); got != 1 {
		t.Errorf("cycles_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.lastCyclePlots); got != 25 {
		t.Errorf("last_cycle_plots = %v, want 25", got)
	}
	if got := testutil.ToFloat64(c.lastCycleViolations); got != 4 {
		t.Errorf("last_cycle_violations = %v, want 4", got)
	}
	if got := testutil.ToFloat64(c.lastCycleSkipped); got != 1 {
		t.Errorf("last_cycle_skipped = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.lastCycleTimestamp); got != 1700000000 {
		t.Errorf("last_cycle_timestamp_seconds = %v, want 1700000000", got)
	}
}

func TestCollector_RecordPolicyReload(t *testing.T) {
	c := NewCollector(nil)

	c.RecordPolicyReload(true)
	c.RecordPolicyReload(true)
	c.RecordPolicyReload(false)

	if got := testutil.ToFloat64(c.policyReloads.WithLabelValues("success")); got != 2 {
		t.Errorf("reloads_total{success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.policyReloads.WithLabelValues("failure")); got != 1 {
		t.Errorf("reloads_total{failure} = %v, want 1", got)
	}
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordEvaluation(&rules.Result{
		ViolationType: rules.ViolationUnusedLand,
		Severity:      rules.SeverityLow,
	}, time.Millisecond)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "landguard_monitor_evaluations_total") {
		t.Errorf("exposition missing evaluations counter:\n%s", body)
	}
}
