package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"landguard-hq/landguard/pkg/rules"
)

const (
	namespace = "landguard"
	subsystem = "monitor"
)

// Collector records evaluation pipeline metrics into a private registry.
type Collector struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationErrors   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	cyclesTotal         prometheus.Counter
	lastCycleTimestamp  prometheus.Gauge
	lastCyclePlots      prometheus.Gauge
	lastCycleViolations prometheus.Gauge
	lastCycleSkipped    prometheus.Gauge

	policyReloads *prometheus.CounterVec
}

// NewCollector creates a collector with all metrics registered on a fresh
// registry. If registry is nil, a new one is created.
func NewCollector(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluations_total",
			Help:      "Completed plot evaluations by violation type and severity.",
		}, []string{"violation_type", "severity"}),

		evaluationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluation_errors_total",
			Help:      "Failed plot evaluations by error kind.",
		}, []string{"kind"}),

		evaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "evaluation_duration_seconds",
			Help:      "Latency of a single plot evaluation.",
			Buckets:   []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),

		cyclesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "cycles_total",
			Help:      "Completed evaluation cycles.",
		}),

		lastCycleTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time the last evaluation cycle finished.",
		}),

		lastCyclePlots: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_cycle_plots",
			Help:      "Plots evaluated in the last cycle.",
		}),

		lastCycleViolations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_cycle_violations",
			Help:      "Violations detected in the last cycle.",
		}),

		lastCycleSkipped: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "last_cycle_skipped",
			Help:      "Plots skipped in the last cycle due to errors.",
		}),

		policyReloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "policy",
			Name:      "reloads_total",
			Help:      "Threshold reload attempts by outcome.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		c.evaluationsTotal,
		c.evaluationErrors,
		c.evaluationDuration,
		c.cyclesTotal,
		c.lastCycleTimestamp,
		c.lastCyclePlots,
		c.lastCycleViolations,
		c.lastCycleSkipped,
		c.policyReloads,
	)
	return c
}

// Registry returns the registry backing this collector, for exposing via
// an HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordEvaluation records one completed evaluation.
func (c *Collector) RecordEvaluation(result *rules.Result, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(
		string(result.ViolationType),
		string(result.Severity),
	).Inc()
	c.evaluationDuration.Observe(duration.Seconds())
}

// RecordError records a failed evaluation. Kind is a short stable label
// such as "validation" or "storage".
func (c *Collector) RecordError(kind string) {
	c.evaluationErrors.WithLabelValues(kind).Inc()
}

// RecordCycle records the outcome of one evaluation cycle.
func (c *Collector) RecordCycle(plots, violations, skipped int, finished time.Time) {
	c.cyclesTotal.Inc()
	c.lastCycleTimestamp.Set(float64(finished.Unix()))
	c.lastCyclePlots.Set(float64(plots))
	c.lastCycleViolations.Set(float64(violations))
	c.lastCycleSkipped.Set(float64(skipped))
}

// RecordPolicyReload records a threshold reload attempt.
func (c *Collector) RecordPolicyReload(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	c.policyReloads.WithLabelValues(status).Inc()
}
