package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"landguard-hq/landguard/pkg/policy"
	"landguard-hq/landguard/pkg/records"
	"landguard-hq/landguard/pkg/rules"
	"landguard-hq/landguard/pkg/telemetry/metrics"
)

// CycleSummary reports the outcome of one evaluation cycle.
type CycleSummary struct {
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Plots      int            `json:"plots"`
	Violations int            `json:"violations"`
	Compliant  int            `json:"compliant"`
	Skipped    int            `json:"skipped"`
	ByType     map[string]int `json:"by_type"`
}

// Monitor runs evaluation cycles over a signal provider, storing detected
// violations and reporting metrics.
type Monitor struct {
	engine    *rules.Engine
	policies  *policy.Manager
	provider  SignalProvider
	storage   records.Storage
	collector *metrics.Collector
	logger    *slog.Logger
}

// New creates a Monitor. The collector may be nil when metrics are
// disabled; everything else is required.
func New(
	engine *rules.Engine,
	policies *policy.Manager,
	provider SignalProvider,
	storage records.Storage,
	collector *metrics.Collector,
	logger *slog.Logger,
) (*Monitor, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}
	if policies == nil {
		return nil, fmt.Errorf("policy manager cannot be nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("signal provider cannot be nil")
	}
	if storage == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Monitor{
		engine:    engine,
		policies:  policies,
		provider:  provider,
		storage:   storage,
		collector: collector,
		logger:    logger.With("component", "monitor"),
	}, nil
}

// RunCycle evaluates every plot the provider knows about against the
// current thresholds snapshot. The snapshot is read once at cycle start
// so all plots in one cycle see the same policy. Per-plot failures are
// logged and skipped.
func (m *Monitor) RunCycle(ctx context.Context) (*CycleSummary, error) {
	summary := &CycleSummary{
		StartedAt: time.Now(),
		ByType:    make(map[string]int),
	}

	plots, err := m.provider.Plots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list plots: %w", err)
	}
	summary.Plots = len(plots)

	thresholds := m.policies.Current()

	m.logger.Info("evaluation cycle started", "plots", len(plots))

	for _, plotID := range plots {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := m.evaluatePlot(ctx, plotID, thresholds, summary); err != nil {
			summary.Skipped++
			m.logger.Error("plot skipped",
				"plot_id", plotID,
				"error", err,
			)
		}
	}

	summary.FinishedAt = time.Now()
	if m.collector != nil {
		m.collector.RecordCycle(summary.Plots, summary.Violations, summary.Skipped, summary.FinishedAt)
	}

	m.logger.Info("evaluation cycle finished",
		"plots", summary.Plots,
		"violations", summary.Violations,
		"compliant", summary.Compliant,
		"skipped", summary.Skipped,
		"duration", summary.FinishedAt.Sub(summary.StartedAt).String(),
	)
	return summary, nil
}

// evaluatePlot fetches, evaluates, and persists one plot.
func (m *Monitor) evaluatePlot(ctx context.Context, plotID string, thresholds rules.Thresholds, summary *CycleSummary) error {
	signals, err := m.provider.Fetch(ctx, plotID)
	if err != nil {
		if m.collector != nil {
			m.collector.RecordError("provider")
		}
		return err
	}

	start := time.Now()
	result, err := m.engine.EvaluateWith(signals, thresholds)
	if err != nil {
		if m.collector != nil {
			m.collector.RecordError("validation")
		}
		return err
	}
	if m.collector != nil {
		m.collector.RecordEvaluation(result, time.Since(start))
	}

	summary.ByType[string(result.ViolationType)]++
	if result.ViolationType == rules.ViolationCompliant {
		summary.Compliant++
		return nil
	}
	summary.Violations++

	record := records.NewViolation(result, time.Now())
	if err := m.storage.Store(ctx, record); err != nil {
		if m.collector != nil {
			m.collector.RecordError("storage")
		}
		return fmt.Errorf("failed to store violation for plot %q: %w", plotID, err)
	}
	return nil
}
