package policy

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"landguard-hq/landguard/pkg/rules"
)

// Observer receives reload outcomes, typically a metrics collector.
type Observer interface {
	RecordPolicyReload(success bool)
}

// Manager holds the active thresholds snapshot and keeps it fresh from a
// Source. Current is safe for concurrent use with Reload: readers see
// either the previous snapshot or the new one, never a mix.
type Manager struct {
	source Source
	logger *slog.Logger

	mu       sync.RWMutex
	observer Observer
	current  rules.Thresholds
	loadedAt time.Time
	reloads  uint64
	failures uint64
}

// NewManager creates a manager and performs the initial load. Startup
// fails if the source cannot produce a valid snapshot; there is no safe
// fallback before the first load.
func NewManager(ctx context.Context, source Source, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		source: source,
		logger: logger.With("component", "policy.manager", "source", source.Name()),
	}

	t, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}
	m.current = t
	m.loadedAt = time.Now()

	m.logger.Info("thresholds loaded",
		"encroachment_ratio", t.EncroachmentRatio,
		"illegal_construction_ratio", t.IllegalConstructionRatio,
		"unused_land_heat_cutoff", t.UnusedLandHeatCutoff,
		"change_score_cutoff", t.ChangeScoreCutoff,
	)
	return m, nil
}

// SetObserver registers an observer for reload outcomes. Call before
// Run; a nil observer disables reporting.
func (m *Manager) SetObserver(o Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observer = o
}

// Current returns the active thresholds snapshot.
func (m *Manager) Current() rules.Thresholds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// LoadedAt returns when the active snapshot was installed.
func (m *Manager) LoadedAt() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loadedAt
}

// Stats returns reload and failure counts since startup.
func (m *Manager) Stats() (reloads, failures uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reloads, m.failures
}

// Reload loads a fresh snapshot from the source and installs it. On
// failure the last known good snapshot stays active and the error is
// returned.
func (m *Manager) Reload(ctx context.Context) error {
	t, err := m.source.Load(ctx)
	if err != nil {
		m.mu.Lock()
		m.failures++
		observer := m.observer
		m.mu.Unlock()
		if observer != nil {
			observer.RecordPolicyReload(false)
		}
		m.logger.Error("thresholds reload failed, keeping previous snapshot", "error", err)
		return err
	}

	m.mu.Lock()
	m.current = t
	m.loadedAt = time.Now()
	m.reloads++
	observer := m.observer
	m.mu.Unlock()
	if observer != nil {
		observer.RecordPolicyReload(true)
	}

	m.logger.Info("thresholds reloaded",
		"encroachment_ratio", t.EncroachmentRatio,
		"illegal_construction_ratio", t.IllegalConstructionRatio,
		"unused_land_heat_cutoff", t.UnusedLandHeatCutoff,
		"change_score_cutoff", t.ChangeScoreCutoff,
	)
	return nil
}

// Run watches the source and reloads on each change event, blocking until
// the context is cancelled. Reload failures are logged and do not stop
// the loop.
func (m *Manager) Run(ctx context.Context) error {
	events, err := m.source.Watch(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.logger.Debug("policy change observed", "detail", ev.Detail)
			if err := m.Reload(ctx); err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
		}
	}
}
