package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs evaluation cycles on a cron schedule.
type Scheduler struct {
	monitor      *Monitor
	schedule     string
	cycleTimeout time.Duration
	cron         *cron.Cron
	logger       *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewScheduler creates a scheduler for the given monitor.
//
// Common schedules:
//   - "0 * * * *"    - Hourly
//   - "*/30 * * * *" - Every 30 minutes
//   - "0 6 * * *"    - Daily at 6 AM
func NewScheduler(monitor *Monitor, schedule string, cycleTimeout time.Duration, logger *slog.Logger) (*Scheduler, error) {
	if monitor == nil {
		return nil, fmt.Errorf("monitor cannot be nil")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		monitor:      monitor,
		schedule:     schedule,
		cycleTimeout: cycleTimeout,
		cron:         cron.New(),
		logger:       logger.With("component", "monitor.scheduler"),
	}, nil
}

// Start begins scheduled cycles and returns immediately. The scheduler
// stops itself when the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	_, err := s.cron.AddFunc(s.schedule, func() {
		s.runCycle(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule evaluation cycle: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("monitor scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runCycle executes one scheduled cycle under the cycle timeout.
func (s *Scheduler) runCycle(ctx context.Context) {
	cycleCtx := ctx
	if s.cycleTimeout > 0 {
		var cancel context.CancelFunc
		cycleCtx, cancel = context.WithTimeout(ctx, s.cycleTimeout)
		defer cancel()
	}

	if _, err := s.monitor.RunCycle(cycleCtx); err != nil {
		s.logger.Error("scheduled evaluation cycle failed", "error", err)
	}
}

// Stop stops the scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.running = false
	s.logger.Info("monitor scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled cycle time, or nil when the
// scheduler is not running.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
