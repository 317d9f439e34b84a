package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"landguard-hq/landguard/pkg/rules"
)

// ErrSourceUnavailable indicates that a policy source could not produce a
// thresholds snapshot.
var ErrSourceUnavailable = errors.New("policy source unavailable")

// SourceError describes a failure in a policy source operation.
type SourceError struct {
	Source  string
	Op      string
	Message string
	Cause   error
}

func (e *SourceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy source %s: %s: %s: %v", e.Source, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("policy source %s: %s: %s", e.Source, e.Op, e.Message)
}

func (e *SourceError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrSourceUnavailable
}

// NewSourceError creates a new SourceError.
func NewSourceError(source, op, message string, cause error) *SourceError {
	return &SourceError{
		Source:  source,
		Op:      op,
		Message: message,
		Cause:   cause,
	}
}

// Event signals that a source observed a policy change. The Manager reloads
// on receipt; the event carries provenance for logging only.
type Event struct {
	Source    string
	Detail    string
	Timestamp time.Time
}

// Source loads threshold snapshots and optionally reports changes.
type Source interface {
	// Load returns a validated thresholds snapshot.
	Load(ctx context.Context) (rules.Thresholds, error)

	// Watch emits an Event whenever the underlying policy may have changed.
	// The channel is closed when the context is cancelled. Sources that
	// cannot observe changes return a channel that never emits.
	Watch(ctx context.Context) (<-chan Event, error)

	// Name identifies the source in logs and errors.
	Name() string
}

// StaticSource serves a fixed thresholds snapshot, typically the values
// embedded in the main configuration file. It never emits change events.
type StaticSource struct {
	thresholds rules.Thresholds
}

// NewStaticSource creates a source around a fixed snapshot.
// Returns an error if the thresholds fail validation.
func NewStaticSource(t rules.Thresholds) (*StaticSource, error) {
	if err := t.Validate(); err != nil {
		return nil, NewSourceError("static", "load", "invalid thresholds", err)
	}
	return &StaticSource{thresholds: t}, nil
}

// Load returns the fixed snapshot.
func (s *StaticSource) Load(_ context.Context) (rules.Thresholds, error) {
	return s.thresholds, nil
}

// Watch returns a channel that closes on context cancellation without
// ever emitting.
func (s *StaticSource) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

// Name implements Source.
func (s *StaticSource) Name() string { return "static" }
