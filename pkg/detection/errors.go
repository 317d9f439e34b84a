package detection

import (
	"errors"
	"fmt"
)

// ErrInvalidSignals is the sentinel all signal validation errors wrap.
// Use errors.Is(err, ErrInvalidSignals) to classify without inspecting
// the concrete type.
var ErrInvalidSignals = errors.New("invalid detection signals")

// ValidationError indicates a malformed detection signals record.
type ValidationError struct {
	PlotID  string
	Field   string
	Message string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if e.PlotID != "" {
		return fmt.Sprintf("plot %s: invalid signals: %s %s", e.PlotID, e.Field, e.Message)
	}
	return fmt.Sprintf("invalid signals: %s %s", e.Field, e.Message)
}

// Unwrap returns ErrInvalidSignals so callers can match with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidSignals
}

// NewValidationError creates a new ValidationError.
func NewValidationError(plotID, field, message string) *ValidationError {
	return &ValidationError{
		PlotID:  plotID,
		Field:   field,
		Message: message,
	}
}
