package rules

import (
	"errors"
	"fmt"
)

// ErrInvalidThresholds is the sentinel all threshold configuration errors
// wrap. Use errors.Is(err, ErrInvalidThresholds) to classify.
var ErrInvalidThresholds = errors.New("invalid thresholds")

// ConfigurationError indicates a supplied threshold is outside its sane
// domain. The engine refuses to evaluate against a malformed threshold
// set rather than producing a result from a broken policy.
type ConfigurationError struct {
	Field   string
	Value   float64
	Message string
}

// Error returns the error message.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("threshold %s (%g): %s", e.Field, e.Value, e.Message)
}

// Unwrap returns ErrInvalidThresholds so callers can match with errors.Is.
func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidThresholds
}

// NewConfigurationError creates a new ConfigurationError.
func NewConfigurationError(field string, value float64, message string) *ConfigurationError {
	return &ConfigurationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
