package records

import (
	"context"
	"fmt"
	"time"

	"landguard-hq/landguard/pkg/rules"
)

// Storage is the persistence interface for violation records.
// Implementations must be safe for concurrent use.
type Storage interface {
	// Store persists a violation record.
	Store(ctx context.Context, violation *Violation) error

	// Get retrieves a record by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id string) (*Violation, error)

	// Query retrieves records matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Violation, error)

	// CountByType returns record counts grouped by violation type.
	CountByType(ctx context.Context) (map[rules.ViolationType]int64, error)

	// Close releases backend resources.
	Close() error
}

// Query contains the filters for record retrieval. Zero-value fields
// are ignored.
type Query struct {
	// PlotID filters by plot.
	PlotID string

	// ViolationType filters by classified type.
	ViolationType rules.ViolationType

	// Severity filters by severity band.
	Severity rules.Severity

	// Since filters to records detected at or after this time.
	Since time.Time

	// Until filters to records detected before this time.
	Until time.Time

	// Limit caps the number of returned records. Zero means the
	// backend default.
	Limit int

	// Offset skips the first N matching records.
	Offset int
}

// DefaultQueryLimit caps result sets when a query does not set one.
const DefaultQueryLimit = 100

// Matches reports whether a record satisfies the query filters.
func (q *Query) Matches(v *Violation) bool {
	if q.PlotID != "" && v.PlotID != q.PlotID {
		return false
	}
	if q.ViolationType != "" && v.ViolationType != q.ViolationType {
		return false
	}
	if q.Severity != "" && v.Severity != q.Severity {
		return false
	}
	if !q.Since.IsZero() && v.DetectedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !v.DetectedAt.Before(q.Until) {
		return false
	}
	return true
}

// StorageError wraps a backend failure with the backend name and the
// operation that failed.
type StorageError struct {
	Backend string
	Op      string
	Cause   error
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("records storage %s: %s: %v", e.Backend, e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, op string, cause error) *StorageError {
	return &StorageError{Backend: backend, Op: op, Cause: cause}
}
