package records

import "errors"

// ErrNotFound indicates no record exists with the requested ID.
var ErrNotFound = errors.New("violation record not found")
