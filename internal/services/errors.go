package services

import "errors"

// Error taxonomy shared by every service. Callers wrap these with context
// using fmt.Errorf("%w: ...") and match them with errors.Is.
var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("permission denied")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrConflict        = errors.New("conflict")
	// ErrUnavailable means a backing dependency the operation needs is not configured.
	ErrUnavailable = errors.New("service unavailable")
)
