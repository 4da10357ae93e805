// Package errs defines the error taxonomy shared by repositories, services
// and handlers. Every failure a caller can act on is one of these sentinels,
// usually wrapped with context via fmt.Errorf and %w.
package errs

import "errors"

var (
	// ErrNotFound means the entity referenced by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the actor is not allowed to perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidInput means the request payload failed validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means the persistence layer failed transiently.
	ErrUnavailable = errors.New("unavailable")
)
