// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a restaurant owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to the current state of a record (e.g.
// assigning a table to a booking that has already departed).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an update cannot be performed
// because of conflicting state, such as assigning a floor-plan
// table to a booking whose departure has been recorded. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrVersionConflict is returned when an optimistic status update
// loses a race against a concurrent writer: the booking row was
// modified after it was read. Handlers should translate this into
// an HTTP 409 response so the caller can reload and retry.
var ErrVersionConflict = errors.New("booking was modified concurrently")
