// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrForbidden indicates that the current user does not manage
// the hotel an operation targets, while ErrConflict signals that a
// booking cannot proceed because the slot is already taken.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts a manager operation
// on a hotel they do not manage.  Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a booking cannot be created because a
// booking for the same (hotel, room, date) slot already exists.  Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
