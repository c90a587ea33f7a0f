// Package service implements the reservation core: availability
// checking, the booking state machine and the concurrency discipline
// that prevents double-booking. Handlers call into this package and
// translate its error kinds to HTTP; nothing above it touches the
// repositories for booking mutations.
package service

import "errors"

// The closed set of error kinds returned by the reservation service.
// Callers branch on these with errors.Is; the HTTP layer maps each to
// a status code and a machine-checkable kind string so clients never
// have to parse message text.
var (
	// ErrNotFound is returned when a workspace or booking ID is unknown.
	ErrNotFound = errors.New("not found")

	// ErrNotAuthorized is returned when the requester is not the owner
	// of the booking being read, edited or cancelled.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidInput is returned for malformed dates or time ranges,
	// past-dated requests (when the reject-past policy is on) and
	// attempts to book a disabled workspace.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when the requested interval overlaps an
	// existing ACTIVE booking, whether detected by the pre-check or by
	// the storage layer inside its transaction.
	ErrConflict = errors.New("conflict")

	// ErrInvalidState is returned when an edit targets a booking that
	// is no longer ACTIVE.
	ErrInvalidState = errors.New("invalid state")

	// ErrTransient is returned for lock-wait timeouts and storage
	// failures that survived one retry. Clients may retry the request.
	ErrTransient = errors.New("transient failure")
)

// Kind returns the machine-checkable kind string for a service error,
// or "internal" for anything outside the closed set. These strings are
// part of the API contract.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNotAuthorized):
		return "not_authorized"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrTransient):
		return "transient"
	default:
		return "internal"
	}
}
