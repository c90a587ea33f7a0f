// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// reservation service to distinguish between different failure
// scenarios with errors.Is instead of matching message text. For
// example, ErrBookingConflict signals that an insert or update lost
// the overlap check inside its transaction, while ErrBookingNotFound
// means the targeted row simply does not exist. Ownership is not a
// repository concern: repos return rows regardless of owner and the
// reservation service enforces who may touch them.
package repository

import "errors"

// ErrWorkspaceNotFound indicates that a workspace was not located in the DB.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// ErrBookingNotFound indicates that a booking was not located in the DB.
var ErrBookingNotFound = errors.New("booking not found")

// ErrUserNotFound indicates that a user was not located in the DB.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned on registration when the email address is
// already associated with an account.
var ErrEmailTaken = errors.New("email already registered")

// ErrBookingConflict is returned when a create or update would produce
// two ACTIVE bookings with overlapping intervals on the same workspace
// and date. The check runs inside the mutating transaction while the
// workspace row is locked, so the losing writer always receives this
// error instead of silently double-booking.
var ErrBookingConflict = errors.New("booking conflict")
