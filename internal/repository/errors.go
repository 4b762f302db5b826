// Package repository defines sentinel errors that are reused across
// multiple repositories. These values allow higher layers such as
// services and handlers to distinguish between failure scenarios
// without string matching. ErrForbidden indicates that the current
// user is not authorized to act on a resource owned by someone else,
// while ErrConflict signals that a guarded write found the row in a
// state that does not allow the transition.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a guarded update matched no row because
// the record was not in the required state, such as accepting a booking
// that is no longer pending. Handlers should translate this into an
// HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrCapacityExceeded is returned by the atomic capacity reservation
// when the requested quantity does not fit into the event's remaining
// seats. The attendee counter is left untouched in that case.
var ErrCapacityExceeded = errors.New("capacity exceeded")

// Per-entity not-found sentinels. Repositories return these instead of
// sql.ErrNoRows so callers do not need to import database/sql.
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrRefundNotFound       = errors.New("refund not found")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrVenueNotFound        = errors.New("venue not found")
	ErrNotificationNotFound = errors.New("notification not found")
)
