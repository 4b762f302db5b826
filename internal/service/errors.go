package service

import "errors"

// Domain errors raised by the workflow layer. Repository sentinels
// (not-found, forbidden, capacity) pass through unchanged; the values
// here cover conditions only the workflows can detect.
var (
	// ErrEventNotUpcoming is returned when an operation requires an
	// event that is still open for sale.
	ErrEventNotUpcoming = errors.New("event is not upcoming")

	// ErrEventAlreadyCancelled is returned by CancelEvent when the
	// event has already reached its terminal state. This is the only
	// idempotency guard in the cancellation flow.
	ErrEventAlreadyCancelled = errors.New("event is already cancelled")

	// ErrTicketAlreadyUsed is returned when checking in or cancelling
	// a ticket that has already been checked in.
	ErrTicketAlreadyUsed = errors.New("ticket has already been used")

	// ErrTicketNotActive is returned when acting on a cancelled ticket.
	ErrTicketNotActive = errors.New("ticket is not active")

	// ErrSignatureMismatch is returned when a payment callback carries
	// a signature that does not match the recomputed HMAC. The payment
	// is marked failed before this is returned.
	ErrSignatureMismatch = errors.New("payment signature mismatch")

	// ErrNotRefundable is returned when a refund is requested against a
	// payment that has not settled successfully, has no recorded
	// gateway transaction, or when the requested amount exceeds what
	// was paid.
	ErrNotRefundable = errors.New("payment is not eligible for refund")

	// ErrInvalidSlot is returned when a booking request has a
	// non-positive duration.
	ErrInvalidSlot = errors.New("slot end must be after slot start")

	// ErrVenueUnavailable is returned when a booking request hits an
	// inactive venue or an occupied slot.
	ErrVenueUnavailable = errors.New("venue is not available for the requested slot")

	// ErrInvalidTransition is returned when a booking operation is
	// attempted from a state that does not allow it.
	ErrInvalidTransition = errors.New("invalid booking status transition")
)
