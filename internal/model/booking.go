package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking status values.  A booking starts PENDING, is ACCEPTED or
// REJECTED by the venue owner, and an accepted booking later becomes
// COMPLETED or CANCELLED.  REJECTED, CANCELLED and COMPLETED are all
// terminal.
const (
	BookingPending   = "PENDING"
	BookingAccepted  = "ACCEPTED"
	BookingRejected  = "REJECTED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
)

// Booking represents a venue time-slot reservation requested by a user
// and moderated by the venue owner.  It follows the same ownership and
// status-machine shape as the ticket/event path but is independent of it.
//
// Fields:
//  ID        - primary key identifier.
//  UserID    - requesting user.
//  VenueID   - venue being booked.
//  Date      - calendar day of the slot.
//  StartsAt  - slot start.
//  EndsAt    - slot end (must be after StartsAt).
//  Status    - lifecycle state (see constants above).
//  Amount    - quoted price for the slot.
//  PaymentID - payment backing the booking, if any.
//  Reason    - rejection or cancellation reason, when applicable.
//  CreatedAt - creation timestamp.
//  UpdatedAt - last update timestamp.
type Booking struct {
	ID        uint64          `json:"id"`
	UserID    uint64          `json:"user_id"`
	VenueID   uint64          `json:"venue_id"`
	Date      time.Time       `json:"date"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
	Status    string          `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	PaymentID *uint64         `json:"payment_id,omitempty"`
	Reason    *string         `json:"reason,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
