package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event status values.  CANCELLED is terminal and is only reachable
// through an explicit cancellation by the organizer; check-ins and
// capacity changes never move an event into it.
const (
	EventUpcoming  = "UPCOMING"
	EventOngoing   = "ONGOING"
	EventCompleted = "COMPLETED"
	EventCancelled = "CANCELLED"
)

// Event represents a scheduled gathering created by an organizer,
// optionally tied to a venue.  Capacity is tracked with a pair of
// counters; current_attendees never exceeds max_attendees, and a
// cancelled event always reports zero attendees.
//
// Fields:
//  ID                 - primary key identifier.
//  OrganizerID        - user who created the event.
//  VenueID            - venue hosting the event, if any.
//  Name               - display name.
//  Description        - free-form description.
//  Date               - calendar day of the event.
//  StartsAt           - when the event begins.
//  EndsAt             - when the event ends (must be after StartsAt).
//  MaxAttendees       - seat capacity.
//  CurrentAttendees   - seats currently sold.
//  TicketPrice        - price per seat; zero means the event is free.
//  Status             - lifecycle state (see constants above).
//  CancellationReason - reason supplied when the event was cancelled.
//  CancelledAt        - when the event was cancelled.
//  CreatedAt          - creation timestamp.
//  UpdatedAt          - last update timestamp.
type Event struct {
	ID                 uint64          `json:"id"`
	OrganizerID        uint64          `json:"organizer_id"`
	VenueID            *uint64         `json:"venue_id,omitempty"`
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Date               time.Time       `json:"date"`
	StartsAt           time.Time       `json:"starts_at"`
	EndsAt             time.Time       `json:"ends_at"`
	MaxAttendees       uint32          `json:"max_attendees"`
	CurrentAttendees   uint32          `json:"current_attendees"`
	TicketPrice        decimal.Decimal `json:"ticket_price"`
	Status             string          `json:"status"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// IsPaid reports whether tickets for the event cost money.
func (e *Event) IsPaid() bool { return e.TicketPrice.IsPositive() }

// RemainingCapacity returns how many seats are still available.
func (e *Event) RemainingCapacity() uint32 {
	if e.CurrentAttendees >= e.MaxAttendees {
		return 0
	}
	return e.MaxAttendees - e.CurrentAttendees
}
