package model

import "time"

// Notification kinds produced by the marketplace.
const (
	NotificationEventCancelled  = "EVENT_CANCELLED"
	NotificationBookingAccepted = "BOOKING_ACCEPTED"
	NotificationBookingRejected = "BOOKING_REJECTED"
	NotificationTicketIssued    = "TICKET_ISSUED"
)

// Defaults for the delivery hooks.  Only in-app delivery is implemented;
// channel and priority are stored so future delivery fan-out does not
// need a schema change.
const (
	ChannelInApp   = "in_app"
	PriorityNormal = "normal"
)

// Notification is a user-addressed message describing a state change.
// It is created once and afterwards mutated only by its read state.
//
// Fields:
//  ID            - primary key identifier.
//  UserID        - recipient.
//  Type          - notification kind (see constants above).
//  Title         - short headline.
//  Message       - human-readable body.
//  Channel       - delivery channel hook (in_app only for now).
//  Priority      - delivery priority hook.
//  ReferenceType - optional related record kind (TICKET, BOOKING, ...).
//  ReferenceID   - optional related record identifier.
//  IsRead        - whether the user has read the notification.
//  ReadAt        - when it was read.
//  CreatedAt     - creation timestamp.
type Notification struct {
	ID            uint64     `json:"id"`
	UserID        uint64     `json:"user_id"`
	Type          string     `json:"type"`
	Title         string     `json:"title"`
	Message       string     `json:"message"`
	Channel       string     `json:"channel"`
	Priority      string     `json:"priority"`
	ReferenceType *string    `json:"reference_type,omitempty"`
	ReferenceID   *uint64    `json:"reference_id,omitempty"`
	IsRead        bool       `json:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
