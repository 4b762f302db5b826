package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket status values.  A ticket only ever moves forward: ACTIVE to
// USED at check-in, or ACTIVE to CANCELLED; there is no way back.
const (
	TicketActive    = "ACTIVE"
	TicketUsed      = "USED"
	TicketCancelled = "CANCELLED"
)

// Ticket types understood by the purchase endpoint.  The type is
// informational; pricing is driven entirely by the event's ticket price.
const (
	TicketTypeGeneral = "GENERAL"
	TicketTypeVIP     = "VIP"
)

// Ticket represents one purchase, possibly covering several seats via
// Quantity.  The QR payload is rendered to an image once at creation
// and stored alongside the human-readable code.
//
// Fields:
//  ID                 - primary key identifier.
//  UserID             - purchasing user.
//  EventID            - event the ticket admits to.
//  Code               - unique human-readable ticket code (FIRA-XXXXXXXX).
//  QRCode             - base64-encoded PNG of the QR payload.
//  Quantity           - number of seats covered by this ticket.
//  TicketType         - GENERAL or VIP.
//  PricePaid          - total amount paid for the ticket.
//  Status             - lifecycle state (see constants above).
//  IsUsed             - whether the ticket has been checked in.
//  UsedAt             - check-in timestamp.
//  PaymentID          - payment backing this ticket, if the event is paid.
//  CancellationReason - reason recorded when the ticket was cancelled.
//  CancelledAt        - cancellation timestamp.
//  CreatedAt          - creation timestamp.
//  UpdatedAt          - last update timestamp.
type Ticket struct {
	ID                 uint64          `json:"id"`
	UserID             uint64          `json:"user_id"`
	EventID            uint64          `json:"event_id"`
	Code               string          `json:"code"`
	QRCode             string          `json:"qr_code,omitempty"`
	Quantity           uint32          `json:"quantity"`
	TicketType         string          `json:"ticket_type"`
	PricePaid          decimal.Decimal `json:"price_paid"`
	Status             string          `json:"status"`
	IsUsed             bool            `json:"is_used"`
	UsedAt             *time.Time      `json:"used_at,omitempty"`
	PaymentID          *uint64         `json:"payment_id,omitempty"`
	CancellationReason *string         `json:"cancellation_reason,omitempty"`
	CancelledAt        *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
