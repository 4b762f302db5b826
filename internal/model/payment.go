package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values.  Transitions are strictly forward: PENDING to
// SUCCESS or FAILED after verification, and SUCCESS to REFUNDED once a
// refund completes.  REFUNDED is terminal.
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// ReferenceType discriminates what a payment is for.  A payment relates
// to exactly one reference; the discriminator plus a single reference ID
// replaces a bag of mutually exclusive optional fields.
type ReferenceType string

const (
	ReferenceTicket  ReferenceType = "TICKET"
	ReferenceBooking ReferenceType = "BOOKING"
)

// Payment mirrors one gateway order and its local settlement state.
// For ticket purchases the reference ID is the event the order was
// raised against, since the ticket itself is only created after the
// payment is confirmed.
//
// Fields:
//  ID               - primary key identifier.
//  UserID           - paying user.
//  ReferenceType    - what the payment is for (TICKET or BOOKING).
//  ReferenceID      - identifier of the referenced record.
//  Amount           - amount in major currency units.
//  Currency         - ISO currency code (INR by default).
//  Status           - settlement state (see constants above).
//  GatewayOrderID   - order identifier returned by the gateway.
//  GatewayPaymentID - transaction identifier recorded on verification.
//  GatewayResponse  - raw gateway order response, kept for audit.
//  PaidAt           - when the payment was verified successful.
//  CreatedAt        - creation timestamp.
//  UpdatedAt        - last update timestamp.
type Payment struct {
	ID               uint64          `json:"id"`
	UserID           uint64          `json:"user_id"`
	ReferenceType    ReferenceType   `json:"reference_type"`
	ReferenceID      uint64          `json:"reference_id"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	Status           string          `json:"status"`
	GatewayOrderID   string          `json:"gateway_order_id"`
	GatewayPaymentID *string         `json:"gateway_payment_id,omitempty"`
	GatewayResponse  string          `json:"-"`
	PaidAt           *time.Time      `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Refundable reports whether a refund may be requested against the
// payment: it must have settled successfully and carry the gateway
// transaction ID needed to address the refund.
func (p *Payment) Refundable() bool {
	return p.Status == PaymentSuccess && p.GatewayPaymentID != nil && *p.GatewayPaymentID != ""
}
