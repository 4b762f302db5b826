package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Refund status values.  A refund attempt is created PENDING before the
// gateway is contacted and is updated exactly once with the outcome.
// FAILED is terminal for the attempt; the owning payment stays SUCCESS
// so a later attempt remains possible.
const (
	RefundPending    = "PENDING"
	RefundProcessing = "PROCESSING"
	RefundCompleted  = "COMPLETED"
	RefundFailed     = "FAILED"
)

// Refund records one refund attempt against a payment.  The row is
// persisted before the gateway call so an audit trail exists even when
// the outside call never completes.
//
// Fields:
//  ID              - primary key identifier.
//  PaymentID       - payment being refunded.
//  Reason          - why the refund was requested (e.g. event_cancelled).
//  RequestedAmount - amount asked for.
//  Amount          - amount the gateway actually refunded.
//  Status          - attempt state (see constants above).
//  GatewayRefundID - refund identifier returned by the gateway.
//  FailureReason   - captured error message when the attempt failed.
//  CreatedAt       - creation timestamp.
//  UpdatedAt       - last update timestamp.
type Refund struct {
	ID              uint64           `json:"id"`
	PaymentID       uint64           `json:"payment_id"`
	Reason          string           `json:"reason"`
	RequestedAmount decimal.Decimal  `json:"requested_amount"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Status          string           `json:"status"`
	GatewayRefundID *string          `json:"gateway_refund_id,omitempty"`
	FailureReason   *string          `json:"failure_reason,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
