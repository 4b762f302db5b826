// Package queue defines message payloads exchanged over the message
// broker, the publisher that emits them, and the background consumer
// that turns them into an audit trail.
package queue

// CancellationQueue is the durable queue carrying cancellation
// messages.
const CancellationQueue = "event.cancelled"

// EventCancelledMessage is published after an event cancellation batch
// finishes. It carries enough information for downstream consumers to
// audit or alert on degraded outcomes without querying the primary
// database.
type EventCancelledMessage struct {
	EventID           uint64 `json:"event_id"`
	EventName         string `json:"event_name"`
	Reason            string `json:"reason"`
	TotalTickets      int    `json:"total_tickets"`
	RefundsInitiated  int    `json:"refunds_initiated"`
	RefundsFailed     int    `json:"refunds_failed"`
	TotalRefundAmount string `json:"total_refund_amount"`
	CancelledAt       string `json:"cancelled_at"`
}
