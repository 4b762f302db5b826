// Package service implements the stateful marketplace workflows on top
// of the repository layer: ticket purchase and check-in, event
// cancellation with refund fan-out, payment verification and refunds,
// and booking moderation. Services depend on narrow store interfaces
// rather than concrete repositories so the workflows can be exercised
// in isolation.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/gateway"
	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/queue"
)

// EventStore is the slice of the event repository the services need.
type EventStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	ReserveCapacity(ctx context.Context, eventID uint64, quantity uint32) error
	ReleaseCapacity(ctx context.Context, eventID uint64, quantity uint32) error
	MarkCancelled(ctx context.Context, eventID uint64, reason string, at time.Time) error
}

// TicketStore is the slice of the ticket repository the services need.
type TicketStore interface {
	Create(ctx context.Context, t *model.Ticket) error
	GetByID(ctx context.Context, id uint64) (*model.Ticket, error)
	ListActiveByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error)
	MarkUsed(ctx context.Context, id uint64, at time.Time) error
	MarkCancelled(ctx context.Context, id uint64, reason string, at time.Time) error
}

// PaymentStore is the slice of the payment repository the services need.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	MarkSuccess(ctx context.Context, id uint64, gatewayPaymentID string, paidAt time.Time) error
	MarkFailed(ctx context.Context, id uint64) error
	MarkRefunded(ctx context.Context, id uint64) error
}

// RefundStore is the slice of the refund repository the services need.
type RefundStore interface {
	Create(ctx context.Context, rf *model.Refund) error
	MarkOutcome(ctx context.Context, id uint64, status, gatewayRefundID string, amount decimal.Decimal) error
	MarkFailed(ctx context.Context, id uint64, failureReason string) error
}

// NotificationStore persists user notifications.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
}

// BookingStore is the slice of the booking repository the services need.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	HasOverlap(ctx context.Context, venueID uint64, date, startsAt, endsAt time.Time) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, fromStatus, toStatus string, reason *string) error
}

// VenueStore is the slice of the venue repository the services need.
type VenueStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Venue, error)
}

// PaymentGateway abstracts the provider client so workflows can be
// tested without network access.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*gateway.Order, []byte, error)
	CreateRefund(ctx context.Context, gatewayPaymentID string, amount decimal.Decimal, notes map[string]string) (*gateway.RefundResult, error)
	VerifySignature(orderID, gatewayPaymentID, signature string) bool
}

// CancellationPublisher emits the post-cancellation audit message.
// Publishing is best-effort; the event service logs and moves on when
// it fails.
type CancellationPublisher interface {
	PublishEventCancelled(ctx context.Context, msg queue.EventCancelledMessage) error
}
