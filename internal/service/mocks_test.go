package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/yagnesh-3/fira/internal/gateway"
	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/queue"
)

// Shared testify mocks over the store interfaces. Each test wires only
// the expectations its scenario touches.

type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventStore) ReserveCapacity(ctx context.Context, eventID uint64, quantity uint32) error {
	return m.Called(ctx, eventID, quantity).Error(0)
}

func (m *MockEventStore) ReleaseCapacity(ctx context.Context, eventID uint64, quantity uint32) error {
	return m.Called(ctx, eventID, quantity).Error(0)
}

func (m *MockEventStore) MarkCancelled(ctx context.Context, eventID uint64, reason string, at time.Time) error {
	return m.Called(ctx, eventID, reason, at).Error(0)
}

type MockTicketStore struct {
	mock.Mock
}

func (m *MockTicketStore) Create(ctx context.Context, t *model.Ticket) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTicketStore) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *MockTicketStore) ListActiveByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Ticket), args.Error(1)
}

func (m *MockTicketStore) MarkUsed(ctx context.Context, id uint64, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *MockTicketStore) MarkCancelled(ctx context.Context, id uint64, reason string, at time.Time) error {
	return m.Called(ctx, id, reason, at).Error(0)
}

type MockPaymentStore struct {
	mock.Mock
}

func (m *MockPaymentStore) Create(ctx context.Context, p *model.Payment) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentStore) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentStore) MarkSuccess(ctx context.Context, id uint64, gatewayPaymentID string, paidAt time.Time) error {
	return m.Called(ctx, id, gatewayPaymentID, paidAt).Error(0)
}

func (m *MockPaymentStore) MarkFailed(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPaymentStore) MarkRefunded(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

type MockRefundStore struct {
	mock.Mock
}

func (m *MockRefundStore) Create(ctx context.Context, rf *model.Refund) error {
	return m.Called(ctx, rf).Error(0)
}

func (m *MockRefundStore) MarkOutcome(ctx context.Context, id uint64, status, gatewayRefundID string, amount decimal.Decimal) error {
	return m.Called(ctx, id, status, gatewayRefundID, amount).Error(0)
}

func (m *MockRefundStore) MarkFailed(ctx context.Context, id uint64, failureReason string) error {
	return m.Called(ctx, id, failureReason).Error(0)
}

type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, n *model.Notification) error {
	return m.Called(ctx, n).Error(0)
}

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Booking), args.Error(1)
}

func (m *MockBookingStore) HasOverlap(ctx context.Context, venueID uint64, date, startsAt, endsAt time.Time) (bool, error) {
	args := m.Called(ctx, venueID, date, startsAt, endsAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingStore) UpdateStatus(ctx context.Context, id uint64, fromStatus, toStatus string, reason *string) error {
	return m.Called(ctx, id, fromStatus, toStatus, reason).Error(0)
}

type MockVenueStore struct {
	mock.Mock
}

func (m *MockVenueStore) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Venue), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, currency, receipt string) (*gateway.Order, []byte, error) {
	args := m.Called(ctx, amount, currency, receipt)
	var order *gateway.Order
	if args.Get(0) != nil {
		order = args.Get(0).(*gateway.Order)
	}
	var raw []byte
	if args.Get(1) != nil {
		raw = args.Get(1).([]byte)
	}
	return order, raw, args.Error(2)
}

func (m *MockGateway) CreateRefund(ctx context.Context, gatewayPaymentID string, amount decimal.Decimal, notes map[string]string) (*gateway.RefundResult, error) {
	args := m.Called(ctx, gatewayPaymentID, amount, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.RefundResult), args.Error(1)
}

func (m *MockGateway) VerifySignature(orderID, gatewayPaymentID, signature string) bool {
	return m.Called(orderID, gatewayPaymentID, signature).Bool(0)
}

type MockRefunder struct {
	mock.Mock
}

func (m *MockRefunder) RequestRefund(ctx context.Context, paymentID uint64, reason string, amount *decimal.Decimal) (*model.Refund, error) {
	args := m.Called(ctx, paymentID, reason, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Refund), args.Error(1)
}

type MockPaymentInitiator struct {
	mock.Mock
}

func (m *MockPaymentInitiator) Initiate(ctx context.Context, userID uint64, refType model.ReferenceType, refID uint64, amount decimal.Decimal) (*model.Payment, error) {
	args := m.Called(ctx, userID, refType, refID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishEventCancelled(ctx context.Context, msg queue.EventCancelledMessage) error {
	return m.Called(ctx, msg).Error(0)
}
