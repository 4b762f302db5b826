package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/queue"
	"github.com/yagnesh-3/fira/internal/repository"
)

func uintPtr(v uint64) *uint64 { return &v }

func newEventServiceForTest(publisher CancellationPublisher) (*EventService, *MockEventStore, *MockTicketStore, *MockRefunder, *MockNotificationStore) {
	events := &MockEventStore{}
	tickets := &MockTicketStore{}
	refunder := &MockRefunder{}
	notifier := &MockNotificationStore{}
	svc := NewEventService(events, tickets, refunder, notifier, publisher, zerolog.Nop())
	return svc, events, tickets, refunder, notifier
}

func upcomingEvent(id, organizerID uint64, price int64) *model.Event {
	return &model.Event{
		ID:          id,
		OrganizerID: organizerID,
		Name:         "Summer Tech Meetup",
		Status:       model.EventUpcoming,
		MaxAttendees: 100,
		TicketPrice:  decimal.NewFromInt(price),
	}
}

func paidTicket(id, userID, paymentID uint64, price int64) model.Ticket {
	return model.Ticket{
		ID:        id,
		UserID:    userID,
		EventID:   1,
		Status:    model.TicketActive,
		Quantity:  1,
		PricePaid: decimal.NewFromInt(price),
		PaymentID: uintPtr(paymentID),
	}
}

func TestCancelEventRefundsAllPaidTickets(t *testing.T) {
	svc, events, tickets, refunder, notifier := newEventServiceForTest(nil)
	ctx := context.Background()

	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 500), nil)
	tickets.On("ListActiveByEvent", ctx, uint64(1)).
		Return([]model.Ticket{paidTicket(101, 21, 901, 500), paidTicket(102, 22, 902, 500)}, nil)
	tickets.On("MarkCancelled", ctx, mock.Anything, "venue flooded", mock.Anything).Return(nil)
	refunder.On("RequestRefund", ctx, uint64(901), "event_cancelled", (*decimal.Decimal)(nil)).
		Return(&model.Refund{ID: 1, Status: model.RefundCompleted}, nil)
	refunder.On("RequestRefund", ctx, uint64(902), "event_cancelled", (*decimal.Decimal)(nil)).
		Return(&model.Refund{ID: 2, Status: model.RefundCompleted}, nil)
	notifier.On("Create", ctx, mock.Anything).Return(nil)
	events.On("MarkCancelled", ctx, uint64(1), "venue flooded", mock.Anything).Return(nil)

	outcome, err := svc.CancelEvent(ctx, 1, 10, "venue flooded")
	require.NoError(t, err)

	assert.Equal(t, model.EventCancelled, outcome.Event.Status)
	assert.Equal(t, uint32(0), outcome.Event.CurrentAttendees)
	assert.Equal(t, 2, outcome.Refunds.TotalTickets)
	assert.Equal(t, 2, outcome.Refunds.RefundsInitiated)
	assert.Equal(t, 0, outcome.Refunds.RefundsFailed)
	assert.True(t, outcome.Refunds.TotalRefundAmount.Equal(decimal.NewFromInt(1000)),
		"expected 1000, got %s", outcome.Refunds.TotalRefundAmount)
	assert.Empty(t, outcome.Refunds.FailedTicketIDs)
	refunder.AssertNumberOfCalls(t, "RequestRefund", 2)
	notifier.AssertNumberOfCalls(t, "Create", 2)
	events.AssertExpectations(t)
}

func TestCancelEventGatewayFailureStillCancelsEverything(t *testing.T) {
	svc, events, tickets, refunder, notifier := newEventServiceForTest(nil)
	ctx := context.Background()

	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 500), nil)
	tickets.On("ListActiveByEvent", ctx, uint64(1)).
		Return([]model.Ticket{paidTicket(101, 21, 901, 500), paidTicket(102, 22, 902, 500)}, nil)
	tickets.On("MarkCancelled", ctx, mock.Anything, "headliner dropped out", mock.Anything).Return(nil)
	refunder.On("RequestRefund", ctx, uint64(901), "event_cancelled", (*decimal.Decimal)(nil)).
		Return(&model.Refund{ID: 1, Status: model.RefundCompleted}, nil)
	refunder.On("RequestRefund", ctx, uint64(902), "event_cancelled", (*decimal.Decimal)(nil)).
		Return(nil, assert.AnError)
	notifier.On("Create", ctx, mock.Anything).Return(nil)
	events.On("MarkCancelled", ctx, uint64(1), "headliner dropped out", mock.Anything).Return(nil)

	outcome, err := svc.CancelEvent(ctx, 1, 10, "headliner dropped out")
	require.NoError(t, err, "a failed refund must not fail the batch")

	assert.Equal(t, model.EventCancelled, outcome.Event.Status)
	assert.Equal(t, 2, outcome.Refunds.TotalTickets)
	assert.Equal(t, 1, outcome.Refunds.RefundsInitiated)
	assert.Equal(t, 1, outcome.Refunds.RefundsFailed)
	assert.True(t, outcome.Refunds.TotalRefundAmount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, []uint64{102}, outcome.Refunds.FailedTicketIDs)
	// Both holders are still notified, including the one whose refund failed.
	notifier.AssertNumberOfCalls(t, "Create", 2)
	events.AssertExpectations(t)
}

func TestCancelEventAlreadyCancelledPerformsNoWrites(t *testing.T) {
	svc, events, tickets, refunder, _ := newEventServiceForTest(nil)
	ctx := context.Background()

	cancelled := upcomingEvent(1, 10, 500)
	cancelled.Status = model.EventCancelled
	events.On("GetByID", ctx, uint64(1)).Return(cancelled, nil)

	outcome, err := svc.CancelEvent(ctx, 1, 10, "again")
	assert.ErrorIs(t, err, ErrEventAlreadyCancelled)
	assert.Nil(t, outcome)
	tickets.AssertNotCalled(t, "ListActiveByEvent", mock.Anything, mock.Anything)
	refunder.AssertNotCalled(t, "RequestRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "MarkCancelled", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelEventCancelledStateWinsOverOwnership(t *testing.T) {
	svc, events, _, _, _ := newEventServiceForTest(nil)
	ctx := context.Background()

	cancelled := upcomingEvent(1, 10, 500)
	cancelled.Status = model.EventCancelled
	events.On("GetByID", ctx, uint64(1)).Return(cancelled, nil)

	// A foreign caller probing a cancelled event gets the terminal-state
	// answer, not an ownership rejection.
	_, err := svc.CancelEvent(ctx, 1, 99, "again")
	assert.ErrorIs(t, err, ErrEventAlreadyCancelled)
}

func TestCancelEventForeignOrganizerForbidden(t *testing.T) {
	svc, events, tickets, _, _ := newEventServiceForTest(nil)
	ctx := context.Background()

	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 500), nil)

	_, err := svc.CancelEvent(ctx, 1, 99, "not mine")
	assert.ErrorIs(t, err, repository.ErrForbidden)
	tickets.AssertNotCalled(t, "ListActiveByEvent", mock.Anything, mock.Anything)
}

func TestCancelEventFreeTicketsCountOnlyInTotal(t *testing.T) {
	svc, events, tickets, refunder, notifier := newEventServiceForTest(nil)
	ctx := context.Background()

	free := model.Ticket{ID: 201, UserID: 31, EventID: 1, Status: model.TicketActive, Quantity: 2, PricePaid: decimal.Zero}
	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 0), nil)
	tickets.On("ListActiveByEvent", ctx, uint64(1)).Return([]model.Ticket{free}, nil)
	tickets.On("MarkCancelled", ctx, uint64(201), "low turnout", mock.Anything).Return(nil)
	notifier.On("Create", ctx, mock.Anything).Return(nil)
	events.On("MarkCancelled", ctx, uint64(1), "low turnout", mock.Anything).Return(nil)

	outcome, err := svc.CancelEvent(ctx, 1, 10, "low turnout")
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Refunds.TotalTickets)
	assert.Equal(t, 0, outcome.Refunds.RefundsInitiated)
	assert.Equal(t, 0, outcome.Refunds.RefundsFailed)
	assert.True(t, outcome.Refunds.TotalRefundAmount.IsZero())
	refunder.AssertNotCalled(t, "RequestRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNumberOfCalls(t, "Create", 1)
}

func TestCancelEventPublishesAuditMessage(t *testing.T) {
	publisher := &MockPublisher{}
	svc, events, tickets, refunder, notifier := newEventServiceForTest(publisher)
	ctx := context.Background()

	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 500), nil)
	tickets.On("ListActiveByEvent", ctx, uint64(1)).
		Return([]model.Ticket{paidTicket(101, 21, 901, 500)}, nil)
	tickets.On("MarkCancelled", ctx, uint64(101), "strike", mock.Anything).Return(nil)
	refunder.On("RequestRefund", ctx, uint64(901), "event_cancelled", (*decimal.Decimal)(nil)).
		Return(&model.Refund{ID: 1, Status: model.RefundCompleted}, nil)
	notifier.On("Create", ctx, mock.Anything).Return(nil)
	events.On("MarkCancelled", ctx, uint64(1), "strike", mock.Anything).Return(nil)

	var got queue.EventCancelledMessage
	publisher.On("PublishEventCancelled", ctx, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(1).(queue.EventCancelledMessage) }).
		Return(nil)

	_, err := svc.CancelEvent(ctx, 1, 10, "strike")
	require.NoError(t, err)

	publisher.AssertNumberOfCalls(t, "PublishEventCancelled", 1)
	assert.Equal(t, uint64(1), got.EventID)
	assert.Equal(t, "strike", got.Reason)
	assert.Equal(t, 1, got.RefundsInitiated)
	assert.Equal(t, "500", got.TotalRefundAmount)
}

func TestCancelEventTicketCancelFailureCountsRefundFailure(t *testing.T) {
	svc, events, tickets, refunder, notifier := newEventServiceForTest(nil)
	ctx := context.Background()

	events.On("GetByID", ctx, uint64(1)).Return(upcomingEvent(1, 10, 500), nil)
	tickets.On("ListActiveByEvent", ctx, uint64(1)).
		Return([]model.Ticket{paidTicket(101, 21, 901, 500)}, nil)
	tickets.On("MarkCancelled", ctx, uint64(101), "ops failure", mock.Anything).Return(assert.AnError)
	events.On("MarkCancelled", ctx, uint64(1), "ops failure", mock.Anything).Return(nil)

	outcome, err := svc.CancelEvent(ctx, 1, 10, "ops failure")
	require.NoError(t, err)

	assert.Equal(t, 1, outcome.Refunds.RefundsFailed)
	assert.Equal(t, []uint64{101}, outcome.Refunds.FailedTicketIDs)
	// No refund or notification for a ticket we could not cancel.
	refunder.AssertNotCalled(t, "RequestRefund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
