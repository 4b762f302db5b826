package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/repository"
)

func newBookingServiceForTest() (*BookingService, *MockBookingStore, *MockVenueStore, *MockNotificationStore) {
	bookings := &MockBookingStore{}
	venues := &MockVenueStore{}
	notifier := &MockNotificationStore{}
	svc := NewBookingService(bookings, venues, notifier, zerolog.Nop())
	return svc, bookings, venues, notifier
}

func activeVenue(id, ownerID uint64, pricePerHour int64) *model.Venue {
	return &model.Venue{
		ID:           id,
		OwnerID:      ownerID,
		Name:         "Riverside Hall",
		City:         "Pune",
		Capacity:     300,
		PricePerHour: decimal.NewFromInt(pricePerHour),
		IsActive:     true,
	}
}

func slot(hours int) (date, startsAt, endsAt time.Time) {
	date = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	startsAt = time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC)
	endsAt = startsAt.Add(time.Duration(hours) * time.Hour)
	return date, startsAt, endsAt
}

func TestRequestBookingQuotesHourlyPrice(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()
	date, startsAt, endsAt := slot(3)

	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)
	bookings.On("HasOverlap", ctx, uint64(7), date, startsAt, endsAt).Return(false, nil)
	bookings.On("Create", ctx, mock.Anything).Return(nil)

	booking, err := svc.Request(ctx, 10, 7, date, startsAt, endsAt)
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, booking.Status)
	assert.True(t, booking.Amount.Equal(decimal.NewFromInt(4500)),
		"3h at 1500/h should be 4500, got %s", booking.Amount)
}

func TestRequestBookingRejectsInvalidSlot(t *testing.T) {
	svc, _, _, _ := newBookingServiceForTest()
	ctx := context.Background()
	date, startsAt, _ := slot(1)

	_, err := svc.Request(ctx, 10, 7, date, startsAt, startsAt)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestRequestBookingOverlapUnavailable(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()
	date, startsAt, endsAt := slot(2)

	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)
	bookings.On("HasOverlap", ctx, uint64(7), date, startsAt, endsAt).Return(true, nil)

	_, err := svc.Request(ctx, 10, 7, date, startsAt, endsAt)
	assert.ErrorIs(t, err, ErrVenueUnavailable)
	bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestBookingInactiveVenueUnavailable(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()
	date, startsAt, endsAt := slot(2)

	closed := activeVenue(7, 50, 1500)
	closed.IsActive = false
	venues.On("GetByID", ctx, uint64(7)).Return(closed, nil)

	_, err := svc.Request(ctx, 10, 7, date, startsAt, endsAt)
	assert.ErrorIs(t, err, ErrVenueUnavailable)
	bookings.AssertNotCalled(t, "HasOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptBookingNotifiesRequester(t *testing.T) {
	svc, bookings, venues, notifier := newBookingServiceForTest()
	ctx := context.Background()

	pending := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingPending,
		Date: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)}
	bookings.On("GetByID", ctx, uint64(3)).Return(pending, nil)
	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)
	bookings.On("UpdateStatus", ctx, uint64(3), model.BookingPending, model.BookingAccepted, (*string)(nil)).Return(nil)

	var note *model.Notification
	notifier.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { note = args.Get(1).(*model.Notification) }).
		Return(nil)

	booking, err := svc.Accept(ctx, 3, 50)
	require.NoError(t, err)

	assert.Equal(t, model.BookingAccepted, booking.Status)
	require.NotNil(t, note)
	assert.Equal(t, uint64(10), note.UserID)
	assert.Equal(t, model.NotificationBookingAccepted, note.Type)
}

func TestRejectBookingCarriesReason(t *testing.T) {
	svc, bookings, venues, notifier := newBookingServiceForTest()
	ctx := context.Background()

	pending := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingPending,
		Date: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)}
	bookings.On("GetByID", ctx, uint64(3)).Return(pending, nil)
	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)
	bookings.On("UpdateStatus", ctx, uint64(3), model.BookingPending, model.BookingRejected, mock.Anything).Return(nil)

	var note *model.Notification
	notifier.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { note = args.Get(1).(*model.Notification) }).
		Return(nil)

	booking, err := svc.Reject(ctx, 3, 50, "double booked")
	require.NoError(t, err)

	assert.Equal(t, model.BookingRejected, booking.Status)
	require.NotNil(t, booking.Reason)
	assert.Equal(t, "double booked", *booking.Reason)
	require.NotNil(t, note)
	assert.Equal(t, model.NotificationBookingRejected, note.Type)
	assert.Contains(t, note.Message, "double booked")
}

func TestModerateByForeignOwnerForbidden(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()

	pending := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingPending}
	bookings.On("GetByID", ctx, uint64(3)).Return(pending, nil)
	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)

	_, err := svc.Accept(ctx, 3, 99)
	assert.ErrorIs(t, err, repository.ErrForbidden)
	bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestModerateNonPendingInvalidTransition(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()

	accepted := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingAccepted}
	bookings.On("GetByID", ctx, uint64(3)).Return(accepted, nil)
	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)

	_, err := svc.Accept(ctx, 3, 50)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBookingByRequester(t *testing.T) {
	svc, bookings, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	accepted := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingAccepted}
	bookings.On("GetByID", ctx, uint64(3)).Return(accepted, nil)
	bookings.On("UpdateStatus", ctx, uint64(3), model.BookingAccepted, model.BookingCancelled, mock.Anything).Return(nil)

	booking, err := svc.Cancel(ctx, 3, 10, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, booking.Status)
}

func TestCancelCompletedBookingRejected(t *testing.T) {
	svc, bookings, _, _ := newBookingServiceForTest()
	ctx := context.Background()

	done := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingCompleted}
	bookings.On("GetByID", ctx, uint64(3)).Return(done, nil)

	_, err := svc.Cancel(ctx, 3, 10, "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCompleteAcceptedBooking(t *testing.T) {
	svc, bookings, venues, _ := newBookingServiceForTest()
	ctx := context.Background()

	accepted := &model.Booking{ID: 3, UserID: 10, VenueID: 7, Status: model.BookingAccepted}
	bookings.On("GetByID", ctx, uint64(3)).Return(accepted, nil)
	venues.On("GetByID", ctx, uint64(7)).Return(activeVenue(7, 50, 1500), nil)
	bookings.On("UpdateStatus", ctx, uint64(3), model.BookingAccepted, model.BookingCompleted, (*string)(nil)).Return(nil)

	booking, err := svc.Complete(ctx, 3, 50)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, booking.Status)
}
