package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/repository"
)

// BookingService implements venue time-slot reservations: users request
// a slot, the venue owner accepts or rejects it, and accepted bookings
// are later completed or cancelled. Moderation outcomes produce a
// notification addressed to the requester.
type BookingService struct {
	bookings BookingStore
	venues   VenueStore
	notifier NotificationStore
	log      zerolog.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(bookings BookingStore, venues VenueStore, notifier NotificationStore, log zerolog.Logger) *BookingService {
	if bookings == nil || venues == nil || notifier == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{bookings: bookings, venues: venues, notifier: notifier, log: log}
}

// Request creates a PENDING booking for a venue slot. The venue must be
// active and the slot free of pending or accepted bookings. The quoted
// amount is the venue's hourly price times the slot duration.
func (s *BookingService) Request(ctx context.Context, userID, venueID uint64, date, startsAt, endsAt time.Time) (*model.Booking, error) {
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidSlot
	}
	venue, err := s.venues.GetByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !venue.IsActive {
		return nil, ErrVenueUnavailable
	}
	taken, err := s.bookings.HasOverlap(ctx, venueID, date, startsAt, endsAt)
	if err != nil {
		return nil, fmt.Errorf("check slot availability: %w", err)
	}
	if taken {
		return nil, ErrVenueUnavailable
	}

	hours := decimal.NewFromFloat(endsAt.Sub(startsAt).Minutes()).Div(decimal.NewFromInt(60))
	booking := &model.Booking{
		UserID:   userID,
		VenueID:  venueID,
		Date:     date,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Status:   model.BookingPending,
		Amount:   venue.PricePerHour.Mul(hours).Round(2),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}
	s.log.Info().Uint64("booking_id", booking.ID).Uint64("venue_id", venueID).Msg("booking requested")
	return booking, nil
}

// Accept approves a pending booking. Only the venue owner may accept,
// and only while the booking is still pending.
func (s *BookingService) Accept(ctx context.Context, bookingID, ownerID uint64) (*model.Booking, error) {
	return s.moderate(ctx, bookingID, ownerID, model.BookingAccepted, nil)
}

// Reject declines a pending booking with a reason. Only the venue owner
// may reject, and only while the booking is still pending.
func (s *BookingService) Reject(ctx context.Context, bookingID, ownerID uint64, reason string) (*model.Booking, error) {
	return s.moderate(ctx, bookingID, ownerID, model.BookingRejected, &reason)
}

// moderate implements the shared accept/reject path.
func (s *BookingService) moderate(ctx context.Context, bookingID, ownerID uint64, toStatus string, reason *string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, booking.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != ownerID {
		return nil, repository.ErrForbidden
	}
	if booking.Status != model.BookingPending {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingPending, toStatus, reason); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	booking.Status = toStatus
	booking.Reason = reason

	nType := model.NotificationBookingAccepted
	title := "Booking accepted"
	message := fmt.Sprintf("Your booking at %q on %s was accepted.", venue.Name, booking.Date.Format("2006-01-02"))
	if toStatus == model.BookingRejected {
		nType = model.NotificationBookingRejected
		title = "Booking rejected"
		message = fmt.Sprintf("Your booking at %q on %s was rejected.", venue.Name, booking.Date.Format("2006-01-02"))
		if reason != nil && *reason != "" {
			message += " Reason: " + *reason + "."
		}
	}
	refType := string(model.ReferenceBooking)
	notification := &model.Notification{
		UserID:        booking.UserID,
		Type:          nType,
		Title:         title,
		Message:       message,
		Channel:       model.ChannelInApp,
		Priority:      model.PriorityNormal,
		ReferenceType: &refType,
		ReferenceID:   &booking.ID,
	}
	if err := s.notifier.Create(ctx, notification); err != nil {
		s.log.Error().Err(err).Uint64("booking_id", booking.ID).Msg("notify booking requester")
	}
	s.log.Info().Uint64("booking_id", booking.ID).Str("status", toStatus).Msg("booking moderated")
	return booking, nil
}

// Cancel voids a booking on behalf of its requester. Pending and
// accepted bookings can be cancelled; terminal ones cannot.
func (s *BookingService) Cancel(ctx context.Context, bookingID, userID uint64, reason string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, repository.ErrForbidden
	}
	if booking.Status != model.BookingPending && booking.Status != model.BookingAccepted {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, booking.Status, model.BookingCancelled, &reason); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	booking.Status = model.BookingCancelled
	booking.Reason = &reason
	s.log.Info().Uint64("booking_id", booking.ID).Msg("booking cancelled")
	return booking, nil
}

// Complete marks an accepted booking as completed. Only the venue owner
// may complete a booking.
func (s *BookingService) Complete(ctx context.Context, bookingID, ownerID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	venue, err := s.venues.GetByID(ctx, booking.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != ownerID {
		return nil, repository.ErrForbidden
	}
	if booking.Status != model.BookingAccepted {
		return nil, ErrInvalidTransition
	}
	if err := s.bookings.UpdateStatus(ctx, bookingID, model.BookingAccepted, model.BookingCompleted, nil); err != nil {
		if err == repository.ErrConflict {
			return nil, ErrInvalidTransition
		}
		return nil, err
	}
	booking.Status = model.BookingCompleted
	s.log.Info().Uint64("booking_id", booking.ID).Msg("booking completed")
	return booking, nil
}
