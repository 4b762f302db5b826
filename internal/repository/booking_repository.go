package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yagnesh-3/fira/internal/model"
)

// BookingRepo provides persistence for venue time-slot bookings.
// Status transitions are guarded single-row updates; owner-facing reads
// validate venue ownership and return ErrForbidden on a mismatch.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, venue_id, date, starts_at, ends_at, status, amount,
       payment_id, reason, created_at, updated_at`

func scanBooking(row interface {
	Scan(dest ...interface{}) error
}) (*model.Booking, error) {
	var b model.Booking
	var paymentID sql.NullInt64
	var reason sql.NullString
	err := row.Scan(
		&b.ID, &b.UserID, &b.VenueID, &b.Date, &b.StartsAt, &b.EndsAt, &b.Status,
		&b.Amount, &paymentID, &reason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if paymentID.Valid {
		id := uint64(paymentID.Int64)
		b.PaymentID = &id
	}
	if reason.Valid {
		s := reason.String
		b.Reason = &s
	}
	return &b, nil
}

// Create inserts a new booking in PENDING state.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, venue_id, date, starts_at, ends_at, status, amount)
	   VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		b.UserID, b.VenueID, b.Date, b.StartsAt, b.EndsAt, model.BookingPending, b.Amount,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	created, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// GetByID loads a single booking.  ErrBookingNotFound is returned when
// no row exists for the given ID.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	   WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListByVenueForOwner returns all bookings for a venue when accessed by
// its owner.  It verifies that the venue belongs to the caller first;
// otherwise ErrForbidden is returned.  A missing venue surfaces as
// ErrVenueNotFound.
func (r *BookingRepo) ListByVenueForOwner(ctx context.Context, venueID, ownerID uint64) ([]model.Booking, error) {
	const checkQ = `SELECT owner_id FROM venues WHERE id = ?`
	var actualOwnerID uint64
	err := r.db.QueryRowContext(ctx, checkQ, venueID).Scan(&actualOwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVenueNotFound
	}
	if err != nil {
		return nil, err
	}
	if actualOwnerID != ownerID {
		return nil, ErrForbidden
	}
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	   WHERE venue_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
	bookings := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// HasOverlap reports whether the venue already has a pending or
// accepted booking overlapping the requested slot.  Two slots overlap
// when one starts before the other ends on the same day.
func (r *BookingRepo) HasOverlap(ctx context.Context, venueID uint64, date, startsAt, endsAt time.Time) (bool, error) {
	const q = `SELECT EXISTS (
	     SELECT 1 FROM bookings
	     WHERE venue_id = ? AND date = ? AND status IN (?, ?)
	       AND starts_at < ? AND ends_at > ?
	   )`
	var exists bool
	err := r.db.QueryRowContext(ctx, q,
		venueID, date, model.BookingPending, model.BookingAccepted, endsAt, startsAt,
	).Scan(&exists)
	return exists, err
}

// UpdateStatus moves a booking from one state to another, optionally
// recording a reason.  The transition is a guarded single-row update;
// if the booking is no longer in fromStatus the call returns
// ErrConflict, and a missing booking surfaces as ErrBookingNotFound.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, fromStatus, toStatus string, reason *string) error {
	const q = `UPDATE bookings SET status = ?, reason = COALESCE(?, reason)
	   WHERE id = ? AND status = ?`
	var reasonArg interface{}
	if reason != nil {
		reasonArg = *reason
	}
	result, err := r.db.ExecContext(ctx, q, toStatus, reasonArg, id, fromStatus)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrConflict
	}
	return nil
}
