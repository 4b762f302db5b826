package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yagnesh-3/fira/internal/model"
)

// EventRepo provides persistence for events.  All timestamp fields are
// stored in UTC.  Capacity mutations go through ReserveCapacity and
// ReleaseCapacity, which are single-statement conditional updates so
// that concurrent purchases cannot oversell an event.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle for callers that need it.
func (r *EventRepo) DB() *sql.DB { return r.db }

const eventColumns = `id, organizer_id, venue_id, name, description, date, starts_at, ends_at,
       max_attendees, current_attendees, ticket_price, status,
       cancellation_reason, cancelled_at, created_at, updated_at`

// scanEvent reads one event row from the given scanner.  It handles the
// nullable venue reference and cancellation metadata.
func scanEvent(row interface {
	Scan(dest ...interface{}) error
}) (*model.Event, error) {
	var ev model.Event
	var venueID sql.NullInt64
	var reason sql.NullString
	var cancelledAt sql.NullTime
	err := row.Scan(
		&ev.ID, &ev.OrganizerID, &venueID, &ev.Name, &ev.Description,
		&ev.Date, &ev.StartsAt, &ev.EndsAt,
		&ev.MaxAttendees, &ev.CurrentAttendees, &ev.TicketPrice, &ev.Status,
		&reason, &cancelledAt, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if venueID.Valid {
		v := uint64(venueID.Int64)
		ev.VenueID = &v
	}
	if reason.Valid {
		s := reason.String
		ev.CancellationReason = &s
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		ev.CancelledAt = &t
	}
	return &ev, nil
}

// Create inserts a new event and populates the generated ID together
// with the database-assigned defaults and timestamps.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
	   (organizer_id, venue_id, name, description, date, starts_at, ends_at,
	    max_attendees, current_attendees, ticket_price, status)
	   VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`
	var venueID interface{}
	if ev.VenueID != nil {
		venueID = *ev.VenueID
	}
	result, err := r.db.ExecContext(ctx, q,
		ev.OrganizerID, venueID, ev.Name, ev.Description,
		ev.Date, ev.StartsAt, ev.EndsAt,
		ev.MaxAttendees, ev.TicketPrice, model.EventUpcoming,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	// Query back the full row to populate defaults and timestamps.
	created, err := r.GetByID(ctx, ev.ID)
	if err != nil {
		return err
	}
	*ev = *created
	return nil
}

// GetByID loads a single event.  ErrEventNotFound is returned when no
// row exists for the given ID.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT ` + eventColumns + ` FROM events WHERE id = ?`
	ev, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return ev, err
}

// List returns events ordered by start time ascending, optionally
// filtered by status.  Pagination is driven by limit/offset; a limit of
// zero falls back to 50.
func (r *EventRepo) List(ctx context.Context, status string, limit, offset int) ([]model.Event, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + eventColumns + ` FROM events`
	args := make([]interface{}, 0, 3)
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY starts_at ASC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// ReserveCapacity atomically admits quantity attendees to an upcoming
// event.  The read-then-decide step of the original flow is collapsed
// into one conditional UPDATE, so two concurrent purchases can never
// both be admitted into the last free seats.  When the update matches
// no row the event is re-read to tell the caller why: the event may be
// missing (ErrEventNotFound), no longer upcoming (ErrConflict), or
// simply too full (ErrCapacityExceeded).
func (r *EventRepo) ReserveCapacity(ctx context.Context, eventID uint64, quantity uint32) error {
	const q = `UPDATE events
	   SET current_attendees = current_attendees + ?
	   WHERE id = ? AND status = ? AND current_attendees + ? <= max_attendees`
	result, err := r.db.ExecContext(ctx, q, quantity, eventID, model.EventUpcoming, quantity)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	ev, err := r.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Status != model.EventUpcoming {
		return ErrConflict
	}
	return ErrCapacityExceeded
}

// ReleaseCapacity returns quantity seats to the event.  The counter is
// clamped at zero so a stray double release cannot wrap the unsigned
// column.
func (r *EventRepo) ReleaseCapacity(ctx context.Context, eventID uint64, quantity uint32) error {
	const q = `UPDATE events
	   SET current_attendees = CASE WHEN current_attendees >= ? THEN current_attendees - ? ELSE 0 END
	   WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, quantity, quantity, eventID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// RowsAffected may legitimately be zero when the counter was
		// already zero; distinguish a missing event explicitly.
		if _, err := r.GetByID(ctx, eventID); err != nil {
			return err
		}
	}
	return nil
}

// MarkCancelled moves the event into its terminal state, stamping the
// reason and timestamp and zeroing the attendee counter.  The write is
// unconditional apart from existence, matching the cancellation batch
// contract: once the per-ticket loop has run, the event is cancelled no
// matter how many refunds failed.
func (r *EventRepo) MarkCancelled(ctx context.Context, eventID uint64, reason string, at time.Time) error {
	const q = `UPDATE events
	   SET status = ?, cancellation_reason = ?, cancelled_at = ?, current_attendees = 0
	   WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, model.EventCancelled, reason, at, eventID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, eventID); err != nil {
			return err
		}
	}
	return nil
}
