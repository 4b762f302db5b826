package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yagnesh-3/fira/internal/model"
)

// TicketRepo provides persistence for tickets.  Status transitions are
// enforced at the SQL level with guarded updates: a ticket can only be
// checked in or cancelled while it is still ACTIVE, so a lost race
// surfaces as ErrConflict rather than a silent double write.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo returns a new TicketRepo bound to the given database.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = `id, user_id, event_id, code, qr_code, quantity, ticket_type, price_paid,
       status, is_used, used_at, payment_id, cancellation_reason, cancelled_at,
       created_at, updated_at`

func scanTicket(row interface {
	Scan(dest ...interface{}) error
}) (*model.Ticket, error) {
	var t model.Ticket
	var usedAt sql.NullTime
	var paymentID sql.NullInt64
	var reason sql.NullString
	var cancelledAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.UserID, &t.EventID, &t.Code, &t.QRCode, &t.Quantity, &t.TicketType,
		&t.PricePaid, &t.Status, &t.IsUsed, &usedAt, &paymentID, &reason, &cancelledAt,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if usedAt.Valid {
		ts := usedAt.Time
		t.UsedAt = &ts
	}
	if paymentID.Valid {
		id := uint64(paymentID.Int64)
		t.PaymentID = &id
	}
	if reason.Valid {
		s := reason.String
		t.CancellationReason = &s
	}
	if cancelledAt.Valid {
		ts := cancelledAt.Time
		t.CancelledAt = &ts
	}
	return &t, nil
}

// Create inserts a new ticket and populates the generated ID and the
// database-assigned timestamps.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	const q = `INSERT INTO tickets
	   (user_id, event_id, code, qr_code, quantity, ticket_type, price_paid, status, payment_id)
	   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var paymentID interface{}
	if t.PaymentID != nil {
		paymentID = *t.PaymentID
	}
	result, err := r.db.ExecContext(ctx, q,
		t.UserID, t.EventID, t.Code, t.QRCode, t.Quantity, t.TicketType,
		t.PricePaid, model.TicketActive, paymentID,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	created, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

// GetByID loads a single ticket.  ErrTicketNotFound is returned when no
// row exists for the given ID.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (*model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	t, err := scanTicket(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	return t, err
}

// ListActiveByEvent returns every ACTIVE ticket for the event, oldest
// first.  The event cancellation batch walks this list.
func (r *TicketRepo) ListActiveByEvent(ctx context.Context, eventID uint64) ([]model.Ticket, error) {
	const q = `SELECT ` + ticketColumns + ` FROM tickets
	   WHERE event_id = ? AND status = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, eventID, model.TicketActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// ListByUser returns the user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]model.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `SELECT ` + ticketColumns + ` FROM tickets
	   WHERE user_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

// MarkUsed flips an active, unused ticket to USED and stamps the
// check-in time.  A second call matches no row and returns ErrConflict,
// which keeps re-entry impossible even under concurrent scans of the
// same code.
func (r *TicketRepo) MarkUsed(ctx context.Context, id uint64, at time.Time) error {
	const q = `UPDATE tickets SET status = ?, is_used = 1, used_at = ?
	   WHERE id = ? AND status = ? AND is_used = 0`
	result, err := r.db.ExecContext(ctx, q, model.TicketUsed, at, id, model.TicketActive)
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

// MarkCancelled moves an active ticket to CANCELLED with a reason and
// timestamp.  Used and already-cancelled tickets match no row and
// return ErrConflict.
func (r *TicketRepo) MarkCancelled(ctx context.Context, id uint64, reason string, at time.Time) error {
	const q = `UPDATE tickets SET status = ?, cancellation_reason = ?, cancelled_at = ?
	   WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, model.TicketCancelled, reason, at, id, model.TicketActive)
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
