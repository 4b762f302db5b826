package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yagnesh-3/fira/internal/model"
)

// NotificationRepo provides persistence for user notifications.  Rows
// are created once and afterwards mutated only by their read state.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

const notificationColumns = `id, user_id, type, title, message, channel, priority,
       reference_type, reference_id, is_read, read_at, created_at`

func scanNotification(row interface {
	Scan(dest ...interface{}) error
}) (*model.Notification, error) {
	var n model.Notification
	var refType sql.NullString
	var refID sql.NullInt64
	var readAt sql.NullTime
	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Channel, &n.Priority,
		&refType, &refID, &n.IsRead, &readAt, &n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refType.Valid {
		s := refType.String
		n.ReferenceType = &s
	}
	if refID.Valid {
		id := uint64(refID.Int64)
		n.ReferenceID = &id
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	return &n, nil
}

// Create inserts a new notification and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	const q = `INSERT INTO notifications
	   (user_id, type, title, message, channel, priority, reference_type, reference_id)
	   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var refType, refID interface{}
	if n.ReferenceType != nil {
		refType = *n.ReferenceType
	}
	if n.ReferenceID != nil {
		refID = *n.ReferenceID
	}
	result, err := r.db.ExecContext(ctx, q,
		n.UserID, n.Type, n.Title, n.Message, n.Channel, n.Priority, refType, refID,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByUser returns the user's notifications, newest first.  When
// unreadOnly is set, read notifications are filtered out.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []interface{}{userID}
	if unreadOnly {
		q += ` AND is_read = 0`
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	notifications := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, *n)
	}
	return notifications, rows.Err()
}

// CountUnread returns the number of unread notifications for the user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	const q = `SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`
	var count int64
	err := r.db.QueryRowContext(ctx, q, userID).Scan(&count)
	return count, err
}

// MarkRead flips a single notification to read, enforcing ownership.
// ErrNotificationNotFound is returned when the row does not exist;
// ErrForbidden when it belongs to a different user.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64, at time.Time) error {
	const q = `UPDATE notifications SET is_read = 1, read_at = ?
	   WHERE id = ? AND user_id = ? AND is_read = 0`
	result, err := r.db.ExecContext(ctx, q, at, id, userID)
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
	// No row matched: decide between missing, foreign and already-read.
	const check = `SELECT user_id, is_read FROM notifications WHERE id = ?`
	var ownerID uint64
	var isRead bool
	err = r.db.QueryRowContext(ctx, check, id).Scan(&ownerID, &isRead)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	if ownerID != userID {
		return ErrForbidden
	}
	return nil // already read, marking again is a no-op
}

// MarkAllRead flips every unread notification of the user and returns
// how many rows were affected.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64, at time.Time) (int64, error) {
	const q = `UPDATE notifications SET is_read = 1, read_at = ?
	   WHERE user_id = ? AND is_read = 0`
	result, err := r.db.ExecContext(ctx, q, at, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
