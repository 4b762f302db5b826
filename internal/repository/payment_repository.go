package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yagnesh-3/fira/internal/model"
)

// PaymentRepo provides persistence for payments.  Status transitions
// are monotonic and guarded at the SQL level: PENDING to SUCCESS or
// FAILED at verification time, SUCCESS to REFUNDED once a refund
// completes.  A guarded update that matches no row returns ErrConflict.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, user_id, reference_type, reference_id, amount, currency, status,
       gateway_order_id, gateway_payment_id, gateway_response, paid_at,
       created_at, updated_at`

func scanPayment(row interface {
	Scan(dest ...interface{}) error
}) (*model.Payment, error) {
	var p model.Payment
	var gatewayPaymentID sql.NullString
	var gatewayResponse sql.NullString
	var paidAt sql.NullTime
	err := row.Scan(
		&p.ID, &p.UserID, &p.ReferenceType, &p.ReferenceID, &p.Amount, &p.Currency,
		&p.Status, &p.GatewayOrderID, &gatewayPaymentID, &gatewayResponse, &paidAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if gatewayPaymentID.Valid {
		s := gatewayPaymentID.String
		p.GatewayPaymentID = &s
	}
	if gatewayResponse.Valid {
		p.GatewayResponse = gatewayResponse.String
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}

// Create inserts a new payment row in PENDING state and populates the
// generated ID and timestamps.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments
	   (user_id, reference_type, reference_id, amount, currency, status,
	    gateway_order_id, gateway_response)
	   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		p.UserID, string(p.ReferenceType), p.ReferenceID, p.Amount, p.Currency,
		model.PaymentPending, p.GatewayOrderID, p.GatewayResponse,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID loads a single payment.  ErrPaymentNotFound is returned when
// no row exists for the given ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM payments WHERE id = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// MarkSuccess records a verified payment: the gateway transaction ID
// and paid-at timestamp are stored and the status moves to SUCCESS.
// Only a PENDING payment can be verified.
func (r *PaymentRepo) MarkSuccess(ctx context.Context, id uint64, gatewayPaymentID string, paidAt time.Time) error {
	const q = `UPDATE payments SET status = ?, gateway_payment_id = ?, paid_at = ?
	   WHERE id = ? AND status = ?`
	return r.guardedUpdate(ctx, q, id, model.PaymentSuccess, gatewayPaymentID, paidAt, id, model.PaymentPending)
}

// MarkFailed records a failed verification.  Only a PENDING payment can
// fail; repeated failures are idempotent at the caller's level.
func (r *PaymentRepo) MarkFailed(ctx context.Context, id uint64) error {
	const q = `UPDATE payments SET status = ? WHERE id = ? AND status = ?`
	return r.guardedUpdate(ctx, q, id, model.PaymentFailed, id, model.PaymentPending)
}

// MarkRefunded moves a successful payment to its terminal REFUNDED
// state after the gateway accepted the refund.
func (r *PaymentRepo) MarkRefunded(ctx context.Context, id uint64) error {
	const q = `UPDATE payments SET status = ? WHERE id = ? AND status = ?`
	return r.guardedUpdate(ctx, q, id, model.PaymentRefunded, id, model.PaymentSuccess)
}

// guardedUpdate executes a conditional status update and converts the
// zero-rows case into ErrPaymentNotFound or ErrConflict.
func (r *PaymentRepo) guardedUpdate(ctx context.Context, q string, id uint64, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, q, args...)
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
