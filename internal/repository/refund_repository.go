package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
)

// RefundRepo provides persistence for refund attempts.  A refund row is
// created PENDING before the gateway is called and updated exactly once
// with the outcome, so every attempt leaves an audit record even when
// the gateway call never returns.
type RefundRepo struct {
	db *sql.DB
}

// NewRefundRepo returns a new RefundRepo bound to the given database.
func NewRefundRepo(db *sql.DB) *RefundRepo { return &RefundRepo{db: db} }

const refundColumns = `id, payment_id, reason, requested_amount, amount, status,
       gateway_refund_id, failure_reason, created_at, updated_at`

func scanRefund(row interface {
	Scan(dest ...interface{}) error
}) (*model.Refund, error) {
	var rf model.Refund
	var amount decimal.NullDecimal
	var gatewayRefundID sql.NullString
	var failureReason sql.NullString
	err := row.Scan(
		&rf.ID, &rf.PaymentID, &rf.Reason, &rf.RequestedAmount, &amount, &rf.Status,
		&gatewayRefundID, &failureReason, &rf.CreatedAt, &rf.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if amount.Valid {
		a := amount.Decimal
		rf.Amount = &a
	}
	if gatewayRefundID.Valid {
		s := gatewayRefundID.String
		rf.GatewayRefundID = &s
	}
	if failureReason.Valid {
		s := failureReason.String
		rf.FailureReason = &s
	}
	return &rf, nil
}

// Create inserts a new refund attempt in PENDING state.
func (r *RefundRepo) Create(ctx context.Context, rf *model.Refund) error {
	const q = `INSERT INTO refunds (payment_id, reason, requested_amount, status)
	   VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, rf.PaymentID, rf.Reason, rf.RequestedAmount, model.RefundPending)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rf.ID = uint64(id)
	created, err := r.GetByID(ctx, rf.ID)
	if err != nil {
		return err
	}
	*rf = *created
	return nil
}

// GetByID loads a single refund attempt.
func (r *RefundRepo) GetByID(ctx context.Context, id uint64) (*model.Refund, error) {
	const q = `SELECT ` + refundColumns + ` FROM refunds WHERE id = ?`
	rf, err := scanRefund(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRefundNotFound
	}
	return rf, err
}

// ListByPayment returns all refund attempts against a payment, oldest
// first, so operators can see the full attempt history.
func (r *RefundRepo) ListByPayment(ctx context.Context, paymentID uint64) ([]model.Refund, error) {
	const q = `SELECT ` + refundColumns + ` FROM refunds
	   WHERE payment_id = ? ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	refunds := make([]model.Refund, 0)
	for rows.Next() {
		rf, err := scanRefund(rows)
		if err != nil {
			return nil, err
		}
		refunds = append(refunds, *rf)
	}
	return refunds, rows.Err()
}

// MarkOutcome records the gateway-reported result of a pending attempt:
// the refund ID, the amount actually refunded and the resulting status
// (COMPLETED or PROCESSING).
func (r *RefundRepo) MarkOutcome(ctx context.Context, id uint64, status, gatewayRefundID string, amount decimal.Decimal) error {
	const q = `UPDATE refunds SET status = ?, gateway_refund_id = ?, amount = ?
	   WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, status, gatewayRefundID, amount, id, model.RefundPending)
	if err != nil {
		return err
	}
	return r.checkGuard(ctx, result, id)
}

// MarkFailed records a failed attempt together with the captured error
// message.  FAILED is terminal for the attempt.
func (r *RefundRepo) MarkFailed(ctx context.Context, id uint64, failureReason string) error {
	const q = `UPDATE refunds SET status = ?, failure_reason = ?
	   WHERE id = ? AND status = ?`
	result, err := r.db.ExecContext(ctx, q, model.RefundFailed, failureReason, id, model.RefundPending)
	if err != nil {
		return err
	}
	return r.checkGuard(ctx, result, id)
}

func (r *RefundRepo) checkGuard(ctx context.Context, result sql.Result, id uint64) error {
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
