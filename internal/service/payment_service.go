package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
)

// PaymentService owns the local side of the payment lifecycle: raising
// gateway orders, verifying callbacks, and issuing refunds. The gateway
// client is injected; the service never reads credentials itself.
type PaymentService struct {
	payments PaymentStore
	refunds  RefundStore
	gw       PaymentGateway
	log      zerolog.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(payments PaymentStore, refunds RefundStore, gw PaymentGateway, log zerolog.Logger) *PaymentService {
	if payments == nil || refunds == nil || gw == nil {
		panic("nil dependency passed to NewPaymentService")
	}
	return &PaymentService{payments: payments, refunds: refunds, gw: gw, log: log}
}

// Initiate raises a gateway order for amount and persists a PENDING
// payment carrying the gateway order ID and the raw gateway response.
// gateway.ErrNotConfigured passes through when credentials are absent.
func (s *PaymentService) Initiate(ctx context.Context, userID uint64, refType model.ReferenceType, refID uint64, amount decimal.Decimal) (*model.Payment, error) {
	receipt := "fira_" + uuid.NewString()
	order, raw, err := s.gw.CreateOrder(ctx, amount, "INR", receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}
	payment := &model.Payment{
		UserID:          userID,
		ReferenceType:   refType,
		ReferenceID:     refID,
		Amount:          amount,
		Currency:        "INR",
		Status:          model.PaymentPending,
		GatewayOrderID:  order.ID,
		GatewayResponse: string(raw),
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("persist payment: %w", err)
	}
	s.log.Info().
		Uint64("payment_id", payment.ID).
		Str("gateway_order_id", order.ID).
		Str("amount", amount.String()).
		Msg("payment initiated")
	return payment, nil
}

// Verify authenticates a payment callback. The signature is recomputed
// over orderID|gatewayPaymentID with the configured secret; a match
// settles the payment as SUCCESS with the transaction ID and paid-at
// timestamp, a mismatch marks it FAILED and returns
// ErrSignatureMismatch. No other reconciliation is performed.
func (s *PaymentService) Verify(ctx context.Context, paymentID uint64, orderID, gatewayPaymentID, signature string) (*model.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !s.gw.VerifySignature(orderID, gatewayPaymentID, signature) {
		if err := s.payments.MarkFailed(ctx, payment.ID); err != nil {
			s.log.Error().Err(err).Uint64("payment_id", payment.ID).Msg("mark payment failed")
		}
		s.log.Warn().Uint64("payment_id", payment.ID).Msg("payment signature mismatch")
		return nil, ErrSignatureMismatch
	}
	now := time.Now().UTC()
	if err := s.payments.MarkSuccess(ctx, payment.ID, gatewayPaymentID, now); err != nil {
		return nil, err
	}
	payment.Status = model.PaymentSuccess
	payment.GatewayPaymentID = &gatewayPaymentID
	payment.PaidAt = &now
	s.log.Info().Uint64("payment_id", payment.ID).Msg("payment verified")
	return payment, nil
}

// RequestRefund issues a refund against a successfully settled payment.
// The Refund row is created PENDING before the gateway call so a local
// audit record exists even if the outside call fails. On gateway
// success the attempt is finalized and the payment becomes REFUNDED; on
// failure the attempt is marked FAILED with the captured message and
// the payment keeps its SUCCESS status, so a later manual attempt
// remains eligible. When amount is nil the full payment amount is
// refunded; a reduced amount must not exceed what was paid.
func (s *PaymentService) RequestRefund(ctx context.Context, paymentID uint64, reason string, amount *decimal.Decimal) (*model.Refund, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Refundable() {
		return nil, ErrNotRefundable
	}
	refundAmount := payment.Amount
	if amount != nil {
		if amount.GreaterThan(payment.Amount) || !amount.IsPositive() {
			return nil, ErrNotRefundable
		}
		refundAmount = *amount
	}

	refund := &model.Refund{
		PaymentID:       payment.ID,
		Reason:          reason,
		RequestedAmount: refundAmount,
		Status:          model.RefundPending,
	}
	if err := s.refunds.Create(ctx, refund); err != nil {
		return nil, fmt.Errorf("persist refund attempt: %w", err)
	}

	result, err := s.gw.CreateRefund(ctx, *payment.GatewayPaymentID, refundAmount, map[string]string{"reason": reason})
	if err != nil {
		msg := err.Error()
		if markErr := s.refunds.MarkFailed(ctx, refund.ID, msg); markErr != nil {
			s.log.Error().Err(markErr).Uint64("refund_id", refund.ID).Msg("mark refund failed")
		}
		refund.Status = model.RefundFailed
		refund.FailureReason = &msg
		s.log.Warn().Err(err).Uint64("payment_id", payment.ID).Msg("gateway refund failed")
		return refund, fmt.Errorf("gateway refund: %w", err)
	}

	status := model.RefundProcessing
	if result.Status == "processed" || result.Status == "completed" {
		status = model.RefundCompleted
	}
	if err := s.refunds.MarkOutcome(ctx, refund.ID, status, result.ID, refundAmount); err != nil {
		return nil, err
	}
	if err := s.payments.MarkRefunded(ctx, payment.ID); err != nil {
		return nil, err
	}
	refund.Status = status
	refund.GatewayRefundID = &result.ID
	refund.Amount = &refundAmount
	s.log.Info().
		Uint64("payment_id", payment.ID).
		Uint64("refund_id", refund.ID).
		Str("amount", refundAmount.String()).
		Msg("refund issued")
	return refund, nil
}
