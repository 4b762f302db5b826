package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yagnesh-3/fira/internal/gateway"
	"github.com/yagnesh-3/fira/internal/model"
)

func strPtr(s string) *string { return &s }

func newPaymentServiceForTest() (*PaymentService, *MockPaymentStore, *MockRefundStore, *MockGateway) {
	payments := &MockPaymentStore{}
	refunds := &MockRefundStore{}
	gw := &MockGateway{}
	svc := NewPaymentService(payments, refunds, gw, zerolog.Nop())
	return svc, payments, refunds, gw
}

func settledPayment(id uint64, amount int64) *model.Payment {
	return &model.Payment{
		ID:               id,
		UserID:           21,
		ReferenceType:    model.ReferenceTicket,
		ReferenceID:      1,
		Amount:           decimal.NewFromInt(amount),
		Currency:         "INR",
		Status:           model.PaymentSuccess,
		GatewayOrderID:   "order_test1",
		GatewayPaymentID: strPtr("pay_test1"),
	}
}

func TestInitiateRaisesOrderAndPersistsPendingPayment(t *testing.T) {
	svc, payments, _, gw := newPaymentServiceForTest()
	ctx := context.Background()

	amount := decimal.NewFromInt(500)
	gw.On("CreateOrder", ctx, amount, "INR", mock.Anything).
		Return(&gateway.Order{ID: "order_abc", Amount: 50000, Currency: "INR"}, []byte(`{"id":"order_abc"}`), nil)
	payments.On("Create", ctx, mock.Anything).Return(nil)

	p, err := svc.Initiate(ctx, 21, model.ReferenceTicket, 1, amount)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentPending, p.Status)
	assert.Equal(t, "order_abc", p.GatewayOrderID)
	assert.Equal(t, model.ReferenceTicket, p.ReferenceType)
	assert.JSONEq(t, `{"id":"order_abc"}`, p.GatewayResponse)
}

func TestVerifySettlesPaymentOnSignatureMatch(t *testing.T) {
	svc, payments, _, gw := newPaymentServiceForTest()
	ctx := context.Background()

	pending := &model.Payment{ID: 901, Status: model.PaymentPending, GatewayOrderID: "order_test1"}
	payments.On("GetByID", ctx, uint64(901)).Return(pending, nil)
	gw.On("VerifySignature", "order_test1", "pay_test1", "goodsig").Return(true)
	payments.On("MarkSuccess", ctx, uint64(901), "pay_test1", mock.Anything).Return(nil)

	p, err := svc.Verify(ctx, 901, "order_test1", "pay_test1", "goodsig")
	require.NoError(t, err)

	assert.Equal(t, model.PaymentSuccess, p.Status)
	require.NotNil(t, p.GatewayPaymentID)
	assert.Equal(t, "pay_test1", *p.GatewayPaymentID)
	require.NotNil(t, p.PaidAt)
}

func TestVerifyTamperedSignatureMarksPaymentFailed(t *testing.T) {
	svc, payments, _, gw := newPaymentServiceForTest()
	ctx := context.Background()

	pending := &model.Payment{ID: 901, Status: model.PaymentPending, GatewayOrderID: "order_test1"}
	payments.On("GetByID", ctx, uint64(901)).Return(pending, nil)
	gw.On("VerifySignature", "order_test1", "pay_test1", "badsig").Return(false)
	payments.On("MarkFailed", ctx, uint64(901)).Return(nil)

	_, err := svc.Verify(ctx, 901, "order_test1", "pay_test1", "badsig")
	assert.ErrorIs(t, err, ErrSignatureMismatch)
	payments.AssertCalled(t, "MarkFailed", ctx, uint64(901))
	payments.AssertNotCalled(t, "MarkSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestRefundFullAmount(t *testing.T) {
	svc, payments, refunds, gw := newPaymentServiceForTest()
	ctx := context.Background()

	payments.On("GetByID", ctx, uint64(901)).Return(settledPayment(901, 500), nil)
	refunds.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Refund).ID = 5 }).
		Return(nil)
	gw.On("CreateRefund", ctx, "pay_test1", mock.Anything, mock.Anything).
		Return(&gateway.RefundResult{ID: "rfnd_1", Status: "processed"}, nil)
	refunds.On("MarkOutcome", ctx, uint64(5), model.RefundCompleted, "rfnd_1", mock.Anything).Return(nil)
	payments.On("MarkRefunded", ctx, uint64(901)).Return(nil)

	refund, err := svc.RequestRefund(ctx, 901, "event_cancelled", nil)
	require.NoError(t, err)

	assert.Equal(t, model.RefundCompleted, refund.Status)
	require.NotNil(t, refund.Amount)
	assert.True(t, refund.Amount.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, refund.GatewayRefundID)
	assert.Equal(t, "rfnd_1", *refund.GatewayRefundID)
	payments.AssertCalled(t, "MarkRefunded", ctx, uint64(901))
}

func TestRequestRefundGatewayFailureLeavesPaymentRefundable(t *testing.T) {
	svc, payments, refunds, gw := newPaymentServiceForTest()
	ctx := context.Background()

	payments.On("GetByID", ctx, uint64(901)).Return(settledPayment(901, 500), nil)
	refunds.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Refund).ID = 5 }).
		Return(nil)
	gw.On("CreateRefund", ctx, "pay_test1", mock.Anything, mock.Anything).
		Return(nil, assert.AnError)
	refunds.On("MarkFailed", ctx, uint64(5), mock.Anything).Return(nil)

	refund, err := svc.RequestRefund(ctx, 901, "event_cancelled", nil)
	require.Error(t, err)

	// The attempt is recorded FAILED; the payment keeps SUCCESS so a later
	// attempt stays eligible.
	require.NotNil(t, refund)
	assert.Equal(t, model.RefundFailed, refund.Status)
	require.NotNil(t, refund.FailureReason)
	payments.AssertNotCalled(t, "MarkRefunded", mock.Anything, mock.Anything)
}

func TestRequestRefundPendingPaymentNotEligible(t *testing.T) {
	svc, payments, refunds, _ := newPaymentServiceForTest()
	ctx := context.Background()

	pending := &model.Payment{ID: 901, Status: model.PaymentPending, Amount: decimal.NewFromInt(500)}
	payments.On("GetByID", ctx, uint64(901)).Return(pending, nil)

	_, err := svc.RequestRefund(ctx, 901, "whatever", nil)
	assert.ErrorIs(t, err, ErrNotRefundable)
	refunds.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRequestRefundPartialAmountBounds(t *testing.T) {
	svc, payments, refunds, gw := newPaymentServiceForTest()
	ctx := context.Background()

	payments.On("GetByID", ctx, uint64(901)).Return(settledPayment(901, 500), nil)

	over := decimal.NewFromInt(600)
	_, err := svc.RequestRefund(ctx, 901, "too much", &over)
	assert.ErrorIs(t, err, ErrNotRefundable)

	zero := decimal.Zero
	_, err = svc.RequestRefund(ctx, 901, "nothing", &zero)
	assert.ErrorIs(t, err, ErrNotRefundable)

	partial := decimal.NewFromInt(200)
	refunds.On("Create", ctx, mock.Anything).
		Run(func(args mock.Arguments) { args.Get(1).(*model.Refund).ID = 5 }).
		Return(nil)
	gw.On("CreateRefund", ctx, "pay_test1", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			amount := args.Get(2).(decimal.Decimal)
			assert.True(t, amount.Equal(partial))
		}).
		Return(&gateway.RefundResult{ID: "rfnd_2", Status: "processed"}, nil)
	refunds.On("MarkOutcome", ctx, uint64(5), model.RefundCompleted, "rfnd_2", mock.Anything).Return(nil)
	payments.On("MarkRefunded", ctx, uint64(901)).Return(nil)

	refund, err := svc.RequestRefund(ctx, 901, "partial", &partial)
	require.NoError(t, err)
	assert.True(t, refund.RequestedAmount.Equal(partial))
}
