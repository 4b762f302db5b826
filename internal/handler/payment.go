package handler // handler package contains payment and refund handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/service"
)

// PaymentHandler bundles the payment service with the repositories needed
// for ownership checks and refund listings.
type PaymentHandler struct {
	Payments    *service.PaymentService
	PaymentRepo *repository.PaymentRepo
	RefundRepo  *repository.RefundRepo
}

// NewPaymentHandler constructs a PaymentHandler and panics if any dependency is nil.
func NewPaymentHandler(payments *service.PaymentService, paymentRepo *repository.PaymentRepo, refundRepo *repository.RefundRepo) *PaymentHandler {
	if payments == nil || paymentRepo == nil || refundRepo == nil {
		panic("nil dependency passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, PaymentRepo: paymentRepo, RefundRepo: refundRepo}
}

// owned loads a payment and enforces that it belongs to the caller.
func (h *PaymentHandler) owned(c echo.Context, id, userID uint64) error {
	p, err := h.PaymentRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if p.UserID != userID {
		return repository.ErrForbidden
	}
	return nil
}

// Get handles GET /v1/payments/:id.
func (h *PaymentHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	p, err := h.PaymentRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	if p.UserID != userID {
		return writeDomainError(c, repository.ErrForbidden)
	}
	return c.JSON(http.StatusOK, p)
}

// Verify handles POST /v1/payments/:id/verify. The client posts the
// gateway checkout result; the signature is recomputed server-side and a
// mismatch marks the payment failed. A verified payment can then be
// presented as payment_id when purchasing the ticket.
func (h *PaymentHandler) Verify(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		GatewayOrderID   string `json:"gateway_order_id"`
		GatewayPaymentID string `json:"gateway_payment_id"`
		Signature        string `json:"signature"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.GatewayOrderID == "" || body.GatewayPaymentID == "" || body.Signature == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "gateway_order_id, gateway_payment_id and signature are required"})
	}
	if err := h.owned(c, id, userID); err != nil {
		return writeDomainError(c, err)
	}
	p, err := h.Payments.Verify(c.Request().Context(), id, body.GatewayOrderID, body.GatewayPaymentID, body.Signature)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// RequestRefund handles POST /v1/payments/:id/refund. An optional amount
// requests a partial refund; omitted means the full paid amount. Only
// successful payments with a captured gateway payment are eligible. A
// gateway failure records a failed refund attempt and leaves the payment
// eligible for retry, reported here as 502.
func (h *PaymentHandler) RequestRefund(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Reason string           `json:"reason"`
		Amount *decimal.Decimal `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	if err := h.owned(c, id, userID); err != nil {
		return writeDomainError(c, err)
	}
	refund, err := h.Payments.RequestRefund(c.Request().Context(), id, reason, body.Amount)
	if err != nil {
		if refund != nil {
			// The gateway rejected or timed out; the attempt is recorded
			// and the payment stays refundable.
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "refund failed at gateway", "refund": refund})
		}
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, refund)
}

// ListRefunds handles GET /v1/payments/:id/refunds.
func (h *PaymentHandler) ListRefunds(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.owned(c, id, userID); err != nil {
		return writeDomainError(c, err)
	}
	refunds, err := h.RefundRepo.ListByPayment(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"refunds": refunds})
}
