package handler // handler package contains customer ticket handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/service"
)

// TicketHandler bundles the ticket purchase/validation service, the refund
// issuer used after a paid cancellation, and the repository for listings.
type TicketHandler struct {
	Tickets    *service.TicketService
	Payments   *service.PaymentService
	TicketRepo *repository.TicketRepo
}

// NewTicketHandler constructs a TicketHandler and panics if any dependency is nil.
func NewTicketHandler(tickets *service.TicketService, payments *service.PaymentService, ticketRepo *repository.TicketRepo) *TicketHandler {
	if tickets == nil || payments == nil || ticketRepo == nil {
		panic("nil dependency passed to NewTicketHandler")
	}
	return &TicketHandler{Tickets: tickets, Payments: payments, TicketRepo: ticketRepo}
}

// Purchase handles POST /v1/tickets. For paid events the first call (no
// payment_id) answers 402 with a pending payment carrying the gateway
// order; the client completes checkout, verifies the payment, and calls
// again with payment_id to receive the ticket.
func (h *TicketHandler) Purchase(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		EventID    uint64  `json:"event_id"`
		Quantity   uint32  `json:"quantity"`
		TicketType string  `json:"ticket_type"`
		PaymentID  *uint64 `json:"payment_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}
	result, err := h.Tickets.Purchase(c.Request().Context(), userID, body.EventID,
		body.Quantity, strings.ToUpper(strings.TrimSpace(body.TicketType)), body.PaymentID)
	if err != nil {
		return writeDomainError(c, err)
	}
	if result.PaymentRequired {
		return c.JSON(http.StatusPaymentRequired, result)
	}
	return c.JSON(http.StatusCreated, result)
}

// ListMine handles GET /v1/tickets and returns the caller's tickets,
// newest first.
func (h *TicketHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	tickets, err := h.TicketRepo.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// Validate handles POST /v1/tickets/:id/validate, the door check-in.
// A ticket admits exactly once: the second scan answers 409.
func (h *TicketHandler) Validate(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ticket, err := h.Tickets.Validate(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": ticket, "valid": true})
}

// Cancel handles POST /v1/tickets/:id/cancel. When the ticket was paid
// and refund-eligible, a refund is requested immediately; a gateway
// failure still cancels the ticket and reports the failed refund so it
// can be retried against the payment later.
func (h *TicketHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	reason := strings.TrimSpace(body.Reason)
	if reason == "" {
		reason = "cancelled_by_holder"
	}
	ctx := c.Request().Context()
	result, err := h.Tickets.Cancel(ctx, id, userID, reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	resp := echo.Map{"ticket": result.Ticket, "refund_eligible": result.RefundEligible}
	if result.RefundEligible {
		refund, rerr := h.Payments.RequestRefund(ctx, *result.Ticket.PaymentID, reason, nil)
		if refund != nil {
			resp["refund"] = refund
		}
		if rerr != nil {
			resp["refund_error"] = "refund could not be processed; retry against the payment"
		}
	}
	return c.JSON(http.StatusOK, resp)
}
