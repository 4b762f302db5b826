package handler // handler package contains venue booking handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/service"
)

// BookingHandler bundles the booking workflow service with the repository
// for listings. Organizers request slots; venue owners moderate them.
type BookingHandler struct {
	Bookings    *service.BookingService
	BookingRepo *repository.BookingRepo
}

// NewBookingHandler constructs a BookingHandler and panics if any dependency is nil.
func NewBookingHandler(bookings *service.BookingService, bookingRepo *repository.BookingRepo) *BookingHandler {
	if bookings == nil || bookingRepo == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings, BookingRepo: bookingRepo}
}

// Request handles POST /v1/bookings: an organizer asks for a venue slot.
// Overlapping pending or accepted bookings make the slot unavailable.
func (h *BookingHandler) Request(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		VenueID  uint64    `json:"venue_id"`
		Date     string    `json:"date"`
		StartsAt time.Time `json:"starts_at"`
		EndsAt   time.Time `json:"ends_at"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.VenueID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "venue_id is required"})
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	booking, err := h.Bookings.Request(c.Request().Context(), userID, body.VenueID, date, body.StartsAt, body.EndsAt)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, booking)
}

// ListMine handles GET /v1/bookings and returns the caller's booking
// requests, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	bookings, err := h.BookingRepo.ListByUser(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}

// Accept handles POST /v1/bookings/:id/accept (venue owner only).
func (h *BookingHandler) Accept(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booking, err := h.Bookings.Accept(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Reject handles POST /v1/bookings/:id/reject (venue owner only). A
// reason is required so the organizer learns why the slot was declined.
func (h *BookingHandler) Reject(c echo.Context) error {
	ownerID, err := getUserID(c)
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	booking, err := h.Bookings.Reject(c.Request().Context(), id, ownerID, reason)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel handles POST /v1/bookings/:id/cancel (requesting organizer only).
func (h *BookingHandler) Cancel(c echo.Context) error {
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
	booking, err := h.Bookings.Cancel(c.Request().Context(), id, userID, strings.TrimSpace(body.Reason))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}

// Complete handles POST /v1/bookings/:id/complete (venue owner only),
// closing out an accepted booking after the event has run.
func (h *BookingHandler) Complete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	booking, err := h.Bookings.Complete(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, booking)
}
