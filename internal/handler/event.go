package handler // handler package contains event catalogue and organizer handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/service"
)

// EventHandler bundles the event repository for catalogue reads and
// organizer writes, plus the cancellation service for the refund workflow.
type EventHandler struct {
	EventRepo *repository.EventRepo
	VenueRepo *repository.VenueRepo
	Events    *service.EventService
}

// NewEventHandler constructs an EventHandler and panics if any dependency is nil.
func NewEventHandler(eventRepo *repository.EventRepo, venueRepo *repository.VenueRepo, events *service.EventService) *EventHandler {
	if eventRepo == nil || venueRepo == nil || events == nil {
		panic("nil dependency passed to NewEventHandler")
	}
	return &EventHandler{EventRepo: eventRepo, VenueRepo: venueRepo, Events: events}
}

// CreateEvent handles POST /v1/events. The venue reference is optional;
// when present the venue must exist, be open for business, and physically
// hold the requested attendance.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	organizerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		VenueID      *uint64         `json:"venue_id"`
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		Date         string          `json:"date"`
		StartsAt     time.Time       `json:"starts_at"`
		EndsAt       time.Time       `json:"ends_at"`
		MaxAttendees uint32          `json:"max_attendees"`
		TicketPrice  decimal.Decimal `json:"ticket_price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || body.MaxAttendees == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and max_attendees are required"})
	}
	if !body.EndsAt.After(body.StartsAt) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
	}
	if body.TicketPrice.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket_price must not be negative"})
	}
	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	ctx := c.Request().Context()
	if body.VenueID != nil {
		venue, err := h.VenueRepo.GetByID(ctx, *body.VenueID)
		if err != nil {
			return writeDomainError(c, err)
		}
		if !venue.IsActive {
			return c.JSON(http.StatusConflict, echo.Map{"error": "venue is not active"})
		}
		if body.MaxAttendees > venue.Capacity {
			return c.JSON(http.StatusConflict, echo.Map{"error": "max_attendees exceeds venue capacity"})
		}
	}
	event := &model.Event{
		OrganizerID:  organizerID,
		VenueID:      body.VenueID,
		Name:         strings.TrimSpace(body.Name),
		Description:  strings.TrimSpace(body.Description),
		Date:         date,
		StartsAt:     body.StartsAt,
		EndsAt:       body.EndsAt,
		MaxAttendees: body.MaxAttendees,
		TicketPrice:  body.TicketPrice,
		Status:       model.EventUpcoming,
	}
	if err := h.EventRepo.Create(ctx, event); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, event)
}

// ListEvents handles GET /events, the public catalogue. An optional
// ?status= filter narrows the results to one lifecycle state.
func (h *EventHandler) ListEvents(c echo.Context) error {
	limit, offset := pageParams(c)
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	events, err := h.EventRepo.List(c.Request().Context(), status, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// GetEvent handles GET /events/:id.
func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	event, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, event)
}

// CancelEvent handles POST /v1/events/:id/cancel. It runs the full
// cancellation workflow: every active ticket is voided, paid tickets get a
// refund attempt, holders are notified, and the event is closed. The
// response carries the aggregate refund outcome so the organizer can see
// how many refunds went through and which tickets need operator attention.
func (h *EventHandler) CancelEvent(c echo.Context) error {
	organizerID, err := getUserID(c)
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
	if strings.TrimSpace(body.Reason) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reason is required"})
	}
	outcome, err := h.Events.CancelEvent(c.Request().Context(), id, organizerID, strings.TrimSpace(body.Reason))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, outcome)
}
