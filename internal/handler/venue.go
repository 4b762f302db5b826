package handler // handler package contains venue catalogue and owner handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/yagnesh-3/fira/internal/model"
	"github.com/yagnesh-3/fira/internal/repository"
)

// VenueHandler bundles the repositories venue owners need to manage their
// listings and review incoming booking requests.
type VenueHandler struct {
	VenueRepo   *repository.VenueRepo
	BookingRepo *repository.BookingRepo
}

// NewVenueHandler constructs a VenueHandler and panics if any dependency is nil.
func NewVenueHandler(venueRepo *repository.VenueRepo, bookingRepo *repository.BookingRepo) *VenueHandler {
	if venueRepo == nil || bookingRepo == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{VenueRepo: venueRepo, BookingRepo: bookingRepo}
}

// CreateVenue handles POST /v1/venues and lists a new venue for the
// authenticated owner.
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name         string          `json:"name"`
		Description  string          `json:"description"`
		City         string          `json:"city"`
		Address      string          `json:"address"`
		Capacity     uint32          `json:"capacity"`
		PricePerHour decimal.Decimal `json:"price_per_hour"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || strings.TrimSpace(body.City) == "" ||
		strings.TrimSpace(body.Address) == "" || body.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, city, address and capacity are required"})
	}
	if body.PricePerHour.IsNegative() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price_per_hour must not be negative"})
	}
	venue := &model.Venue{
		OwnerID:      ownerID,
		Name:         strings.TrimSpace(body.Name),
		Description:  strings.TrimSpace(body.Description),
		City:         strings.TrimSpace(body.City),
		Address:      strings.TrimSpace(body.Address),
		Capacity:     body.Capacity,
		PricePerHour: body.PricePerHour,
		IsActive:     true,
	}
	if err := h.VenueRepo.Create(c.Request().Context(), venue); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, venue)
}

// ListVenues handles GET /venues, the public catalogue. An optional ?city=
// filter narrows the results; only active venues are returned.
func (h *VenueHandler) ListVenues(c echo.Context) error {
	limit, offset := pageParams(c)
	city := strings.TrimSpace(c.QueryParam("city"))
	venues, err := h.VenueRepo.ListActive(c.Request().Context(), city, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": venues})
}

// GetVenue handles GET /venues/:id.
func (h *VenueHandler) GetVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	venue, err := h.VenueRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, venue)
}

// ListVenueBookings handles GET /v1/venues/:id/bookings and returns the
// booking requests for one of the owner's venues. Ownership is enforced by
// the repository, which distinguishes a missing venue from a foreign one.
func (h *VenueHandler) ListVenueBookings(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	bookings, err := h.BookingRepo.ListByVenueForOwner(c.Request().Context(), id, ownerID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": bookings})
}
