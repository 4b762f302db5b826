package handler // handler defines http handlers

import (
	"errors"   // errors provides sentinel comparison via errors.Is
	"net/http" // net/http provides status codes
	"strconv"  // strconv converts strings to numeric types

	"github.com/labstack/echo/v4" // echo defines request context types

	"github.com/yagnesh-3/fira/internal/gateway"
	"github.com/yagnesh-3/fira/internal/repository"
	"github.com/yagnesh-3/fira/internal/service"
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWTAuth stores the raw claim value, which may arrive as a float64 (JSON
// number) or a string depending on how the token was minted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id path parameter as an unsigned integer.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// pageParams reads limit/offset query parameters with sane bounds. The
// default page size keeps catalogue responses cacheable without letting a
// client pull the whole table in one request.
func pageParams(c echo.Context) (limit, offset int) {
	limit = 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.Atoi(c.QueryParam("offset")); err == nil && v >= 0 {
		offset = v
	}
	return limit, offset
}

// writeDomainError maps repository and service sentinels onto HTTP
// responses. Unrecognised errors become opaque 500s so internal details
// never leak to clients.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrTicketNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, repository.ErrRefundNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrVenueNotFound),
		errors.Is(err, repository.ErrNotificationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": "event capacity exceeded"})
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrEventNotUpcoming),
		errors.Is(err, service.ErrEventAlreadyCancelled),
		errors.Is(err, service.ErrTicketAlreadyUsed),
		errors.Is(err, service.ErrTicketNotActive),
		errors.Is(err, service.ErrNotRefundable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrVenueUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrSignatureMismatch),
		errors.Is(err, service.ErrInvalidSlot):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, gateway.ErrNotConfigured):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "payment gateway not configured"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
