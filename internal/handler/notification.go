package handler // handler package contains in-app notification handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yagnesh-3/fira/internal/repository"
)

// NotificationHandler serves the in-app notification inbox. It works
// directly against the repository; writes happen inside the services when
// marketplace events fire.
type NotificationHandler struct {
	NotificationRepo *repository.NotificationRepo
}

// NewNotificationHandler constructs a NotificationHandler and panics on a nil repository.
func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	if repo == nil {
		panic("nil repository passed to NewNotificationHandler")
	}
	return &NotificationHandler{NotificationRepo: repo}
}

// List handles GET /v1/notifications. ?unread=true restricts the page to
// unread entries.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	limit, offset := pageParams(c)
	unreadOnly := c.QueryParam("unread") == "true"
	items, err := h.NotificationRepo.ListByUser(c.Request().Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": items})
}

// UnreadCount handles GET /v1/notifications/unread-count, backing the
// badge in client UIs.
func (h *NotificationHandler) UnreadCount(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.NotificationRepo.CountUnread(c.Request().Context(), userID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"unread": n})
}

// MarkRead handles PATCH /v1/notifications/:id/read. Marking an
// already-read notification is a no-op; marking someone else's is 403.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.NotificationRepo.MarkRead(c.Request().Context(), id, userID, time.Now().UTC()); err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "read"})
}

// MarkAllRead handles POST /v1/notifications/read-all and reports how many
// entries were affected.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	n, err := h.NotificationRepo.MarkAllRead(c.Request().Context(), userID, time.Now().UTC())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"marked": n})
}
