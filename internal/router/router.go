package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/yagnesh-3/fira/internal/config"
	"github.com/yagnesh-3/fira/internal/handler"
	"github.com/yagnesh-3/fira/internal/middleware"
)

// Handlers collects every handler the router wires up. Grouping them in a
// struct keeps the registration signature stable as endpoints are added.
type Handlers struct {
	Venues        *handler.VenueHandler
	Events        *handler.EventHandler
	Tickets       *handler.TicketHandler
	Payments      *handler.PaymentHandler
	Bookings      *handler.BookingHandler
	Notifications *handler.NotificationHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance. The public catalogue sits behind the Redis
// response cache; when rdb is nil the cache middleware is a pass-through.
func RegisterRoutes(e *echo.Echo, h Handlers, rdb *redis.Client) {
	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Public browse endpoints: anyone can discover events and venues
	// without a session. These are the hottest read paths, so cached
	// responses are served straight from Redis.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.GET("/v1/events", h.Events.ListEvents, cache)
	e.GET("/v1/events/:id", h.Events.GetEvent, cache)
	e.GET("/v1/venues", h.Venues.ListVenues, cache)
	e.GET("/v1/venues/:id", h.Venues.GetVenue, cache)
}

// RegisterProtected registers all authenticated routes under /v1. JWTAuth
// validates the bearer token and injects user_id and role; per-group
// RequireRole narrows each surface to the marketplace side it belongs to.
func RegisterProtected(e *echo.Echo, h Handlers, jwtSecret string) {
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Customer side: buying, holding and cancelling tickets.
	customer := auth.Group("", middleware.RequireRole(middleware.RoleCustomer))
	customer.POST("/tickets", h.Tickets.Purchase)
	customer.GET("/tickets", h.Tickets.ListMine)
	customer.POST("/tickets/:id/cancel", h.Tickets.Cancel)

	// Organizer side: running events, validating tickets at the door and
	// booking venues for upcoming events.
	organizer := auth.Group("", middleware.RequireRole(middleware.RoleOrganizer))
	organizer.POST("/events", h.Events.CreateEvent)
	organizer.POST("/events/:id/cancel", h.Events.CancelEvent)
	organizer.POST("/tickets/:id/validate", h.Tickets.Validate)
	organizer.POST("/bookings", h.Bookings.Request)
	organizer.GET("/bookings", h.Bookings.ListMine)
	organizer.POST("/bookings/:id/cancel", h.Bookings.Cancel)

	// Venue owner side: listing venues and moderating booking requests.
	owner := auth.Group("", middleware.RequireRole(middleware.RoleOwner))
	owner.POST("/venues", h.Venues.CreateVenue)
	owner.GET("/venues/:id/bookings", h.Venues.ListVenueBookings)
	owner.POST("/bookings/:id/accept", h.Bookings.Accept)
	owner.POST("/bookings/:id/reject", h.Bookings.Reject)
	owner.POST("/bookings/:id/complete", h.Bookings.Complete)

	// Payments and notifications are per-user, not per-role: any
	// authenticated side can hold a payment or receive a notification.
	anyRole := auth.Group("", middleware.RequireRole(
		middleware.RoleCustomer, middleware.RoleOrganizer, middleware.RoleOwner))
	anyRole.GET("/payments/:id", h.Payments.Get)
	anyRole.POST("/payments/:id/verify", h.Payments.Verify)
	anyRole.POST("/payments/:id/refund", h.Payments.RequestRefund)
	anyRole.GET("/payments/:id/refunds", h.Payments.ListRefunds)
	anyRole.GET("/notifications", h.Notifications.List)
	anyRole.GET("/notifications/unread-count", h.Notifications.UnreadCount)
	anyRole.PATCH("/notifications/:id/read", h.Notifications.MarkRead)
	anyRole.POST("/notifications/read-all", h.Notifications.MarkAllRead)
}
