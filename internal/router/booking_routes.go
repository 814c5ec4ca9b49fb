package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/ematija/restaurant-reservation/internal/config"
    "github.com/ematija/restaurant-reservation/internal/handler"
    "github.com/ematija/restaurant-reservation/internal/middleware"
)

// RegisterBookings registers the booking lifecycle routes: the public
// submission endpoint, the email-link pages and the OWNER-scoped staff
// endpoints.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
    // Public booking submission, rate limited per client IP so a
    // script cannot flood a restaurant's book.
    e.POST("/api/bookings", b.Create, middleware.RateLimit(rlCfg, rdb))

    // Link-driven pages; authenticated by token (and signature), not
    // by session, because they are opened from emails.
    e.GET("/api/bookings/cancel/:cancelToken", b.CancelPage)
    e.GET("/api/bookings/action/:cancelToken/:action", b.ActionPage)

    // Staff endpoints.
    g := e.Group(
        "/api/bookings",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER"),
    )
    g.POST("/owner", b.OwnerCreate)
    g.GET("/restaurant/:id", b.ListByRestaurant)
    g.PATCH("/:id/status", b.UpdateStatus)

    // Service-desk fields, independent of the status machine.
    g.PATCH("/:id/arrival", b.MarkArrival)
    g.PATCH("/:id/bill-requested", b.MarkBillRequested)
    g.PATCH("/:id/departure", b.MarkDeparture)
    g.PATCH("/:id/table", b.AssignTable)
}
