package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/handler"
    "github.com/ematija/restaurant-reservation/internal/middleware"
)

// RegisterAdmin registers the moderation endpoints under /api/admin.
// All routes require a valid JWT and ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
    g := e.Group(
        "/api/admin",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("ADMIN"),
    )
    g.PATCH("/restaurants/:id/status", a.UpdateRestaurantStatus)
}
