package router // router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/ematija/restaurant-reservation/internal/handler"
    "github.com/ematija/restaurant-reservation/internal/middleware"
)

// RegisterOwner registers OWNER-scoped restaurant management endpoints
// under /api.  All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, r *handler.RestaurantHandler, jwtSecret string) {
    g := e.Group(
        "/api",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER"),
    )

    // ---- Restaurants ----
    g.POST("/restaurants", r.Create)
    // NOTE: GET /api/restaurants is the public browse; the owner's own
    // listings live under /restaurants/mine to avoid a route conflict.
    g.GET("/restaurants/mine", r.ListMine)
    g.PUT("/restaurants/:id", r.Update)
    g.DELETE("/restaurants/:id", r.Delete)

    // ---- Closed dates ----
    g.GET("/restaurants/:id/closed-dates", r.ListClosedDates)
    g.POST("/restaurants/:id/closed-dates", r.AddClosedDate)
    g.DELETE("/restaurants/:id/closed-dates/:dateId", r.RemoveClosedDate)

    // ---- Floor plan ----
    g.GET("/restaurants/:id/zones", r.ListZones)
    g.POST("/restaurants/:id/zones", r.CreateZone)
    g.DELETE("/restaurants/:id/zones/:zoneId", r.DeleteZone)
    g.GET("/restaurants/:id/tables", r.ListTables)
    g.POST("/restaurants/:id/tables", r.CreateTable)
    g.DELETE("/restaurants/:id/tables/:tableId", r.DeleteTable)
}
