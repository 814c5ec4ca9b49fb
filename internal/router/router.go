package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/ematija/restaurant-reservation/internal/config"
    "github.com/ematija/restaurant-reservation/internal/handler"
    "github.com/ematija/restaurant-reservation/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Used by load balancers and monitoring to verify the service is up.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.
// Unauthenticated operations live under /api/auth, while protected
// endpoints live under /api.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/api/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues a new access token without rotating the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout does not require JWT middleware: it accepts either a
    // bearer token (revoke all sessions) or a refresh_token body
    // (revoke one session).
    g.POST("/logout", a.Logout)

    auth := e.Group("/api",
        middleware.JWTAuth(jwtSecret),
        middleware.RequireRole("OWNER", "ADMIN"),
    )
    auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// Responses are served through the Redis response cache; rdb may be
// nil, in which case caching is skipped.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
    cache := middleware.Cache(cacheCfg, rdb)
    e.GET("/api/restaurants", p.GetRestaurants, cache)
    e.GET("/api/restaurants/:id", p.GetRestaurant, cache)
}
