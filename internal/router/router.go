package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/workspace-reservation/internal/config"
	"github.com/iliyamo/workspace-reservation/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/workspace-reservation/internal/middleware" // import middleware for JWT authentication, rate limiting and caching
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check,
// which load balancers and monitoring systems use to verify the service
// is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity routes and the authenticated /v1
// group. Unauthenticated operations live under /v1/auth; everything on
// the returned group runs the JWTAuth middleware first.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) *echo.Group {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	return auth
}

// RegisterWorkspaces registers the unauthenticated browse endpoints.
// These are the read-heavy surface of the API, so they carry the Redis
// response cache and the token-bucket rate limiter when a Redis client
// is available.
func RegisterWorkspaces(e *echo.Echo, w *handler.WorkspaceHandler, rdb *redis.Client) {
	var mws []echo.MiddlewareFunc
	if rdb != nil {
		mws = append(mws,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
			middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		)
	}
	e.GET("/v1/workspaces", w.List, mws...)
	e.GET("/v1/workspaces/:id", w.Get, mws...)
}

// RegisterBookings registers the booking lifecycle routes on the
// authenticated group produced by RegisterAuth.
func RegisterBookings(auth *echo.Group, b *handler.BookingHandler) {
	auth.POST("/bookings", b.Create)
	auth.GET("/bookings/:id", b.Get)
	auth.PATCH("/bookings/:id", b.Edit)
	auth.DELETE("/bookings/:id", b.Cancel)
	auth.GET("/my-bookings", b.MyBookings)
}
