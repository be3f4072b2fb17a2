package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/paragraph-titler/internal/config"
	"github.com/iliyamo/paragraph-titler/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/paragraph-titler/internal/middleware" // import middleware for JWT authentication and rate limiting
)

// RegisterRoutes wires every endpoint of the API onto the provided Echo
// instance.  The route surface is the original API contract: top-level
// paths, no version prefix.
//
// Unauthenticated: the liveness probes plus register and login.
// Everything else runs behind JWTAuth, which verifies the bearer token
// and re-checks the user's active flag on each request.  The generation
// endpoints additionally sit behind the Redis token bucket because each
// request costs a model inference; the cheap read/delete endpoints are
// not throttled.
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	rlCfg config.RateLimitConfig,
	rdb *redis.Client,
	health *handler.HealthHandler,
	auth *handler.AuthHandler,
	titles *handler.TitleHandler,
	results *handler.ResultsHandler,
) {
	// Liveness probes for load balancers and monitoring.
	e.GET("/", health.Root)
	e.GET("/health", health.Health)

	// Credential endpoints issue tokens and therefore cannot require one.
	e.POST("/register", auth.Register)
	e.POST("/login", auth.Login)

	// Protected group: every route below requires a valid access token
	// belonging to an active user.
	authed := e.Group("")
	authed.Use(middleware.JWTAuth(cfg.JWTSecret, auth.Users))

	authed.GET("/me", auth.Me)
	authed.GET("/saved-results", results.List)
	authed.DELETE("/saved-results/:id", results.Delete)

	// Generation endpoints carry the inference cost; throttle them.
	gen := authed.Group("")
	gen.Use(middleware.NewTokenBucket(rlCfg, rdb))
	gen.POST("/generate-title", titles.GenerateTitle)
	gen.POST("/generate-titles", titles.GenerateTitles)
}
