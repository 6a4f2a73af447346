package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default deadline of a /v1 request.
const DefaultRequestTimeout = 5 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	// RequestTimeout bounds each /v1 request. Zero selects DefaultRequestTimeout.
	RequestTimeout time.Duration

	Tokens     middleware.TokenVerifier
	Limiter    middleware.Limiter
	Collectors *telemetry.Collectors

	Health       *handlers.HealthHandler
	Auth         *handlers.AuthHandler
	Quotes       *handlers.QuoteHandler
	Favorites    *handlers.FavoritesHandler
	Users        *handlers.UserHandler
	Subscription *handlers.SubscriptionHandler
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware runs in this order (first to last):
//  1. Context logger, request ID, correlation ID
//  2. OpenTelemetry tracing and metrics
//  3. Prometheus request counter
//  4. Request logging (skips /health, /metrics and /-/)
//  5. Recovery, inside the counter and logger so panics are counted as 500s
//  6. Error rendering for errors attached with c.Error
//
// Route groups:
//   - /health, /metrics, /-/: operational endpoints, no auth, no timeout
//   - /v1/: the public API, bounded by RequestTimeout
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	engine.Use(
		middleware.ContextLogger(logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
	)

	if cfg.Collectors != nil {
		engine.Use(telemetry.RequestCounter(cfg.Collectors))
	}

	engine.Use(
		middleware.Logging("/health", "/metrics"),
		middleware.Recovery(),
		ErrorHandler(),
	)

	engine.NoRoute(func(c *gin.Context) {
		RespondWithError(c, domain.NewNotFoundError("route", c.Request.URL.Path))
	})

	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(engine)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	v1 := engine.Group("/v1", middleware.SimpleTimeout(timeout))
	setupAPIRoutes(v1, cfg)
}

// setupAPIRoutes registers the /v1 routes.
// Auth is mounted per route: the webhook carries a raw secret in Authorization,
// and random quotes ignore the caller.
func setupAPIRoutes(v1 *gin.RouterGroup, cfg RouterConfig) {
	optionalAuth := middleware.OptionalAuth(cfg.Tokens)
	requireAuth := middleware.RequireAuth()

	v1.POST("/auth/login", cfg.Auth.Login)

	quotes := v1.Group("/quotes")
	quotes.GET("/daily", optionalAuth, middleware.RateLimit(cfg.Limiter, app.ScopeDaily), cfg.Quotes.Daily)
	quotes.GET("/random", middleware.RateLimit(cfg.Limiter, app.ScopeRandom), cfg.Quotes.Random)

	favorites := v1.Group("/favorites", optionalAuth, requireAuth)
	favorites.GET("", cfg.Favorites.List)
	favorites.GET("/", cfg.Favorites.List)
	favorites.POST("/:quoteId", cfg.Favorites.Add)
	favorites.DELETE("/:quoteId", cfg.Favorites.Remove)

	v1.DELETE("/users/me", optionalAuth, requireAuth, cfg.Users.DeleteMe)

	subscription := v1.Group("/subscription")
	subscription.POST("/webhook", cfg.Subscription.Webhook)
	subscription.GET("/validate", optionalAuth, cfg.Subscription.Validate)
	// No RequireAuth: a disabled mock answers 403 before identity is checked.
	subscription.POST("/mock_purchase", optionalAuth, cfg.Subscription.MockPurchase)
}
