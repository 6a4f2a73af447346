// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/catalog"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/flags"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/handlers"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/store"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/token"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/config"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/telemetry"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store_driver", cfg.Store.Driver),
		slog.Bool("mock_mode", cfg.Subscription.MockMode),
	)

	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	quotes, err := catalog.LoadFile(cfg.Quotes.File)
	if err != nil {
		return fmt.Errorf("loading quotes: %w", err)
	}

	logger.Info("quote catalog loaded",
		slog.String("file", cfg.Quotes.File),
		slog.Int("quotes", quotes.Len()),
	)

	sharedStore, err := newStore(&cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	defer func() {
		if closeErr := sharedStore.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store.NewHealthChecker(sharedStore)); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	tokens, err := token.NewService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	collectors := telemetry.NewCollectors(prometheus.DefaultRegisterer)

	favorites := app.NewFavoritesService(sharedStore, quotes)

	authService := app.NewAuthService(tokens, logger)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Selector: app.NewSelector(quotes),
		Cache:    sharedStore,
		DailyTTL: cfg.Cache.DailyTTL,
		Logger:   logger,
	})
	subscriptionService := app.NewSubscriptionService(app.SubscriptionServiceConfig{
		Cache:         sharedStore,
		Flags:         flags.NewStatic(map[string]bool{ports.FlagMockPurchase: cfg.Subscription.MockMode}),
		WebhookSecret: cfg.Subscription.WebhookSecret,
		TTL:           cfg.Subscription.TTL,
		Logger:        logger,
	})
	limiter := app.NewRateLimiter(app.RateLimiterConfig{
		Counter:   sharedStore,
		PerMinute: cfg.RateLimit.PerMinute,
		Scopes:    cfg.RateLimit.Scopes,
		Recorder:  collectors,
		Logger:    logger,
	})

	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)

	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:         logger,
		ServiceName:    cfg.Telemetry.ServiceName,
		RequestTimeout: cfg.Server.RequestTimeout,
		Tokens:         tokens,
		Limiter:        limiter,
		Collectors:     collectors,
		Health:         handlers.NewHealthHandler(healthRegistry, buildInfo, prometheus.DefaultGatherer),
		Auth:           handlers.NewAuthHandler(authService),
		Quotes:         handlers.NewQuoteHandler(quoteService),
		Favorites:      handlers.NewFavoritesHandler(favorites),
		Users:          handlers.NewUserHandler(app.NewAccountService(favorites, logger)),
		Subscription:   handlers.NewSubscriptionHandler(subscriptionService),
	})

	serverErr, err := server.Start()
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// newStore builds the configured store, behind a circuit breaker when enabled.
func newStore(cfg *config.StoreConfig, logger *slog.Logger) (ports.Store, error) {
	var backend ports.Store

	switch cfg.Driver {
	case config.StoreDriverRedis:
		redisStore, err := store.NewRedis(store.RedisConfig{
			URL:         cfg.RedisURL,
			DialTimeout: cfg.DialTimeout,
			OpTimeout:   cfg.OpTimeout,
		})
		if err != nil {
			return nil, err
		}

		backend = redisStore
	default:
		logger.Warn("using in-memory store; state is not shared between replicas")

		backend = store.NewMemory()
	}

	if !cfg.CircuitBreaker.Enabled {
		return backend, nil
	}

	cb := store.NewCircuitBreaker(store.CircuitConfig{
		MaxFailures:   cfg.CircuitBreaker.MaxFailures,
		Timeout:       cfg.CircuitBreaker.Timeout,
		HalfOpenLimit: cfg.CircuitBreaker.HalfOpenLimit,
	})
	cb.OnStateChange(func(from, to store.State) {
		logger.Warn("store circuit state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	})

	return store.NewBreaker(backend, cb), nil
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
