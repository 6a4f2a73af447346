package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// Rate limit scopes. Each scope has its own counters.
const (
	ScopeDaily  = "daily"
	ScopeRandom = "random"
)

// RateWindowTTL outlives the one-minute window so a bucket always expires.
const RateWindowTTL = 65 * time.Second

// DefaultRateLimit is the per-minute budget when none is configured.
const DefaultRateLimit = 60

const windowLayout = "200601021504"

// RateWindowKey returns the counter key for subject's window in scope at t.
func RateWindowKey(scope, subject string, t time.Time) string {
	return "rl:" + scope + ":" + subject + ":" + t.UTC().Format(windowLayout)
}

// RejectionRecorder observes rate limit rejections.
type RejectionRecorder interface {
	RateLimited(scope string)
}

// RateLimiter enforces fixed one-minute windows per scope and subject.
//
// INCR and the first EXPIRE are separate store calls. A crash between them
// leaves a counter without a TTL; approximate limiting tolerates that.
type RateLimiter struct {
	counter      ports.Counter
	defaultLimit int
	limits       map[string]int
	recorder     RejectionRecorder
	now          func() time.Time
	logger       *slog.Logger
}

// RateLimiterConfig contains the rate limiter dependencies.
type RateLimiterConfig struct {
	Counter ports.Counter

	// PerMinute is the budget for scopes without an entry in Scopes.
	PerMinute int
	Scopes    map[string]int

	Recorder RejectionRecorder
	Clock    func() time.Time
	Logger   *slog.Logger
}

// NewRateLimiter creates a rate limiter. Counter is required.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Counter == nil {
		panic("app.NewRateLimiter: Counter is required")
	}

	l := &RateLimiter{
		counter:      cfg.Counter,
		defaultLimit: cfg.PerMinute,
		limits:       make(map[string]int, len(cfg.Scopes)),
		recorder:     cfg.Recorder,
		now:          cfg.Clock,
		logger:       cfg.Logger,
	}

	for scope, limit := range cfg.Scopes {
		l.limits[scope] = limit
	}

	if l.defaultLimit <= 0 {
		l.defaultLimit = DefaultRateLimit
	}

	if l.now == nil {
		l.now = time.Now
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	l.logger = l.logger.With(slog.String("component", "app.RateLimiter"))

	return l
}

// Limit returns the per-minute budget for scope.
func (l *RateLimiter) Limit(scope string) int {
	if limit, ok := l.limits[scope]; ok && limit > 0 {
		return limit
	}

	return l.defaultLimit
}

// Allow counts one request by subject in scope.
// It returns a *domain.RateLimitError once the window's budget is spent,
// and fails closed with domain.ErrUnavailable when the store cannot count.
func (l *RateLimiter) Allow(ctx context.Context, scope, subject string) error {
	now := l.now()
	key := RateWindowKey(scope, subject, now)

	count, err := l.counter.Incr(ctx, key)
	if err != nil {
		return l.storeFailure(ctx, key, err)
	}

	if count == 1 {
		if err := l.counter.Expire(ctx, key, RateWindowTTL); err != nil {
			return l.storeFailure(ctx, key, err)
		}
	}

	limit := l.Limit(scope)
	if count <= int64(limit) {
		return nil
	}

	if l.recorder != nil {
		l.recorder.RateLimited(scope)
	}

	logging.FromContext(ctx).InfoContext(ctx, "rate limit exceeded",
		slog.String("scope", scope),
		slog.Int64("count", count),
		slog.Int("limit", limit),
	)

	return domain.NewRateLimitError(scope, limit, untilNextWindow(now))
}

func (l *RateLimiter) storeFailure(ctx context.Context, key string, err error) error {
	l.logger.WarnContext(ctx, "rate limiter store failure, rejecting request",
		slog.String("key", key),
		slog.Any("error", err),
	)

	if domain.IsUnavailable(err) {
		return fmt.Errorf("counting request: %w", err)
	}

	return fmt.Errorf("counting request: %w: %w", domain.ErrUnavailable, err)
}

// untilNextWindow returns the time left in t's minute.
func untilNextWindow(t time.Time) time.Duration {
	return t.Truncate(time.Minute).Add(time.Minute).Sub(t)
}
