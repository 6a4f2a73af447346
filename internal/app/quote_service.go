package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// DefaultDailyTTL is how long a computed daily quote stays cached.
const DefaultDailyTTL = 23 * time.Hour

// DailyCacheKey returns the cache key for identity's quote on day's UTC date.
// dateKey is a client-supplied discriminator and may be empty.
func DailyCacheKey(identity string, day time.Time, dateKey string) string {
	if identity == "" {
		identity = "anon"
	}

	return "daily:" + identity + ":" + day.UTC().Format(time.DateOnly) + ":" + dateKey
}

// cachedQuote is the wire form of a quote in the daily cache.
type cachedQuote struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Author    string `json:"author"`
	Category  string `json:"category"`
	IsPremium bool   `json:"is_premium"`
}

// QuoteService serves daily and random quotes.
type QuoteService struct {
	selector *Selector
	cache    ports.Cache
	dailyTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

// QuoteServiceConfig contains the quote service dependencies.
type QuoteServiceConfig struct {
	Selector *Selector
	Cache    ports.Cache
	DailyTTL time.Duration
	Clock    func() time.Time
	Logger   *slog.Logger
}

// NewQuoteService creates a quote service. Selector and Cache are required.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Selector == nil {
		panic("app.NewQuoteService: Selector is required")
	}

	if cfg.Cache == nil {
		panic("app.NewQuoteService: Cache is required")
	}

	svc := &QuoteService{
		selector: cfg.Selector,
		cache:    cfg.Cache,
		dailyTTL: cfg.DailyTTL,
		now:      cfg.Clock,
		logger:   cfg.Logger,
	}

	if svc.dailyTTL <= 0 {
		svc.dailyTTL = DefaultDailyTTL
	}

	if svc.now == nil {
		svc.now = time.Now
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	svc.logger = svc.logger.With(slog.String("component", "app.QuoteService"))

	return svc
}

// DailyQuote returns identity's quote of the day, served from cache when possible.
// Cache failures are logged and the quote is recomputed.
func (s *QuoteService) DailyQuote(ctx context.Context, identity, dateKey string) (domain.Quote, error) {
	logger := logging.FromContext(ctx)
	now := s.now()
	key := DailyCacheKey(identity, now, dateKey)

	if q, ok := s.cachedDaily(ctx, logger, key); ok {
		return q, nil
	}

	if err := ctx.Err(); err != nil {
		return domain.Quote{}, fmt.Errorf("computing daily quote: %w", err)
	}

	q := s.selector.Daily(now, identity)

	data, err := json.Marshal(cachedQuote(q))
	if err == nil {
		err = s.cache.Set(ctx, key, data, s.dailyTTL)
	}

	if err != nil {
		logger.WarnContext(ctx, "daily quote cache write failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}

	return q, nil
}

func (s *QuoteService) cachedDaily(ctx context.Context, logger *slog.Logger, key string) (domain.Quote, bool) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !domain.IsNotFound(err) {
			logger.WarnContext(ctx, "daily quote cache read failed",
				slog.String("key", key),
				slog.Any("error", err),
			)
		}

		return domain.Quote{}, false
	}

	var cached cachedQuote
	if err := json.Unmarshal(data, &cached); err != nil {
		logger.WarnContext(ctx, "discarding undecodable daily quote cache entry",
			slog.String("key", key),
			slog.Any("error", err),
		)

		return domain.Quote{}, false
	}

	logger.Log(ctx, logging.LevelTrace, "daily quote cache hit", slog.String("key", key))

	return domain.Quote(cached), true
}

// RandomQuote returns a random quote, excluding premium quotes unless premium is set.
func (s *QuoteService) RandomQuote(ctx context.Context, premium bool) (domain.Quote, error) {
	q, err := s.selector.Random(premium)
	if err != nil {
		s.logger.ErrorContext(ctx, "no quote eligible for random selection",
			slog.Bool("premium", premium),
			slog.Any("error", err),
		)

		return domain.Quote{}, err
	}

	return q, nil
}
