package app

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// DefaultSubscriptionTTL is how long a purchased subscription lasts.
const DefaultSubscriptionTTL = 30 * 24 * time.Hour

// SubscriptionKey returns the key whose presence marks identity as subscribed.
func SubscriptionKey(identity string) string {
	return "sub:" + identity
}

// SubscriptionService tracks subscription state.
type SubscriptionService struct {
	cache         ports.Cache
	flags         ports.FeatureFlags
	webhookSecret string
	ttl           time.Duration
	logger        *slog.Logger
}

// SubscriptionServiceConfig contains the subscription service dependencies.
type SubscriptionServiceConfig struct {
	Cache         ports.Cache
	Flags         ports.FeatureFlags
	WebhookSecret string
	TTL           time.Duration
	Logger        *slog.Logger
}

// NewSubscriptionService creates a subscription service. Cache and Flags are required.
func NewSubscriptionService(cfg SubscriptionServiceConfig) *SubscriptionService {
	if cfg.Cache == nil || cfg.Flags == nil {
		panic("app.NewSubscriptionService: Cache and Flags are required")
	}

	svc := &SubscriptionService{
		cache:         cfg.Cache,
		flags:         cfg.Flags,
		webhookSecret: cfg.WebhookSecret,
		ttl:           cfg.TTL,
		logger:        cfg.Logger,
	}

	if svc.ttl <= 0 {
		svc.ttl = DefaultSubscriptionTTL
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	svc.logger = svc.logger.With(slog.String("component", "app.SubscriptionService"))

	return svc
}

// VerifyWebhook checks the shared secret presented by the payment provider.
func (s *SubscriptionService) VerifyWebhook(presented string) error {
	if presented == "" || s.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(s.webhookSecret)) != 1 {
		return fmt.Errorf("%w: webhook secret mismatch", domain.ErrUnauthorized)
	}

	return nil
}

// Validate reports identity's subscription. Anonymous callers are never subscribed.
func (s *SubscriptionService) Validate(ctx context.Context, identity string) (domain.Subscription, error) {
	if identity == "" {
		return domain.Subscription{}, nil
	}

	_, err := s.cache.Get(ctx, SubscriptionKey(identity))
	if domain.IsNotFound(err) {
		return domain.Subscription{}, nil
	}

	if err != nil {
		return domain.Subscription{}, fmt.Errorf("reading subscription: %w", err)
	}

	return domain.ActiveSubscription(), nil
}

// MockPurchase grants identity a subscription without a payment provider.
// Mock mode is checked before identity, so a disabled mock is Forbidden even for anonymous callers.
func (s *SubscriptionService) MockPurchase(ctx context.Context, identity string) (domain.Subscription, error) {
	if !s.flags.IsEnabled(ctx, ports.FlagMockPurchase, false) {
		return domain.Subscription{}, domain.NewForbiddenError("mock_purchase", "mock mode disabled")
	}

	if identity == "" {
		return domain.Subscription{}, domain.ErrUnauthorized
	}

	if err := s.cache.Set(ctx, SubscriptionKey(identity), []byte("1"), s.ttl); err != nil {
		return domain.Subscription{}, fmt.Errorf("storing subscription: %w", err)
	}

	s.logger.InfoContext(ctx, "mock subscription granted", slog.Duration("ttl", s.ttl))

	return domain.ActiveSubscription(), nil
}
