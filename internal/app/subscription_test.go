package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/flags"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/store"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/mocks"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

func newSubscriptionServiceForTest(cache ports.Cache, mockMode bool) *SubscriptionService {
	return NewSubscriptionService(SubscriptionServiceConfig{
		Cache:         cache,
		Flags:         flags.NewStatic(map[string]bool{ports.FlagMockPurchase: mockMode}),
		WebhookSecret: "mock_secret",
		Logger:        discardLogger(),
	})
}

func TestSubscriptionService_VerifyWebhook(t *testing.T) {
	svc := newSubscriptionServiceForTest(store.NewMemory(), true)

	tests := []struct {
		name      string
		presented string
		wantErr   bool
	}{
		{"matching secret", "mock_secret", false},
		{"wrong secret", "nope", true},
		{"prefix of secret", "mock_", true},
		{"bearer prefixed", "Bearer mock_secret", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.VerifyWebhook(tt.presented)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrUnauthorized)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSubscriptionService_MockPurchaseThenValidate(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	mem := store.NewMemory(store.WithMemoryClock(func() time.Time { return now }))
	svc := newSubscriptionServiceForTest(mem, true)
	ctx := context.Background()

	sub, err := svc.Validate(ctx, "dev_sub")
	require.NoError(t, err)
	assert.Equal(t, domain.Subscription{}, sub)

	sub, err = svc.MockPurchase(ctx, "dev_sub")
	require.NoError(t, err)
	assert.Equal(t, domain.Subscription{Active: true, Plan: domain.PlanPro}, sub)

	sub, err = svc.Validate(ctx, "dev_sub")
	require.NoError(t, err)
	assert.Equal(t, domain.Subscription{Active: true, Plan: "pro"}, sub)

	ttl, ok := mem.TTL(SubscriptionKey("dev_sub"))
	require.True(t, ok)
	assert.Equal(t, DefaultSubscriptionTTL, ttl)

	now = now.Add(DefaultSubscriptionTTL)

	sub, err = svc.Validate(ctx, "dev_sub")
	require.NoError(t, err)
	assert.False(t, sub.Active, "subscription lapses after 30 days")
}

func TestSubscriptionService_MockPurchaseOverwrites(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	mem := store.NewMemory(store.WithMemoryClock(func() time.Time { return now }))
	svc := newSubscriptionServiceForTest(mem, true)
	ctx := context.Background()

	_, err := svc.MockPurchase(ctx, "dev_sub")
	require.NoError(t, err)

	now = now.Add(10 * 24 * time.Hour)

	_, err = svc.MockPurchase(ctx, "dev_sub")
	require.NoError(t, err)

	ttl, _ := mem.TTL(SubscriptionKey("dev_sub"))
	assert.Equal(t, DefaultSubscriptionTTL, ttl)
}

func TestSubscriptionService_Validate_Anonymous(t *testing.T) {
	m := mocks.NewMockStore(t)
	svc := newSubscriptionServiceForTest(m, true)

	sub, err := svc.Validate(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, domain.Subscription{}, sub)
	m.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSubscriptionService_MockPurchase_Gates(t *testing.T) {
	tests := []struct {
		name     string
		mockMode bool
		identity string
		check    func(error) bool
	}{
		{"mock disabled", false, "dev_sub", domain.IsForbidden},
		{"mock disabled wins over missing identity", false, "", domain.IsForbidden},
		{"missing identity", true, "", domain.IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newSubscriptionServiceForTest(mocks.NewMockStore(t), tt.mockMode)

			_, err := svc.MockPurchase(context.Background(), tt.identity)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
}

func TestSubscriptionService_StoreUnavailable(t *testing.T) {
	down := domain.NewUnavailableError("redis", "down")

	m := mocks.NewMockStore(t)
	m.On("Get", mock.Anything, "sub:dev_sub").Return(nil, down)
	m.On("Set", mock.Anything, "sub:dev_sub", []byte("1"), DefaultSubscriptionTTL).Return(down)

	svc := newSubscriptionServiceForTest(m, true)
	ctx := context.Background()

	_, err := svc.Validate(ctx, "dev_sub")
	assert.True(t, domain.IsUnavailable(err))

	_, err = svc.MockPurchase(ctx, "dev_sub")
	assert.True(t, domain.IsUnavailable(err))
}
