package ports

import (
	"context"
)

// Feature flag names.
const (
	// FlagMockPurchase allows granting subscriptions without a payment provider.
	FlagMockPurchase = "mock_purchase"
)

// FeatureFlags defines the contract for feature flag evaluation.
// Implementations may read static configuration or a flag service.
type FeatureFlags interface {
	// IsEnabled returns the flag's value, or defaultValue when the flag is unknown.
	IsEnabled(ctx context.Context, flag string, defaultValue bool) bool
}
