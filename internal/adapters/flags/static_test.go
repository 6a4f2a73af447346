package flags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

func TestStatic_IsEnabled(t *testing.T) {
	values := map[string]bool{ports.FlagMockPurchase: false}
	f := NewStatic(values)
	ctx := context.Background()

	assert.False(t, f.IsEnabled(ctx, ports.FlagMockPurchase, true))
	assert.True(t, f.IsEnabled(ctx, "unknown", true))
	assert.False(t, f.IsEnabled(ctx, "unknown", false))

	values[ports.FlagMockPurchase] = true
	assert.False(t, f.IsEnabled(ctx, ports.FlagMockPurchase, true), "constructor copies its input")

	f.Set(ports.FlagMockPurchase, true)
	assert.True(t, f.IsEnabled(ctx, ports.FlagMockPurchase, false))
}

var _ ports.FeatureFlags = (*Static)(nil)
