package store

import (
	"context"

	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// HealthChecker reports store connectivity to the health registry.
type HealthChecker struct {
	store ports.Store
}

// NewHealthChecker creates a checker that pings s.
func NewHealthChecker(s ports.Store) *HealthChecker {
	return &HealthChecker{store: s}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "store"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	return h.store.Ping(ctx)
}
