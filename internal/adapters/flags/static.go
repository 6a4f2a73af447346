// Package flags provides feature flags backed by static configuration.
package flags

import (
	"context"
	"maps"
	"sync"
)

// Static serves flag values fixed at construction, overridable at runtime by Set.
type Static struct {
	mu    sync.RWMutex
	flags map[string]bool
}

// NewStatic creates a flag set from values.
func NewStatic(values map[string]bool) *Static {
	flags := make(map[string]bool, len(values))
	maps.Copy(flags, values)

	return &Static{flags: flags}
}

// IsEnabled implements ports.FeatureFlags.
func (s *Static) IsEnabled(_ context.Context, flag string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.flags[flag]; ok {
		return v
	}

	return defaultValue
}

// Set changes a flag value.
func (s *Static) Set(flag string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flags[flag] = enabled
}
