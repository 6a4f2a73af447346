// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"time"
)

// Cache defines the contract for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value, overwriting any previous value and TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key of any kind.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}

// Counter defines atomic per-key counters used for fixed-window rate limiting.
type Counter interface {
	// Incr atomically increments the counter at key and returns the new value.
	// A missing key starts at zero.
	Incr(ctx context.Context, key string) (int64, error)

	// Expire sets a TTL on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// SetStore defines unordered string sets keyed by name.
type SetStore interface {
	// SAdd adds member to the set at key, creating it when missing.
	SAdd(ctx context.Context, key, member string) error

	// SRem removes member from the set at key. Missing members are a no-op.
	SRem(ctx context.Context, key, member string) error

	// SMembers returns all members of the set at key, empty when missing.
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Store is the shared, TTL-capable key/value store every replica talks to.
// Implementations provide per-operation atomicity; nothing spans operations.
//
// Store errors are infrastructure failures and should wrap domain.ErrUnavailable,
// except Get on a missing key, which returns domain.ErrNotFound.
type Store interface {
	Cache
	Counter
	SetStore

	// Ping checks connectivity to the store.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}
