package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// Breaker guards a ports.Store with a circuit breaker.
// Only infrastructure failures count against the circuit; a missing key is a success.
type Breaker struct {
	next ports.Store
	cb   *CircuitBreaker
}

// NewBreaker wraps next with cb.
func NewBreaker(next ports.Store, cb *CircuitBreaker) *Breaker {
	return &Breaker{next: next, cb: cb}
}

// Get implements ports.Cache.
func (b *Breaker) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte

	err := b.do(func() error {
		var err error
		val, err = b.next.Get(ctx, key)

		return err
	})

	return val, err
}

// Set implements ports.Cache.
func (b *Breaker) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.do(func() error { return b.next.Set(ctx, key, value, ttl) })
}

// Delete implements ports.Cache.
func (b *Breaker) Delete(ctx context.Context, key string) error {
	return b.do(func() error { return b.next.Delete(ctx, key) })
}

// Incr implements ports.Counter.
func (b *Breaker) Incr(ctx context.Context, key string) (int64, error) {
	var n int64

	err := b.do(func() error {
		var err error
		n, err = b.next.Incr(ctx, key)

		return err
	})

	return n, err
}

// Expire implements ports.Counter.
func (b *Breaker) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return b.do(func() error { return b.next.Expire(ctx, key, ttl) })
}

// SAdd implements ports.SetStore.
func (b *Breaker) SAdd(ctx context.Context, key, member string) error {
	return b.do(func() error { return b.next.SAdd(ctx, key, member) })
}

// SRem implements ports.SetStore.
func (b *Breaker) SRem(ctx context.Context, key, member string) error {
	return b.do(func() error { return b.next.SRem(ctx, key, member) })
}

// SMembers implements ports.SetStore.
func (b *Breaker) SMembers(ctx context.Context, key string) ([]string, error) {
	var members []string

	err := b.do(func() error {
		var err error
		members, err = b.next.SMembers(ctx, key)

		return err
	})

	return members, err
}

// Ping bypasses the circuit so readiness reflects the real backend.
func (b *Breaker) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

// Close closes the wrapped store.
func (b *Breaker) Close() error {
	return b.next.Close()
}

// State returns the circuit state.
func (b *Breaker) State() State {
	return b.cb.State()
}

func (b *Breaker) do(fn func() error) error {
	if !b.cb.Allow() {
		return fmt.Errorf("store: %w: %w", domain.ErrUnavailable, ErrCircuitOpen)
	}

	err := fn()
	if err != nil && domain.IsUnavailable(err) {
		b.cb.RecordFailure()
		return err
	}

	b.cb.RecordSuccess()

	return err
}
