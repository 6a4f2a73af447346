package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// ErrWrongType is returned when a command targets a key holding another kind
// of value. It is a caller error and does not mark the store unavailable.
var ErrWrongType = errors.New("key holds the wrong kind of value")

// sweepInterval is how often writes purge expired keys.
const sweepInterval = time.Minute

type entry struct {
	value    []byte
	set      map[string]struct{}
	expireAt time.Time // zero means no TTL
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// Memory is an in-process ports.Store with lazy TTL expiry.
type Memory struct {
	mu        sync.Mutex
	entries   map[string]*entry
	lastSweep time.Time
	now       func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithMemoryClock overrides the time source used for expiry.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates an empty memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]*entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.lastSweep = m.now()

	return m
}

// Get returns the string value at key, or domain.ErrNotFound.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil {
		return nil, domain.NewNotFoundError("key", key)
	}

	if e.set != nil {
		return nil, wrongType("GET", key)
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

// Set stores value at key, overwriting any value, type and TTL.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweep(now)

	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expireAt = now.Add(ttl)
	}

	m.entries[key] = e

	return nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)

	return nil
}

// Incr increments the integer at key, creating it at 1. An existing TTL is kept.
func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(m.now())

	e := m.lookup(key)
	if e == nil {
		m.entries[key] = &entry{value: []byte("1")}
		return 1, nil
	}

	if e.set != nil {
		return 0, wrongType("INCR", key)
	}

	n, err := strconv.ParseInt(string(e.value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("memory INCR %q: %w: value is not an integer", key, ErrWrongType)
	}

	n++
	e.value = strconv.AppendInt(e.value[:0], n, 10)

	return n, nil
}

// Expire sets ttl on key. Missing keys are a no-op.
func (m *Memory) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil {
		return nil
	}

	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}

	e.expireAt = m.now().Add(ttl)

	return nil
}

// SAdd adds member to the set at key.
func (m *Memory) SAdd(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep(m.now())

	e := m.lookup(key)
	if e == nil {
		e = &entry{set: make(map[string]struct{})}
		m.entries[key] = e
	}

	if e.set == nil {
		return wrongType("SADD", key)
	}

	e.set[member] = struct{}{}

	return nil
}

// SRem removes member from the set at key. An emptied set is deleted, as in Redis.
func (m *Memory) SRem(_ context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil {
		return nil
	}

	if e.set == nil {
		return wrongType("SREM", key)
	}

	delete(e.set, member)

	if len(e.set) == 0 {
		delete(m.entries, key)
	}

	return nil
}

// SMembers returns the members of the set at key in no particular order.
func (m *Memory) SMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil {
		return []string{}, nil
	}

	if e.set == nil {
		return nil, wrongType("SMEMBERS", key)
	}

	members := make([]string, 0, len(e.set))
	for member := range e.set {
		members = append(members, member)
	}

	return members, nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

// Close drops all keys.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]*entry)

	return nil
}

// TTL returns the remaining lifetime of key, 0 when it has none, and false when missing.
func (m *Memory) TTL(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.lookup(key)
	if e == nil {
		return 0, false
	}

	if e.expireAt.IsZero() {
		return 0, true
	}

	return e.expireAt.Sub(m.now()), true
}

// lookup returns the live entry at key, dropping it if expired. Caller holds the lock.
func (m *Memory) lookup(key string) *entry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}

	if e.expired(m.now()) {
		delete(m.entries, key)
		return nil
	}

	return e
}

// sweep purges expired keys at most once per sweepInterval. Caller holds the lock.
func (m *Memory) sweep(now time.Time) {
	if now.Sub(m.lastSweep) < sweepInterval {
		return
	}

	for key, e := range m.entries {
		if e.expired(now) {
			delete(m.entries, key)
		}
	}

	m.lastSweep = now
}

func wrongType(cmd, key string) error {
	return fmt.Errorf("memory %s %q: %w", cmd, key, ErrWrongType)
}
