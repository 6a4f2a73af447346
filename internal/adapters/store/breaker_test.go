package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// flakyStore fails every call while down is set.
type flakyStore struct {
	*Memory
	down  bool
	calls int
}

func (f *flakyStore) Incr(ctx context.Context, key string) (int64, error) {
	f.calls++
	if f.down {
		return 0, domain.NewUnavailableError("redis", "connection refused")
	}

	return f.Memory.Incr(ctx, key)
}

func (f *flakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	f.calls++
	if f.down {
		return nil, domain.NewUnavailableError("redis", "connection refused")
	}

	return f.Memory.Get(ctx, key)
}

func TestBreaker_OpensOnUnavailable(t *testing.T) {
	cb, now := newTestBreaker(2, 1)
	flaky := &flakyStore{Memory: NewMemory(), down: true}
	b := NewBreaker(flaky, cb)
	ctx := context.Background()

	for range 2 {
		_, err := b.Incr(ctx, "rl:k")
		require.Error(t, err)
	}

	assert.Equal(t, StateOpen, b.State())

	_, err := b.Incr(ctx, "rl:k")
	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, 2, flaky.calls, "open circuit must not reach the store")

	flaky.down = false
	*now = now.Add(2 * time.Second)

	n, err := b.Incr(ctx, "rl:k")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_NotFoundIsSuccess(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)
	b := NewBreaker(&flakyStore{Memory: NewMemory()}, cb)

	for range 3 {
		_, err := b.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, domain.IsNotFound(err))
	}

	assert.Equal(t, StateClosed, b.State())
}

func TestBreaker_WrongTypeKeepsCircuitClosed(t *testing.T) {
	cb, _ := newTestBreaker(2, 1)
	b := NewBreaker(NewMemory(), cb)
	ctx := context.Background()

	require.NoError(t, b.SAdd(ctx, "fav:x", "1"))

	for range 5 {
		_, err := b.Incr(ctx, "fav:x")
		require.ErrorIs(t, err, ErrWrongType)
		assert.False(t, domain.IsUnavailable(err))
	}

	assert.Equal(t, StateClosed, b.State())

	members, err := b.SMembers(ctx, "fav:x")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, members)
}

func TestBreaker_PassesThrough(t *testing.T) {
	cb, _ := newTestBreaker(1, 1)
	b := NewBreaker(NewMemory(), cb)
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, b.SAdd(ctx, "s", "a"))
	require.NoError(t, b.SRem(ctx, "s", "b"))
	members, err := b.SMembers(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, members)

	_, err = b.Incr(ctx, "n")
	require.NoError(t, err)
	require.NoError(t, b.Expire(ctx, "n", time.Minute))
	require.NoError(t, b.Delete(ctx, "s"))
	require.NoError(t, b.Ping(ctx))
	require.NoError(t, b.Close())
}
