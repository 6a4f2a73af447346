package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// DefaultOpTimeout bounds a single Redis command when none is configured.
const DefaultOpTimeout = 500 * time.Millisecond

// RedisConfig configures the Redis store.
type RedisConfig struct {
	URL         string
	DialTimeout time.Duration
	OpTimeout   time.Duration
}

// Redis implements ports.Store on a go-redis client.
type Redis struct {
	client    *redis.Client
	opTimeout time.Duration
}

// NewRedis connects lazily to the server at cfg.URL.
// The URL is parsed eagerly so a bad value fails startup.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	return NewRedisFromClient(redis.NewClient(opts), cfg.OpTimeout), nil
}

// NewRedisFromClient wraps an existing client. The store owns it and closes it on Close.
func NewRedisFromClient(client *redis.Client, opTimeout time.Duration) *Redis {
	if opTimeout <= 0 {
		opTimeout = DefaultOpTimeout
	}

	return &Redis{client: client, opTimeout: opTimeout}
}

// Get returns the value at key, or domain.ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.NewNotFoundError("key", key)
	}

	if err != nil {
		return nil, commandError("GET", err)
	}

	return val, nil
}

// Set stores value at key with ttl. A zero ttl keeps the key forever.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return commandError("SET", err)
	}

	return nil
}

// Delete removes key of any type.
func (r *Redis) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Del(ctx, key).Err(); err != nil {
		return commandError("DEL", err)
	}

	return nil
}

// Incr increments the integer at key.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, commandError("INCR", err)
	}

	return n, nil
}

// Expire sets ttl on key.
func (r *Redis) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Expire(ctx, key, ttl).Err(); err != nil {
		return commandError("EXPIRE", err)
	}

	return nil
}

// SAdd adds member to the set at key.
func (r *Redis) SAdd(ctx context.Context, key, member string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.SAdd(ctx, key, member).Err(); err != nil {
		return commandError("SADD", err)
	}

	return nil
}

// SRem removes member from the set at key.
func (r *Redis) SRem(ctx context.Context, key, member string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.SRem(ctx, key, member).Err(); err != nil {
		return commandError("SREM", err)
	}

	return nil
}

// SMembers returns the members of the set at key.
func (r *Redis) SMembers(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, commandError("SMEMBERS", err)
	}

	return members, nil
}

// Ping checks the connection.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		return commandError("PING", err)
	}

	return nil
}

// Close closes the underlying client.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

func commandError(cmd string, err error) error {
	if msg := err.Error(); strings.HasPrefix(msg, "WRONGTYPE") || strings.HasPrefix(msg, "ERR value is not an integer") {
		return fmt.Errorf("redis %s: %w: %w", cmd, ErrWrongType, err)
	}

	return fmt.Errorf("redis %s: %w: %w", cmd, domain.ErrUnavailable, err)
}
