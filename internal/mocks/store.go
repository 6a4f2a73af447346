package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// MockStore is a mock of ports.Store.
type MockStore struct {
	mock.Mock
}

var _ ports.Store = (*MockStore)(nil)

// NewMockStore creates a MockStore bound to t.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)

	val, _ := args.Get(0).([]byte)

	return val, args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockStore) Incr(ctx context.Context, key string) (int64, error) {
	args := m.Called(ctx, key)

	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	return m.Called(ctx, key, ttl).Error(0)
}

func (m *MockStore) SAdd(ctx context.Context, key, member string) error {
	return m.Called(ctx, key, member).Error(0)
}

func (m *MockStore) SRem(ctx context.Context, key, member string) error {
	return m.Called(ctx, key, member).Error(0)
}

func (m *MockStore) SMembers(ctx context.Context, key string) ([]string, error) {
	args := m.Called(ctx, key)

	members, _ := args.Get(0).([]string)

	return members, args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
