package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// MockTokenService is a mock of ports.TokenService.
type MockTokenService struct {
	mock.Mock
}

var _ ports.TokenService = (*MockTokenService)(nil)

// NewMockTokenService creates a MockTokenService bound to t.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Issue(identity string) (string, error) {
	args := m.Called(identity)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Verify(token string) (string, error) {
	args := m.Called(token)

	return args.String(0), args.Error(1)
}
