package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/mocks"
)

func TestAuthService_Login(t *testing.T) {
	tokens := mocks.NewMockTokenService(t)
	tokens.On("Issue", "dev123").Return("signed-token", nil)

	svc := NewAuthService(tokens, discardLogger())

	token, err := svc.Login(context.Background(), "dev123")
	require.NoError(t, err)
	assert.Equal(t, "signed-token", token)
}

func TestAuthService_Login_Errors(t *testing.T) {
	t.Run("blank device id", func(t *testing.T) {
		svc := NewAuthService(mocks.NewMockTokenService(t), discardLogger())

		for _, id := range []string{"", "   "} {
			_, err := svc.Login(context.Background(), id)
			assert.True(t, domain.IsValidation(err))
		}
	})

	t.Run("signing failure", func(t *testing.T) {
		tokens := mocks.NewMockTokenService(t)
		tokens.On("Issue", "dev123").Return("", errors.New("boom"))

		_, err := NewAuthService(tokens, discardLogger()).Login(context.Background(), "dev123")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issuing token")
	})
}

func TestAuthService_Identify(t *testing.T) {
	tokens := mocks.NewMockTokenService(t)
	tokens.On("Verify", "good").Return("dev123", nil)
	tokens.On("Verify", "bad").Return("", domain.ErrUnauthorized)

	svc := NewAuthService(tokens, nil)

	identity, err := svc.Identify("good")
	require.NoError(t, err)
	assert.Equal(t, "dev123", identity)

	_, err = svc.Identify("bad")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestNewAuthService_PanicsWithoutTokens(t *testing.T) {
	assert.Panics(t, func() { NewAuthService(nil, nil) })
}
