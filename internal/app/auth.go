package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// AuthService handles passwordless device login.
type AuthService struct {
	tokens ports.TokenService
	logger *slog.Logger
}

// NewAuthService creates an auth service.
func NewAuthService(tokens ports.TokenService, logger *slog.Logger) *AuthService {
	if tokens == nil {
		panic("app.NewAuthService: tokens is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		tokens: tokens,
		logger: logger.With(slog.String("component", "app.AuthService")),
	}
}

// Login issues a bearer token for deviceID. The device id is the identity.
func (s *AuthService) Login(ctx context.Context, deviceID string) (string, error) {
	if strings.TrimSpace(deviceID) == "" {
		return "", domain.NewValidationError("device_id", "cannot be empty")
	}

	token, err := s.tokens.Issue(deviceID)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	s.logger.DebugContext(ctx, "token issued")

	return token, nil
}

// Identify resolves a presented bearer token to an identity.
func (s *AuthService) Identify(token string) (string, error) {
	identity, err := s.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("verifying token: %w", err)
	}

	return identity, nil
}
