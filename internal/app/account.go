package app

import (
	"context"
	"fmt"
	"log/slog"
)

// AccountService handles account-level requests for an identity.
type AccountService struct {
	favorites *FavoritesService
	logger    *slog.Logger
}

// NewAccountService creates an account service.
func NewAccountService(favorites *FavoritesService, logger *slog.Logger) *AccountService {
	if favorites == nil {
		panic("app.NewAccountService: favorites is required")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &AccountService{
		favorites: favorites,
		logger:    logger.With(slog.String("component", "app.AccountService")),
	}
}

// Delete erases the data held for identity.
// The subscription record is left to expire on its own.
func (s *AccountService) Delete(ctx context.Context, identity string) error {
	if err := s.favorites.DeleteAll(ctx, identity); err != nil {
		return fmt.Errorf("deleting account data: %w", err)
	}

	s.logger.InfoContext(ctx, "account data deleted")

	return nil
}
