package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/logging"
	"github.com/jsamuelsen/wisdom-pocket/internal/ports"
)

// FavoritesKey returns the set key holding identity's favorite quote ids.
func FavoritesKey(identity string) string {
	return "fav:" + identity
}

// FavoritesService manages per-identity favorite sets.
// Quote ids are not checked against the catalog on write; List drops unknown ids.
type FavoritesService struct {
	store   ports.Store
	catalog *domain.Catalog
}

// NewFavoritesService creates a favorites service.
func NewFavoritesService(store ports.Store, catalog *domain.Catalog) *FavoritesService {
	if store == nil || catalog == nil {
		panic("app.NewFavoritesService: store and catalog are required")
	}

	return &FavoritesService{store: store, catalog: catalog}
}

// List returns identity's favorite quotes in catalog order.
func (s *FavoritesService) List(ctx context.Context, identity string) ([]domain.Quote, error) {
	if identity == "" {
		return nil, domain.ErrUnauthorized
	}

	ids, err := s.store.SMembers(ctx, FavoritesKey(identity))
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}

	return s.catalog.Filter(ids), nil
}

// Add marks quoteID as a favorite. Adding twice is a no-op.
func (s *FavoritesService) Add(ctx context.Context, identity, quoteID string) error {
	if identity == "" {
		return domain.ErrUnauthorized
	}

	if err := s.store.SAdd(ctx, FavoritesKey(identity), quoteID); err != nil {
		return fmt.Errorf("adding favorite: %w", err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "favorite added", slog.String("quote_id", quoteID))

	return nil
}

// Remove unmarks quoteID. Removing an absent id is a no-op.
func (s *FavoritesService) Remove(ctx context.Context, identity, quoteID string) error {
	if identity == "" {
		return domain.ErrUnauthorized
	}

	if err := s.store.SRem(ctx, FavoritesKey(identity), quoteID); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "favorite removed", slog.String("quote_id", quoteID))

	return nil
}

// DeleteAll drops identity's whole favorite set in one store call.
func (s *FavoritesService) DeleteAll(ctx context.Context, identity string) error {
	if identity == "" {
		return domain.ErrUnauthorized
	}

	if err := s.store.Delete(ctx, FavoritesKey(identity)); err != nil {
		return fmt.Errorf("deleting favorites: %w", err)
	}

	return nil
}
