package app

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// dateLayout is the calendar date fed into the daily hash.
const dateLayout = "2006-01-02"

// DailyIndex maps (UTC date of day, identity) onto [0, n).
// xxhash64 is seedless, so every replica and every restart agrees on the result.
func DailyIndex(day time.Time, identity string, n int) int {
	h := xxhash.Sum64String(day.UTC().Format(dateLayout) + identity)

	return int(h % uint64(n)) //nolint:gosec // n is a positive catalog size
}

// Selector picks quotes from an immutable catalog.
type Selector struct {
	catalog *domain.Catalog
	free    []domain.Quote
	intN    func(n int) int
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithIntN replaces the random source used by Random.
func WithIntN(intN func(n int) int) SelectorOption {
	return func(s *Selector) {
		s.intN = intN
	}
}

// NewSelector creates a selector over catalog.
func NewSelector(catalog *domain.Catalog, opts ...SelectorOption) *Selector {
	if catalog == nil {
		panic("app.NewSelector: catalog is required")
	}

	s := &Selector{
		catalog: catalog,
		free:    catalog.Free(),
		intN:    rand.IntN,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Daily returns the quote of the day at now for identity ("" for anonymous).
func (s *Selector) Daily(now time.Time, identity string) domain.Quote {
	return s.catalog.At(DailyIndex(now, identity, s.catalog.Len()))
}

// Random returns a uniformly random quote.
// Without premiumAllowed only free quotes are eligible.
func (s *Selector) Random(premiumAllowed bool) (domain.Quote, error) {
	if premiumAllowed {
		return s.catalog.At(s.intN(s.catalog.Len())), nil
	}

	if len(s.free) == 0 {
		return domain.Quote{}, fmt.Errorf("selecting random quote: %w: catalog has no free quotes", domain.ErrNoData)
	}

	return s.free[s.intN(len(s.free))], nil
}
