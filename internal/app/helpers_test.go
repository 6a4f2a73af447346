package app

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testCatalog returns a catalog where even-numbered quotes are premium.
func testCatalog(t *testing.T) *domain.Catalog {
	t.Helper()

	quotes := []domain.Quote{
		{ID: "1", Text: "one", Author: "A", Category: "general"},
		{ID: "2", Text: "two", Author: "B", Category: "general", IsPremium: true},
		{ID: "3", Text: "three", Author: "C", Category: "stoicism"},
		{ID: "4", Text: "four", Author: "D", Category: "stoicism", IsPremium: true},
		{ID: "5", Text: "five", Author: "E", Category: "time"},
	}

	catalog, err := domain.NewCatalog(quotes)
	require.NoError(t, err)

	return catalog
}

// testClock is a settable clock.
type testClock struct {
	t time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 10, 14, 9, 30, 15, 0, time.UTC)}
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }
