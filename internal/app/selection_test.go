package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

func TestDailyIndex_Deterministic(t *testing.T) {
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	for _, identity := range []string{"", "dev123", "dev_sub", "another-device"} {
		first := DailyIndex(day, identity, 97)
		for range 10 {
			assert.Equal(t, first, DailyIndex(day, identity, 97))
		}

		assert.GreaterOrEqual(t, first, 0)
		assert.Less(t, first, 97)
	}
}

func TestDailyIndex_UsesUTCCalendarDate(t *testing.T) {
	morning := time.Date(2026, 10, 14, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2026, 10, 14, 23, 55, 0, 0, time.UTC)

	// 2026-10-14 01:00 UTC, expressed in a zone where it is still the 13th.
	west := time.Date(2026, 10, 13, 21, 0, 0, 0, time.FixedZone("UTC-4", -4*60*60))

	for _, identity := range []string{"", "dev123"} {
		want := DailyIndex(morning, identity, 1000)
		assert.Equal(t, want, DailyIndex(evening, identity, 1000))
		assert.Equal(t, want, DailyIndex(west, identity, 1000))
	}
}

func TestDailyIndex_VariesAcrossInputs(t *testing.T) {
	day := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)

	byDay := make(map[int]struct{})
	for i := range 30 {
		byDay[DailyIndex(day.AddDate(0, 0, i), "dev123", 1000)] = struct{}{}
	}

	byIdentity := make(map[int]struct{})
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		byIdentity[DailyIndex(day, id, 1000)] = struct{}{}
	}

	assert.Greater(t, len(byDay), 1)
	assert.Greater(t, len(byIdentity), 1)
}

func TestSelector_Daily(t *testing.T) {
	catalog := testCatalog(t)
	s := NewSelector(catalog)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	q := s.Daily(now, "dev123")
	assert.Equal(t, catalog.At(DailyIndex(now, "dev123", catalog.Len())), q)
	assert.Equal(t, q, s.Daily(now.Add(time.Hour), "dev123"))
	assert.Equal(t, q, NewSelector(catalog).Daily(now, "dev123"), "independent selectors agree")
}

func TestSelector_Random_ExcludesPremium(t *testing.T) {
	s := NewSelector(testCatalog(t))

	for range 500 {
		q, err := s.Random(false)
		require.NoError(t, err)
		assert.False(t, q.IsPremium, "quote %s is premium", q.ID)
	}
}

func TestSelector_Random_PremiumAllowed(t *testing.T) {
	catalog := testCatalog(t)

	tests := []struct {
		name    string
		premium bool
		pick    int
		wantID  string
	}{
		{"premium allowed picks from whole catalog", true, 1, "2"},
		{"premium allowed last", true, 4, "5"},
		{"free only picks from free quotes", false, 1, "3"},
		{"free only last", false, 2, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotN int

			s := NewSelector(catalog, WithIntN(func(n int) int {
				gotN = n
				return tt.pick
			}))

			q, err := s.Random(tt.premium)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, q.ID)

			if tt.premium {
				assert.Equal(t, 5, gotN)
			} else {
				assert.Equal(t, 3, gotN)
			}
		})
	}
}

func TestSelector_Random_NoFreeQuotes(t *testing.T) {
	catalog, err := domain.NewCatalog([]domain.Quote{{ID: "p", IsPremium: true}})
	require.NoError(t, err)

	s := NewSelector(catalog)

	_, err = s.Random(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoData)

	q, err := s.Random(true)
	require.NoError(t, err)
	assert.Equal(t, "p", q.ID)
}

func TestNewSelector_PanicsWithoutCatalog(t *testing.T) {
	assert.Panics(t, func() { NewSelector(nil) })
}
