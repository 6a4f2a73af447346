package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func benchmarkRoute(b *testing.B, api *testAPI, method, path, authorization string) {
	b.Helper()

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(method, path, http.NoBody)
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}

		w := httptest.NewRecorder()
		api.engine.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			b.Fatalf("unexpected status %d: %s", w.Code, w.Body.String())
		}
	}
}

// BenchmarkLiveness measures the probe path, which skips request logging.
func BenchmarkLiveness(b *testing.B) {
	api := newTestAPI(b, apiOptions{mockMode: true})
	benchmarkRoute(b, api, http.MethodGet, "/-/live", "")
}

// BenchmarkDailyQuote_Cached measures a daily quote served from the store after the first call.
func BenchmarkDailyQuote_Cached(b *testing.B) {
	api := newTestAPI(b, apiOptions{mockMode: true, perMinute: 1 << 30})
	benchmarkRoute(b, api, http.MethodGet, "/v1/quotes/daily", "")
}

// BenchmarkRandomQuote measures rate limiting plus random selection.
func BenchmarkRandomQuote(b *testing.B) {
	api := newTestAPI(b, apiOptions{mockMode: true, perMinute: 1 << 30})
	benchmarkRoute(b, api, http.MethodGet, "/v1/quotes/random?premium=false", "")
}

// BenchmarkFavoritesList measures token verification plus a set read.
func BenchmarkFavoritesList(b *testing.B) {
	api := newTestAPI(b, apiOptions{mockMode: true})
	auth := api.login(b, "bench")

	for _, id := range []string{"1", "2", "3"} {
		api.do(http.MethodPost, "/v1/favorites/"+id, auth, "")
	}

	benchmarkRoute(b, api, http.MethodGet, "/v1/favorites/", auth)
}
