package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
	"github.com/jsamuelsen/wisdom-pocket/internal/platform/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestMapDomainError tests the error mapping function with all domain error types.
func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"nil error returns 200", nil, http.StatusOK, ""},
		{"unauthorized returns 401", domain.ErrUnauthorized, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"wrapped unauthorized returns 401", fmt.Errorf("verifying token: %w", domain.ErrUnauthorized), http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"rate limited returns 429", domain.NewRateLimitError("daily", 60, time.Second), http.StatusTooManyRequests, dto.ErrorCodeRateLimited},
		{"forbidden returns 403", domain.NewForbiddenError("mock_purchase", "mock mode disabled"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"validation returns 400", domain.NewValidationError("premium", "must be a boolean"), http.StatusBadRequest, dto.ErrorCodeValidation},
		{"not found returns 404", domain.NewNotFoundError("route", "/nope"), http.StatusNotFound, dto.ErrorCodeNotFound},
		{"unavailable returns 503", domain.NewUnavailableError("redis", "dial tcp 10.0.0.5:6379"), http.StatusServiceUnavailable, dto.ErrorCodeUnavailable},
		{"deadline returns 504", fmt.Errorf("computing daily quote: %w", context.DeadlineExceeded), http.StatusGatewayTimeout, dto.ErrorCodeTimeout},
		{"no data returns 500", fmt.Errorf("selecting random quote: %w", domain.ErrNoData), http.StatusInternalServerError, dto.ErrorCodeInternal},
		{"unknown returns 500", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.expectedStatus, status)

			if tt.err == nil {
				assert.Nil(t, resp)
				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestMapDomainError_HidesInternals(t *testing.T) {
	_, resp := MapDomainError(errors.New("pq: password authentication failed"))
	assert.Equal(t, "an internal error occurred", resp.Error.Message)

	_, resp = MapDomainError(domain.NewUnavailableError("redis", "dial tcp 10.0.0.5:6379"))
	assert.NotContains(t, resp.Error.Message, "10.0.0.5")
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	_, resp := MapDomainError(domain.NewValidationError("device_id", "this field is required"))
	assert.Equal(t, map[string]string{"device_id": "this field is required"}, resp.Error.Details)

	_, resp = MapDomainError(domain.NewValidationError("", "general"))
	assert.Nil(t, resp.Error.Details)
}

// TestRespondWithError tests the rendered envelope and headers.
func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantStatus     int
		wantRetryAfter string
	}{
		{"rate limit rounds retry-after up", domain.NewRateLimitError("daily", 60, 44200*time.Millisecond), http.StatusTooManyRequests, "45"},
		{"rate limit whole seconds", domain.NewRateLimitError("random", 60, 3*time.Second), http.StatusTooManyRequests, "3"},
		{"no retry-after on other errors", domain.ErrUnauthorized, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			RespondWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantRetryAfter, w.Header().Get(HeaderRetryAfter))
			assert.True(t, c.IsAborted())

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error.Code)
		})
	}
}

// TestErrorHandler tests rendering of errors attached with c.Error.
func TestErrorHandler(t *testing.T) {
	router := gin.New()
	router.Use(ErrorHandler())
	router.GET("/attached", func(c *gin.Context) {
		_ = c.Error(domain.NewForbiddenError("mock_purchase", "mock mode disabled"))
	})
	router.GET("/written", func(c *gin.Context) {
		_ = c.Error(errors.New("ignored"))
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/clean", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/attached", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":{"code":"FORBIDDEN","message":"operation \"mock_purchase\" forbidden: mock mode disabled"}}`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/written", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/clean", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           8000,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

// TestServerAddr tests the server address formatting.
func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"localhost", 8000, "localhost:8000"},
		{"0.0.0.0", 3000, "0.0.0.0:3000"},
		{"::1", 8000, "[::1]:8000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := testServerConfig()
			cfg.Host, cfg.Port = tt.host, tt.port

			assert.Equal(t, tt.want, New(cfg, discardLogger()).Addr())
		})
	}
}

// TestServerServeShutdown tests serving on a listener and stopping gracefully.
func TestServerServeShutdown(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := srv.Serve(ln)

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, ok := <-errCh
	assert.False(t, ok, "error channel should be closed")
}

func TestServerStart_BindError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	t.Cleanup(func() { _ = ln.Close() })

	cfg := testServerConfig()
	cfg.Port = ln.Addr().(*net.TCPAddr).Port

	_, err = New(cfg, discardLogger()).Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}

// TestMaxBodySizeMiddleware tests that oversized bodies cannot be read.
func TestMaxBodySizeMiddleware(t *testing.T) {
	cfg := testServerConfig()
	cfg.MaxRequestSize = 16

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/test", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}

		c.String(http.StatusOK, "%d", len(body))
	})

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader("small")))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", w.Body.String())

	w = httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 64))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
