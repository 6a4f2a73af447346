package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
	"github.com/jsamuelsen/wisdom-pocket/internal/domain"
)

const (
	// HeaderDateKey lets clients split the daily cache by their local day.
	// It only discriminates cache entries within a UTC day; selection always
	// uses the UTC date.
	HeaderDateKey = "X-Date-Key"

	// maxDateKeyLength bounds the header since it becomes part of a store key.
	maxDateKeyLength = 64
)

// QuoteHandler handles quote endpoints.
type QuoteHandler struct {
	service *app.QuoteService
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(service *app.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Daily handles GET /v1/quotes/daily.
// Authenticated callers get a personal quote; anonymous callers share one.
func (h *QuoteHandler) Daily(c *gin.Context) {
	dateKey := c.GetHeader(HeaderDateKey)
	if len(dateKey) > maxDateKeyLength {
		_ = c.Error(domain.NewValidationError("x-date-key", "must be at most 64 characters"))
		return
	}

	quote, err := h.service.DailyQuote(c.Request.Context(), middleware.GetIdentity(c), dateKey)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuote(quote))
}

// Random handles GET /v1/quotes/random?premium=bool.
func (h *QuoteHandler) Random(c *gin.Context) {
	var query dto.RandomQuoteQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		_ = c.Error(err)
		return
	}

	quote, err := h.service.RandomQuote(c.Request.Context(), query.PremiumAllowed())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuote(quote))
}
