package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
)

// FavoritesHandler handles the caller's favorite quotes.
type FavoritesHandler struct {
	service *app.FavoritesService
}

// NewFavoritesHandler creates a favorites handler.
func NewFavoritesHandler(service *app.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

// List handles GET /v1/favorites/.
func (h *FavoritesHandler) List(c *gin.Context) {
	quotes, err := h.service.List(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromQuotes(quotes))
}

// Add handles POST /v1/favorites/:quoteId.
func (h *FavoritesHandler) Add(c *gin.Context) {
	if err := h.service.Add(c.Request.Context(), middleware.GetIdentity(c), c.Param("quoteId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Remove handles DELETE /v1/favorites/:quoteId.
func (h *FavoritesHandler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), middleware.GetIdentity(c), c.Param("quoteId")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}
