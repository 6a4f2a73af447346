package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
)

// AuthHandler handles device login.
type AuthHandler struct {
	service *app.AuthService
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(service *app.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login handles POST /v1/auth/login.
// The device id becomes the identity; there is no password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		_ = c.Error(err)
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.DeviceID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTokenResponse(token))
}
