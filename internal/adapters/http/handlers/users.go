package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
)

// UserHandler handles account requests.
type UserHandler struct {
	accounts *app.AccountService
}

// NewUserHandler creates a user handler.
func NewUserHandler(accounts *app.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// DeleteMe handles DELETE /v1/users/me, erasing the caller's data.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	if err := h.accounts.Delete(c.Request.Context(), middleware.GetIdentity(c)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.DeletedResponse{Deleted: true})
}
