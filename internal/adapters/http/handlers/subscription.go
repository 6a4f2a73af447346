package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/dto"
	"github.com/jsamuelsen/wisdom-pocket/internal/adapters/http/middleware"
	"github.com/jsamuelsen/wisdom-pocket/internal/app"
)

// SubscriptionHandler handles subscription endpoints.
type SubscriptionHandler struct {
	service *app.SubscriptionService
}

// NewSubscriptionHandler creates a subscription handler.
func NewSubscriptionHandler(service *app.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

// Webhook handles POST /v1/subscription/webhook.
// The provider sends the shared secret as the raw Authorization header.
// Event payloads are acknowledged but not processed.
func (h *SubscriptionHandler) Webhook(c *gin.Context) {
	if err := h.service.VerifyWebhook(c.GetHeader("Authorization")); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.OKResponse{OK: true})
}

// Validate handles GET /v1/subscription/validate. Anonymous callers are inactive.
func (h *SubscriptionHandler) Validate(c *gin.Context) {
	sub, err := h.service.Validate(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSubscription(sub))
}

// MockPurchase handles POST /v1/subscription/mock_purchase.
func (h *SubscriptionHandler) MockPurchase(c *gin.Context) {
	sub, err := h.service.MockPurchase(c.Request.Context(), middleware.GetIdentity(c))
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.PurchaseResponse{Active: sub.Active})
}
