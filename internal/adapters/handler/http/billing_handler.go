package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

type BillingHandler struct {
	svc     *services.BillingService
	priceID string
}

func NewBillingHandler(svc *services.BillingService, priceID string) *BillingHandler {
	return &BillingHandler{
		svc:     svc,
		priceID: priceID,
	}
}

// RegisterRoutes mounts the authenticated billing endpoint. The
// webhook route skips auth; the provider signature is the credential.
func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	billing := router.Group("/billing")
	{
		billing.POST("/checkout", h.CreateCheckout)
	}
}

func (h *BillingHandler) RegisterWebhookRoutes(router *gin.RouterGroup) {
	router.POST("/billing/webhook", h.Webhook)
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	url, err := h.svc.CreateCheckoutSession(c.Request.Context(), userID, h.priceID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if errors.Is(err, services.ErrCheckoutFailed) {
			c.JSON(http.StatusBadGateway, gin.H{"error": "checkout provider unavailable"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	if err := h.svc.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		if errors.Is(err, services.ErrWebhookInvalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
