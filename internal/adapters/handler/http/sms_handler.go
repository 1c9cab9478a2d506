package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

type SMSHandler struct {
	svc *services.SMSService
}

func NewSMSHandler(svc *services.SMSService) *SMSHandler {
	return &SMSHandler{
		svc: svc,
	}
}

type updatePhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *SMSHandler) RegisterRoutes(router *gin.RouterGroup) {
	sms := router.Group("/sms")
	{
		sms.PUT("/phone", h.UpdatePhone)
		sms.POST("/test", h.SendTest)
	}
}

func (h *SMSHandler) UpdatePhone(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updatePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.UpdatePhone(c.Request.Context(), userID, req.Phone)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProFeature):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "SMS reminders require a pro subscription"})
		case errors.Is(err, domain.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone must be in E.164 format"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

func (h *SMSHandler) SendTest(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	if err := h.svc.SendTest(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, domain.ErrProFeature):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "SMS reminders require a pro subscription"})
		case errors.Is(err, domain.ErrInvalidPhone):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no phone number on file"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "failed to send test message"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"sent": true})
}
