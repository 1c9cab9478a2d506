package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

type UserHandler struct {
	svc *services.UserService
}

func NewUserHandler(svc *services.UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

type updateTimezoneRequest struct {
	Timezone string `json:"timezone" binding:"required"`
}

type profileResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Timezone      string `json:"timezone"`
	Phone         string `json:"phone,omitempty"`
	Tier          string `json:"tier"`
	CurrentStreak int    `json:"current_streak"`
	BestStreak    int    `json:"best_streak"`
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/me")
	{
		users.GET("", h.Profile)
		users.PUT("/timezone", h.UpdateTimezone)
	}
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	user, err := h.svc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

func (h *UserHandler) UpdateTimezone(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateTimezoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.svc.UpdateTimezone(c.Request.Context(), userID, req.Timezone)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimezone) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timezone"})
			return
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(user))
}

func toProfileResponse(user *domain.User) profileResponse {
	return profileResponse{
		ID:            user.ID,
		Email:         user.Email,
		Timezone:      user.Timezone,
		Phone:         user.Phone,
		Tier:          user.Tier,
		CurrentStreak: user.CurrentStreak,
		BestStreak:    user.BestStreak,
	}
}
