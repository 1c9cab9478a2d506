package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

type markOutcomeRequest struct {
	Status string `json:"status" binding:"required,oneof=drank skipped"`
}

func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", h.List)
		events.GET("/next", h.NextPing)
		events.PATCH("/:id/outcome", h.MarkOutcome)
		events.DELETE("/outcomes", h.ClearHistory)
	}
}

func (h *EventHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	events, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) NextPing(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	next, err := h.svc.NextPing(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if next == nil {
		c.JSON(http.StatusOK, gin.H{"next": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"next": next})
}

func (h *EventHandler) MarkOutcome(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req markOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.svc.MarkOutcome(c.Request.Context(), c.Param("id"), userID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusForbidden, gin.H{"error": "event belongs to another user"})
		case errors.Is(err, domain.ErrOutcomeAlreadyRecorded):
			c.JSON(http.StatusConflict, gin.H{"error": "outcome already recorded"})
		case errors.Is(err, domain.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "status must be drank or skipped"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	middleware.TrackOutcome(event.Status)

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ClearHistory(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	reset, err := h.svc.ClearHistory(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reset": reset})
}
