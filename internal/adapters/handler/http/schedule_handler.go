package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

type ScheduleHandler struct {
	svc *services.ScheduleService
}

func NewScheduleHandler(svc *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{
		svc: svc,
	}
}

type createScheduleRequest struct {
	Name         string               `json:"name" binding:"required"`
	DaysOfWeek   []int                `json:"days_of_week" binding:"required"`
	StartTime    string               `json:"start_time" binding:"required"`
	EndTime      string               `json:"end_time" binding:"required"`
	NumPings     int                  `json:"num_pings" binding:"required"`
	QuietPeriods []domain.QuietPeriod `json:"quiet_periods"`
	Supersede    bool                 `json:"supersede"`
}

type updateScheduleRequest struct {
	Name         string               `json:"name"`
	DaysOfWeek   []int                `json:"days_of_week"`
	StartTime    string               `json:"start_time"`
	EndTime      string               `json:"end_time"`
	NumPings     int                  `json:"num_pings"`
	QuietPeriods []domain.QuietPeriod `json:"quiet_periods"`
	IsActive     *bool                `json:"is_active"`
	Version      int                  `json:"version"`
}

func (h *ScheduleHandler) RegisterRoutes(router *gin.RouterGroup) {
	schedules := router.Group("/schedules")
	{
		schedules.POST("", h.Create)
		schedules.GET("", h.List)
		schedules.GET("/:id", h.Get)
		schedules.GET("/:id/next", h.NextPing)
		schedules.PUT("/:id", h.Update)
		schedules.DELETE("/:id", h.Delete)
	}
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req createScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateScheduleInput{
		UserID:       userID,
		Name:         req.Name,
		DaysOfWeek:   req.DaysOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		NumPings:     req.NumPings,
		QuietPeriods: req.QuietPeriods,
		Supersede:    req.Supersede,
	}

	schedule, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleLimitReached) {
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":   "schedule limit reached",
				"message": "Upgrade to pro for more active schedules, or pass supersede=true.",
			})
			return
		}
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, schedule)
}

func (h *ScheduleHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *ScheduleHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	schedule, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) NextPing(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	ping, err := h.svc.NextPing(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"next": ping})
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req updateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateScheduleInput{
		ID:           c.Param("id"),
		UserID:       userID,
		Name:         req.Name,
		DaysOfWeek:   req.DaysOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		NumPings:     req.NumPings,
		QuietPeriods: req.QuietPeriods,
		IsActive:     req.IsActive,
		Version:      req.Version,
	}

	schedule, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error":   "version conflict",
				"message": "Schedule has been modified elsewhere. Reload and retry.",
			})
			return
		}
		if errors.Is(err, domain.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrScheduleNameEmpty) ||
		errors.Is(err, domain.ErrScheduleNameTooLong) ||
		errors.Is(err, domain.ErrInvalidWeekdays) ||
		errors.Is(err, domain.ErrInvalidTimeFormat) ||
		errors.Is(err, domain.ErrInvalidPingCount) ||
		errors.Is(err, domain.ErrInvalidQuietPeriod)
}
