package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/services"
)

func setupStatsRouter(t *testing.T) (*gin.Engine, *MockEventRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := NewMockUserRepo()
	events := NewMockEventRepo()

	user, err := domain.NewUser("user-1", "a@b.com")
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), user))

	svc := services.NewStatsService(users, events, 0.6).WithClock(func() time.Time {
		return time.Date(2025, 1, 8, 8, 0, 0, 0, time.UTC)
	})
	handler := adapterHTTP.NewStatsHandler(svc)

	r := gin.New()
	group := r.Group("/api/v1")
	group.Use(stubAuth())
	handler.RegisterRoutes(group)
	return r, events
}

func TestStatsSummary(t *testing.T) {
	t.Run("Success: 200 with daily aggregates and streaks", func(t *testing.T) {
		router, events := setupStatsRouter(t)

		drank := domain.NewReminderEvent("user-1", "s1", "2025-01-07", "09:00")
		require.NoError(t, drank.MarkOutcome(domain.StatusDrank))
		skipped := domain.NewReminderEvent("user-1", "s1", "2025-01-07", "11:00")
		require.NoError(t, skipped.MarkOutcome(domain.StatusSkipped))
		events.seed(drank, skipped)

		req, _ := http.NewRequest("GET", "/api/v1/stats/summary", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"date":"2025-01-07"`)
		assert.Contains(t, w.Body.String(), `"completion":50`)
		assert.Contains(t, w.Body.String(), `"current_streak"`)
		assert.Contains(t, w.Body.String(), `"best_streak"`)
	})

	t.Run("Success: Empty history yields empty days", func(t *testing.T) {
		router, _ := setupStatsRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/stats/summary", nil)
		req.Header.Set("X-User-ID", "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"days":[]`)
	})

	t.Run("Fail: 404 for unknown user", func(t *testing.T) {
		router, _ := setupStatsRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/stats/summary", nil)
		req.Header.Set("X-User-ID", "ghost")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Fail: 401 without authentication", func(t *testing.T) {
		router, _ := setupStatsRouter(t)

		req, _ := http.NewRequest("GET", "/api/v1/stats/summary", nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
