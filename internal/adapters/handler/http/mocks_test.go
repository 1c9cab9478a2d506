package http_test

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hydroping/hydration-ping-engine/internal/adapters/handler/http/middleware"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

// stubAuth replaces the JWT middleware in tests: the user ID travels
// in the X-User-ID header.
func stubAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			c.Abort()
			return
		}
		c.Set(middleware.ContextUserIDKey, userID)
		c.Next()
	}
}

type MockUserRepo struct {
	store map[string]*domain.User
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*domain.User)}
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range m.store {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *u
	m.store[u.ID] = &clone
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	for _, u := range m.store {
		if u.StripeCustomerID == customerID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepo) Update(ctx context.Context, u *domain.User) error {
	if _, ok := m.store[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	m.store[u.ID] = &clone
	return nil
}

func (m *MockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var list []*domain.User
	for _, u := range m.store {
		clone := *u
		list = append(list, &clone)
	}
	return list, nil
}

func (m *MockUserRepo) UpdateStreaks(ctx context.Context, id string, current, best int) error {
	u, ok := m.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CurrentStreak = current
	u.BestStreak = best
	return nil
}

type MockScheduleRepo struct {
	store map[string]*domain.Schedule
}

func NewMockScheduleRepo() *MockScheduleRepo {
	return &MockScheduleRepo{store: make(map[string]*domain.Schedule)}
}

func (m *MockScheduleRepo) Create(ctx context.Context, s *domain.Schedule) error {
	clone := *s
	m.store[s.ID] = &clone
	return nil
}

func (m *MockScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return nil, domain.ErrScheduleNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MockScheduleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	var list []*domain.Schedule
	for _, s := range m.store {
		if s.UserID == userID && s.DeletedAt == nil {
			clone := *s
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (m *MockScheduleRepo) Update(ctx context.Context, s *domain.Schedule) error {
	existing, ok := m.store[s.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}
	if existing.Version != s.Version {
		return domain.ErrScheduleConflict
	}
	clone := *s
	clone.Version++
	m.store[s.ID] = &clone
	s.Version = clone.Version
	return nil
}

func (m *MockScheduleRepo) Delete(ctx context.Context, id string) error {
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}
	now := time.Now().UTC()
	s.DeletedAt = &now
	return nil
}

type MockEventRepo struct {
	store map[string]*domain.ReminderEvent
}

func NewMockEventRepo() *MockEventRepo {
	return &MockEventRepo{store: make(map[string]*domain.ReminderEvent)}
}

func (m *MockEventRepo) seed(events ...*domain.ReminderEvent) {
	for _, ev := range events {
		clone := *ev
		m.store[ev.ID] = &clone
	}
}

func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.ReminderEvent, error) {
	ev, ok := m.store[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	clone := *ev
	return &clone, nil
}

func (m *MockEventRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	var list []*domain.ReminderEvent
	for _, ev := range m.store {
		if ev.UserID == userID {
			clone := *ev
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockEventRepo) ListByScheduleID(ctx context.Context, scheduleID string) ([]*domain.ReminderEvent, error) {
	var list []*domain.ReminderEvent
	for _, ev := range m.store {
		if ev.ScheduleID == scheduleID {
			clone := *ev
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (m *MockEventRepo) ReplaceWindow(ctx context.Context, scheduleID, fromDate string, events []*domain.ReminderEvent) error {
	for id, ev := range m.store {
		if ev.ScheduleID == scheduleID && ev.Date >= fromDate {
			delete(m.store, id)
		}
	}
	for _, ev := range events {
		clone := *ev
		m.store[ev.ID] = &clone
	}
	return nil
}

func (m *MockEventRepo) UpdateStatus(ctx context.Context, event *domain.ReminderEvent) error {
	if _, ok := m.store[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	clone := *event
	m.store[event.ID] = &clone
	return nil
}

func (m *MockEventRepo) ResetOutcomes(ctx context.Context, userID string) (int, error) {
	count := 0
	for _, ev := range m.store {
		if ev.UserID == userID && ev.IsResolved() {
			ev.ResetOutcome()
			count++
		}
	}
	return count, nil
}
