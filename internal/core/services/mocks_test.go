package services_test

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

type MockUserRepo struct {
	store         map[string]*domain.User
	simulateError error
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		store: make(map[string]*domain.User),
	}
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	for _, u := range m.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepo) GetByStripeCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	for _, u := range m.store {
		if u.StripeCustomerID == customerID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	clone := *user
	m.store[user.ID] = &clone
	return nil
}

func (m *MockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.User
	for _, u := range m.store {
		clone := *u
		list = append(list, &clone)
	}
	return list, nil
}

func (m *MockUserRepo) UpdateStreaks(ctx context.Context, id string, current, best int) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	u, ok := m.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CurrentStreak = current
	u.BestStreak = best
	return nil
}

type MockScheduleRepo struct {
	store         map[string]*domain.Schedule
	simulateError error
}

func NewMockScheduleRepo() *MockScheduleRepo {
	return &MockScheduleRepo{
		store: make(map[string]*domain.Schedule),
	}
}

func (m *MockScheduleRepo) Create(ctx context.Context, schedule *domain.Schedule) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, exists := m.store[schedule.ID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}
	clone := *schedule
	m.store[schedule.ID] = &clone
	return nil
}

func (m *MockScheduleRepo) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return nil, domain.ErrScheduleNotFound
	}
	clone := *s
	return &clone, nil
}

func (m *MockScheduleRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
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

func (m *MockScheduleRepo) Update(ctx context.Context, schedule *domain.Schedule) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	existing, ok := m.store[schedule.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}
	if existing.Version != schedule.Version {
		return domain.ErrScheduleConflict
	}
	clone := *schedule
	clone.Version++
	m.store[schedule.ID] = &clone
	schedule.Version = clone.Version
	return nil
}

func (m *MockScheduleRepo) Delete(ctx context.Context, id string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	s, ok := m.store[id]
	if !ok || s.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}
	now := time.Now().UTC()
	s.DeletedAt = &now
	return nil
}

type MockEventRepo struct {
	store         map[string]*domain.ReminderEvent
	simulateError error
}

func NewMockEventRepo() *MockEventRepo {
	return &MockEventRepo{
		store: make(map[string]*domain.ReminderEvent),
	}
}

func (m *MockEventRepo) seed(events ...*domain.ReminderEvent) {
	for _, ev := range events {
		clone := *ev
		m.store[ev.ID] = &clone
	}
}

func (m *MockEventRepo) GetByID(ctx context.Context, id string) (*domain.ReminderEvent, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	ev, ok := m.store[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	clone := *ev
	return &clone, nil
}

func (m *MockEventRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	if m.simulateError != nil {
		return nil, m.simulateError
	}
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
	if m.simulateError != nil {
		return nil, m.simulateError
	}
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
	if m.simulateError != nil {
		return m.simulateError
	}
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
	if m.simulateError != nil {
		return m.simulateError
	}
	if _, ok := m.store[event.ID]; !ok {
		return domain.ErrEventNotFound
	}
	clone := *event
	m.store[event.ID] = &clone
	return nil
}

func (m *MockEventRepo) ResetOutcomes(ctx context.Context, userID string) (int, error) {
	if m.simulateError != nil {
		return 0, m.simulateError
	}
	count := 0
	for _, ev := range m.store {
		if ev.UserID == userID && ev.IsResolved() {
			ev.ResetOutcome()
			count++
		}
	}
	return count, nil
}

type MockNotifier struct {
	sent          []sentMessage
	simulateError error
}

type sentMessage struct {
	To   string
	Body string
}

func (m *MockNotifier) Send(ctx context.Context, to, body string) error {
	if m.simulateError != nil {
		return m.simulateError
	}
	m.sent = append(m.sent, sentMessage{To: to, Body: body})
	return nil
}
