package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

// In-memory implementations of the repository ports. The original
// prototype ran entirely on a store like this; it remains the dev and
// test backend.

type InMemoryUserRepository struct {
	store map[string]*domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		store: make(map[string]*domain.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.store {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.store[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.store {
		if u.StripeCustomerID == customerID {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[user.ID]; !ok {
		return domain.ErrUserNotFound
	}

	clone := *user
	r.store[user.ID] = &clone
	return nil
}

func (r *InMemoryUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.store))
	for _, u := range r.store {
		clone := *u
		users = append(users, &clone)
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})

	return users, nil
}

func (r *InMemoryUserRepository) UpdateStreaks(ctx context.Context, id string, current, best int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.store[id]
	if !ok {
		return domain.ErrUserNotFound
	}

	user.CurrentStreak = current
	user.BestStreak = best
	user.UpdatedAt = time.Now().UTC()
	return nil
}

type InMemoryScheduleRepository struct {
	store map[string]*domain.Schedule

	mu sync.RWMutex
}

func NewInMemoryScheduleRepository() *InMemoryScheduleRepository {
	return &InMemoryScheduleRepository{
		store: make(map[string]*domain.Schedule),
	}
}

func (r *InMemoryScheduleRepository) Create(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if schedule.Version == 0 {
		schedule.Version = 1
	}
	clone := *schedule
	r.store[schedule.ID] = &clone
	return nil
}

func (r *InMemoryScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schedule, ok := r.store[id]
	if !ok || schedule.DeletedAt != nil {
		return nil, domain.ErrScheduleNotFound
	}
	clone := *schedule
	return &clone, nil
}

func (r *InMemoryScheduleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var schedules []*domain.Schedule
	for _, s := range r.store {
		if s.UserID == userID && s.DeletedAt == nil {
			clone := *s
			schedules = append(schedules, &clone)
		}
	}

	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
	})

	return schedules, nil
}

func (r *InMemoryScheduleRepository) Update(ctx context.Context, schedule *domain.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.store[schedule.ID]
	if !ok || existing.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}

	if existing.Version != schedule.Version {
		return domain.ErrScheduleConflict
	}

	clone := *schedule
	clone.Version++
	r.store[schedule.ID] = &clone
	schedule.Version = clone.Version
	return nil
}

func (r *InMemoryScheduleRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	schedule, ok := r.store[id]
	if !ok || schedule.DeletedAt != nil {
		return domain.ErrScheduleNotFound
	}

	now := time.Now().UTC()
	schedule.DeletedAt = &now
	schedule.UpdatedAt = now
	schedule.Version++
	return nil
}

type InMemoryEventRepository struct {
	store map[string]*domain.ReminderEvent

	mu sync.RWMutex
}

func NewInMemoryEventRepository() *InMemoryEventRepository {
	return &InMemoryEventRepository{
		store: make(map[string]*domain.ReminderEvent),
	}
}

func (r *InMemoryEventRepository) GetByID(ctx context.Context, id string) (*domain.ReminderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.store[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	clone := *event
	return &clone, nil
}

func (r *InMemoryEventRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*domain.ReminderEvent
	for _, e := range r.store {
		if e.UserID == userID {
			clone := *e
			events = append(events, &clone)
		}
	}
	return events, nil
}

func (r *InMemoryEventRepository) ListByScheduleID(ctx context.Context, scheduleID string) ([]*domain.ReminderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var events []*domain.ReminderEvent
	for _, e := range r.store {
		if e.ScheduleID == scheduleID {
			clone := *e
			events = append(events, &clone)
		}
	}
	return events, nil
}

func (r *InMemoryEventRepository) ReplaceWindow(ctx context.Context, scheduleID, fromDate string, events []*domain.ReminderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.store {
		if e.ScheduleID == scheduleID && e.Date >= fromDate {
			delete(r.store, id)
		}
	}

	for _, event := range events {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}
		clone := *event
		r.store[event.ID] = &clone
	}

	return nil
}

func (r *InMemoryEventRepository) UpdateStatus(ctx context.Context, event *domain.ReminderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[event.ID]; !ok {
		return domain.ErrEventNotFound
	}

	clone := *event
	r.store[event.ID] = &clone
	return nil
}

func (r *InMemoryEventRepository) ResetOutcomes(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reset := 0
	for _, e := range r.store {
		if e.UserID == userID && e.IsResolved() {
			e.ResetOutcome()
			reset++
		}
	}
	return reset, nil
}
