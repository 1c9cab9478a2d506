package workers

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

type fakeUserRepo struct {
	users         map[string]*domain.User
	streakUpdates int
	simulateError error
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if f.simulateError != nil {
		return nil, f.simulateError
	}
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) UpdateStreaks(ctx context.Context, id string, current, best int) error {
	u, ok := f.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.CurrentStreak = current
	u.BestStreak = best
	f.streakUpdates++
	return nil
}

type fakeEventRepo struct {
	events []*domain.ReminderEvent
}

func (f *fakeEventRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	var list []*domain.ReminderEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			list = append(list, ev)
		}
	}
	return list, nil
}

func seedEvents(userID string, date string, drank, skipped int) []*domain.ReminderEvent {
	var events []*domain.ReminderEvent
	minute := 540
	add := func(status string, n int) {
		for i := 0; i < n; i++ {
			ev := domain.NewReminderEvent(userID, "s1", date, domainTime(minute))
			ev.Status = status
			events = append(events, ev)
			minute += 30
		}
	}
	add(domain.StatusDrank, drank)
	add(domain.StatusSkipped, skipped)
	return events
}

func domainTime(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

func TestStreakWorker_ProcessJob(t *testing.T) {
	// Wednesday.
	now := time.Date(2025, 1, 8, 22, 0, 0, 0, time.UTC)

	newWorker := func(users *fakeUserRepo, events *fakeEventRepo) *StreakWorker {
		w := NewStreakWorker(users, events)
		w.now = func() time.Time { return now }
		return w
	}

	t.Run("Success: Persists recomputed streaks", func(t *testing.T) {
		user, err := domain.NewUser("u1", "a@b.com")
		require.NoError(t, err)

		users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
		events := &fakeEventRepo{}
		events.events = append(events.events, seedEvents("u1", "2025-01-07", 4, 0)...)
		events.events = append(events.events, seedEvents("u1", "2025-01-08", 4, 0)...)

		w := newWorker(users, events)
		w.processJob(context.Background(), StreakJob{UserID: "u1"})

		assert.Equal(t, 2, users.users["u1"].CurrentStreak)
		assert.Equal(t, 2, users.users["u1"].BestStreak)
		assert.Equal(t, 1, users.streakUpdates)
	})

	t.Run("Success: Unchanged streaks skip the write", func(t *testing.T) {
		user, err := domain.NewUser("u1", "a@b.com")
		require.NoError(t, err)
		user.UpdateStreaks(1, 1)

		users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
		events := &fakeEventRepo{events: seedEvents("u1", "2025-01-08", 4, 0)}

		w := newWorker(users, events)
		w.processJob(context.Background(), StreakJob{UserID: "u1"})

		assert.Equal(t, 0, users.streakUpdates)
	})

	t.Run("Success: Cleared history resets streaks to zero", func(t *testing.T) {
		user, err := domain.NewUser("u1", "a@b.com")
		require.NoError(t, err)
		user.UpdateStreaks(5, 9)

		users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
		events := &fakeEventRepo{}

		w := newWorker(users, events)
		w.processJob(context.Background(), StreakJob{UserID: "u1"})

		assert.Equal(t, 0, users.users["u1"].CurrentStreak)
		assert.Equal(t, 0, users.users["u1"].BestStreak)
	})

	t.Run("Success: Configured threshold drives the streak math", func(t *testing.T) {
		user, err := domain.NewUser("u1", "a@b.com")
		require.NoError(t, err)

		users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
		// 1 of 4 drank: a failure at the 0.6 default, a success at 0.2.
		events := &fakeEventRepo{events: seedEvents("u1", "2025-01-08", 1, 3)}

		w := newWorker(users, events).WithThreshold(0.2)
		w.processJob(context.Background(), StreakJob{UserID: "u1"})

		assert.Equal(t, 1, users.users["u1"].CurrentStreak)
		assert.Equal(t, 1, users.users["u1"].BestStreak)
	})

	t.Run("Edge Case: Out-of-range threshold keeps the default", func(t *testing.T) {
		user, err := domain.NewUser("u1", "a@b.com")
		require.NoError(t, err)

		users := &fakeUserRepo{users: map[string]*domain.User{"u1": user}}
		events := &fakeEventRepo{events: seedEvents("u1", "2025-01-08", 1, 3)}

		w := newWorker(users, events).WithThreshold(1.5)
		w.processJob(context.Background(), StreakJob{UserID: "u1"})

		assert.Equal(t, 0, users.users["u1"].CurrentStreak)
		assert.Equal(t, 0, users.streakUpdates)
	})

	t.Run("Edge Case: Missing user is logged and dropped", func(t *testing.T) {
		users := &fakeUserRepo{users: map[string]*domain.User{}, simulateError: errors.New("db down")}
		w := newWorker(users, &fakeEventRepo{})

		// Must not panic or retry.
		w.processJob(context.Background(), StreakJob{UserID: "ghost"})
		assert.Equal(t, 0, users.streakUpdates)
	})
}

func TestStreakWorker_Enqueue(t *testing.T) {
	t.Run("Success: Queue overflow drops instead of blocking", func(t *testing.T) {
		w := NewStreakWorker(&fakeUserRepo{}, &fakeEventRepo{})

		done := make(chan struct{})
		go func() {
			for i := 0; i < 500; i++ {
				w.Enqueue("u1")
			}
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("Enqueue blocked on a full queue")
		}
	})
}
