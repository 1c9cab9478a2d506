package workers

import (
	"context"
	"log"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/scheduling"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateStreaks(ctx context.Context, id string, current, best int) error
}

type EventRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error)
}

type StreakJob struct {
	UserID string
}

// StreakWorker recomputes a user's hydration streaks off the request
// path whenever an outcome is recorded or history changes.
type StreakWorker struct {
	userRepo  UserRepository
	eventRepo EventRepository
	threshold float64
	now       func() time.Time
	jobs      chan StreakJob
}

func NewStreakWorker(userRepo UserRepository, eventRepo EventRepository) *StreakWorker {
	return &StreakWorker{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		threshold: scheduling.DefaultSuccessThreshold,
		now:       time.Now,
		jobs:      make(chan StreakJob, 100),
	}
}

// WithThreshold overrides the success threshold so persisted streaks
// agree with the stats summary. Values outside (0,1] keep the default.
func (w *StreakWorker) WithThreshold(threshold float64) *StreakWorker {
	if threshold > 0 && threshold <= 1 {
		w.threshold = threshold
	}
	return w
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

// Pending reports the current queue depth.
func (w *StreakWorker) Pending() int {
	return len(w.jobs)
}

func (w *StreakWorker) Enqueue(userID string) {
	select {
	case w.jobs <- StreakJob{UserID: userID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for user %s", userID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	user, err := w.userRepo.GetByID(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker Error fetching user %s: %v", job.UserID, err)
		return
	}

	events, err := w.eventRepo.ListByUserID(ctx, job.UserID)
	if err != nil {
		log.Printf("Worker Error fetching events for %s: %v", job.UserID, err)
		return
	}

	result := scheduling.ComputeStreaks(events, user.Location(), w.now(), w.threshold)

	if user.CurrentStreak != result.CurrentStreak || user.BestStreak != result.BestStreak {
		if err := w.userRepo.UpdateStreaks(ctx, user.ID, result.CurrentStreak, result.BestStreak); err != nil {
			log.Printf("Worker Failed to update streaks for %s: %v", user.ID, err)
		} else {
			log.Printf("Streaks updated for %s: Current=%d, Best=%d", user.Email, result.CurrentStreak, result.BestStreak)
		}
	}
}
