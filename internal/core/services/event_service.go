package services

import (
	"context"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/scheduling"
	"github.com/hydroping/hydration-ping-engine/internal/core/workers"
)

type EventService struct {
	repo     domain.ReminderEventRepository
	userRepo domain.UserRepository
	worker   *workers.StreakWorker
	now      func() time.Time
}

func NewEventService(repo domain.ReminderEventRepository, userRepo domain.UserRepository, worker *workers.StreakWorker) *EventService {
	return &EventService{
		repo:     repo,
		userRepo: userRepo,
		worker:   worker,
		now:      time.Now,
	}
}

func (s *EventService) WithClock(now func() time.Time) *EventService {
	s.now = now
	return s
}

// List returns the user's full event history in chronological order.
func (s *EventService) List(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	events, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return scheduling.SortEventsChronologically(events), nil
}

// MarkOutcome records the one-shot drank/skipped transition for a ping.
func (s *EventService) MarkOutcome(ctx context.Context, eventID, userID, status string) (*domain.ReminderEvent, error) {
	event, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	if err := event.MarkOutcome(status); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, event); err != nil {
		return nil, err
	}

	s.worker.Enqueue(userID)

	return event, nil
}

// NextPing finds the user's earliest still-scheduled reminder at or
// after the current moment in their timezone.
func (s *EventService) NextPing(ctx context.Context, userID string) (*domain.ReminderEvent, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return scheduling.FirstScheduledAt(events, user.Location(), s.now()), nil
}

// ClearHistory resets every recorded outcome back to scheduled.
func (s *EventService) ClearHistory(ctx context.Context, userID string) (int, error) {
	reset, err := s.repo.ResetOutcomes(ctx, userID)
	if err != nil {
		return 0, err
	}

	s.worker.Enqueue(userID)

	return reset, nil
}
