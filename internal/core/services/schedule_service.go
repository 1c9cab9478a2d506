package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/scheduling"
	"github.com/hydroping/hydration-ping-engine/internal/core/workers"
)

type ScheduleService struct {
	repo         domain.ScheduleRepository
	eventRepo    domain.ReminderEventRepository
	userRepo     domain.UserRepository
	entitlements EntitlementPolicy
	worker       *workers.StreakWorker
	now          func() time.Time
}

func NewScheduleService(repo domain.ScheduleRepository, eventRepo domain.ReminderEventRepository, userRepo domain.UserRepository, policy EntitlementPolicy, worker *workers.StreakWorker) *ScheduleService {
	if policy == nil {
		policy = DefaultEntitlements
	}
	return &ScheduleService{
		repo:         repo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		entitlements: policy,
		worker:       worker,
		now:          time.Now,
	}
}

// WithClock overrides the injected clock. Tests use this to pin "today".
func (s *ScheduleService) WithClock(now func() time.Time) *ScheduleService {
	s.now = now
	return s
}

type CreateScheduleInput struct {
	UserID       string
	Name         string
	DaysOfWeek   []int
	StartTime    string
	EndTime      string
	NumPings     int
	QuietPeriods []domain.QuietPeriod

	// Supersede discards the oldest active schedule instead of failing
	// when the tier's active-schedule limit is hit.
	Supersede bool
}

type UpdateScheduleInput struct {
	ID           string
	UserID       string
	Name         string
	DaysOfWeek   []int
	StartTime    string
	EndTime      string
	NumPings     int
	QuietPeriods []domain.QuietPeriod
	IsActive     *bool
	Version      int
}

func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*domain.Schedule, error) {
	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	caps := s.entitlements(user.Tier)

	existing, err := s.repo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	active := activeSchedules(existing)
	if len(active) >= caps.MaxActiveSchedules {
		if !input.Supersede {
			return nil, domain.ErrScheduleLimitReached
		}
		// Oldest active schedule gives way; its past events stay around
		// as history.
		sort.Slice(active, func(i, j int) bool {
			return active[i].CreatedAt.Before(active[j].CreatedAt)
		})
		if err := s.repo.Delete(ctx, active[0].ID); err != nil {
			return nil, fmt.Errorf("schedule service: failed to supersede schedule: %w", err)
		}
	}

	schedule, err := domain.NewSchedule(input.UserID, input.Name, input.DaysOfWeek, input.StartTime, input.EndTime, input.NumPings, input.QuietPeriods)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return nil, err
	}

	if err := s.regenerateEvents(ctx, user, schedule); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)

	return schedule, nil
}

func (s *ScheduleService) GetByID(ctx context.Context, id, userID string) (*domain.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, domain.ErrScheduleNotFound
	}
	return schedule, nil
}

func (s *ScheduleService) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// NextPing resolves the schedule's next reminder instant in the
// owner's timezone, nil when the schedule yields none.
func (s *ScheduleService) NextPing(ctx context.Context, id, userID string) (*scheduling.Ping, error) {
	schedule, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return scheduling.NextPing(schedule, user.Location(), s.now()), nil
}

func (s *ScheduleService) Update(ctx context.Context, input UpdateScheduleInput) (*domain.Schedule, error) {
	schedule, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if schedule.UserID != input.UserID {
		return nil, domain.ErrScheduleNotFound
	}

	if input.Version > 0 && schedule.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrScheduleConflict, input.Version, schedule.Version)
	}

	if err := schedule.Update(input.Name, input.DaysOfWeek, input.StartTime, input.EndTime, input.NumPings, input.QuietPeriods); err != nil {
		return nil, err
	}

	if input.IsActive != nil {
		if *input.IsActive {
			schedule.Activate()
		} else {
			schedule.Deactivate()
		}
	}

	if err := s.repo.Update(ctx, schedule); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.regenerateEvents(ctx, user, schedule); err != nil {
		return nil, err
	}

	s.worker.Enqueue(input.UserID)

	return schedule, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id string, userID string) error {
	schedule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if schedule.UserID != userID {
		return domain.ErrScheduleNotFound
	}

	return s.repo.Delete(ctx, id)
}

// regenerateEvents reconciles the schedule's forward event window,
// preserving outcomes already recorded for matching (date, time) keys.
func (s *ScheduleService) regenerateEvents(ctx context.Context, user *domain.User, schedule *domain.Schedule) error {
	loc := user.Location()
	now := s.now()

	existing, err := s.eventRepo.ListByScheduleID(ctx, schedule.ID)
	if err != nil {
		return err
	}

	reconciled := scheduling.ReconcileEvents(schedule, loc, now, existing)

	todayKey := scheduling.DateKey(now, loc)
	window := make([]*domain.ReminderEvent, 0, len(reconciled))
	for _, ev := range reconciled {
		if ev.Date >= todayKey {
			window = append(window, ev)
		}
	}

	if err := s.eventRepo.ReplaceWindow(ctx, schedule.ID, todayKey, window); err != nil {
		return fmt.Errorf("schedule service: failed to replace event window: %w", err)
	}

	return nil
}

func activeSchedules(schedules []*domain.Schedule) []*domain.Schedule {
	var active []*domain.Schedule
	for _, sch := range schedules {
		if sch.IsActive && sch.DeletedAt == nil {
			active = append(active, sch)
		}
	}
	return active
}
