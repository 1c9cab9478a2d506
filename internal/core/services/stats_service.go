package services

import (
	"context"
	"sort"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/scheduling"
)

type StatsService struct {
	userRepo  domain.UserRepository
	eventRepo domain.ReminderEventRepository
	threshold float64
	now       func() time.Time
}

func NewStatsService(userRepo domain.UserRepository, eventRepo domain.ReminderEventRepository, threshold float64) *StatsService {
	if threshold <= 0 || threshold > 1 {
		threshold = scheduling.DefaultSuccessThreshold
	}
	return &StatsService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		threshold: threshold,
		now:       time.Now,
	}
}

func (s *StatsService) WithClock(now func() time.Time) *StatsService {
	s.now = now
	return s
}

// GetSummary derives the user's daily completion aggregates and streak
// counts from the full event history, in the user's timezone. Nothing
// here is persisted; the same history always yields the same summary.
func (s *StatsService) GetSummary(ctx context.Context, userID string) (*domain.HydrationSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := scheduling.BuildDailyStats(events)

	days := make([]domain.DailyStat, 0, len(stats))
	for _, day := range stats {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	streaks := scheduling.ComputeStreaks(events, user.Location(), s.now(), s.threshold)

	return &domain.HydrationSummary{
		Days:    days,
		Streaks: streaks,
	}, nil
}
