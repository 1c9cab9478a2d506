package workers

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/hydroping/hydration-ping-engine/internal/core/scheduling"
)

type UserLister interface {
	List(ctx context.Context) ([]*domain.User, error)
}

type ScheduleLister interface {
	ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error)
}

type ScheduleEventLister interface {
	ListByScheduleID(ctx context.Context, scheduleID string) ([]*domain.ReminderEvent, error)
}

type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// ReminderWorker is the SMS dispatch loop: once a minute it walks the
// user base and texts pro users whose next ping is due right now in
// their own timezone. Delivery failures are logged, never retried; the
// next matching minute comes tomorrow at the earliest.
type ReminderWorker struct {
	users     UserLister
	schedules ScheduleLister
	events    ScheduleEventLister
	notifier  Notifier
	interval  time.Duration
	now       func() time.Time
}

func NewReminderWorker(users UserLister, schedules ScheduleLister, events ScheduleEventLister, notifier Notifier) *ReminderWorker {
	return &ReminderWorker{
		users:     users,
		schedules: schedules,
		events:    events,
		notifier:  notifier,
		interval:  time.Minute,
		now:       time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Reminder Worker started in background...")
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				w.Tick(ctx, w.now())
			case <-ctx.Done():
				log.Println("Reminder Worker shutting down...")
				return
			}
		}
	}()
}

// Tick runs one dispatch pass for the given moment. Exposed so tests
// can drive the loop with a fixed clock.
func (w *ReminderWorker) Tick(ctx context.Context, now time.Time) {
	users, err := w.users.List(ctx)
	if err != nil {
		log.Printf("Reminder Worker failed to list users: %v", err)
		return
	}

	for _, user := range users {
		if !user.IsPro() || user.Phone == "" {
			continue
		}
		w.dispatchForUser(ctx, user, now)
	}
}

func (w *ReminderWorker) dispatchForUser(ctx context.Context, user *domain.User, now time.Time) {
	loc := user.Location()
	local := now.In(loc)
	todayKey := scheduling.DateKey(now, loc)
	currentMinutes := local.Hour()*60 + local.Minute()

	schedules, err := w.schedules.ListByUserID(ctx, user.ID)
	if err != nil {
		log.Printf("Reminder Worker failed to list schedules for %s: %v", user.ID, err)
		return
	}

	for _, schedule := range schedules {
		if !schedule.IsActive || !schedule.RunsOn(int(local.Weekday())) {
			continue
		}

		events, err := w.events.ListByScheduleID(ctx, schedule.ID)
		if err != nil {
			log.Printf("Reminder Worker failed to list events for schedule %s: %v", schedule.ID, err)
			continue
		}

		for _, ev := range events {
			if ev.Status != domain.StatusScheduled || ev.Date != todayKey {
				continue
			}
			if scheduling.ParseTimeToMinutes(ev.Time) != currentMinutes {
				continue
			}

			body := fmt.Sprintf("💧 Hydration check! It's %s. Time to drink!", ev.Time)
			if err := w.notifier.Send(ctx, user.Phone, body); err != nil {
				log.Printf("Reminder Worker SMS to %s failed: %v", user.ID, err)
			} else {
				log.Printf("Reminder sent to %s for %s %s", user.Email, ev.Date, ev.Time)
			}
		}
	}
}
