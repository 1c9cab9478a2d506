package scheduling

import (
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

const (
	// ReconcileWindowDays is the forward window regenerated whenever a
	// schedule is created or edited.
	ReconcileWindowDays = 7

	maxWindowDays = 30
)

// GenerateEventsForWindow materializes scheduled reminder events for
// the next numDays calendar days (today included) in the given
// location. Days outside the schedule's weekday mask produce nothing,
// not even placeholders; an inactive schedule produces nothing at all.
// The same base times apply to every active day because the window is
// calendar-day-relative.
func GenerateEventsForWindow(schedule *domain.Schedule, loc *time.Location, now time.Time, numDays int) []*domain.ReminderEvent {
	if !schedule.IsActive {
		return nil
	}

	numDays = clampInt(numDays, 1, maxWindowDays)

	baseTimes := ComputePingTimes(schedule)
	if len(baseTimes) == 0 {
		return nil
	}

	local := now.In(loc)

	var events []*domain.ReminderEvent
	for offset := 0; offset < numDays; offset++ {
		day := local.AddDate(0, 0, offset)
		if !schedule.RunsOn(int(day.Weekday())) {
			continue
		}

		dateKey := day.Format(dateKeyLayout)
		for _, t := range baseTimes {
			events = append(events, domain.NewReminderEvent(schedule.UserID, schedule.ID, dateKey, t))
		}
	}

	return events
}

// ReconcileEvents regenerates the forward window of a schedule against
// the existing event collection. Regenerated events that match an
// existing one on (date, time) keep that event's identity and recorded
// outcome; everything dated strictly before today is carried over
// unmodified as history. Future events the new configuration no longer
// produces are dropped.
func ReconcileEvents(schedule *domain.Schedule, loc *time.Location, now time.Time, existing []*domain.ReminderEvent) []*domain.ReminderEvent {
	todayKey := DateKey(now, loc)

	existingByKey := make(map[string]*domain.ReminderEvent, len(existing))
	for _, ev := range existing {
		existingByKey[ev.Key()] = ev
	}

	upcoming := GenerateEventsForWindow(schedule, loc, now, ReconcileWindowDays)

	merged := make([]*domain.ReminderEvent, 0, len(existing)+len(upcoming))
	for _, ev := range existing {
		if ev.Date != "" && ev.Date < todayKey {
			merged = append(merged, ev)
		}
	}

	for _, ev := range upcoming {
		if prior, ok := existingByKey[ev.Key()]; ok {
			ev.ID = prior.ID
			ev.Status = prior.Status
			ev.CreatedAt = prior.CreatedAt
			ev.UpdatedAt = prior.UpdatedAt
		}
		merged = append(merged, ev)
	}

	return merged
}
