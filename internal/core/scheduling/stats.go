package scheduling

import (
	"math"
	"sort"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

// DefaultSuccessThreshold is the completion ratio a day must reach to
// count toward a streak. A policy constant, not derived from data.
const DefaultSuccessThreshold = 0.6

// BuildDailyStats groups the event history by calendar date. Events
// without a date contribute to no day. The result is derived fresh on
// every call and never persisted.
func BuildDailyStats(events []*domain.ReminderEvent) map[string]domain.DailyStat {
	stats := make(map[string]domain.DailyStat)

	for _, ev := range events {
		if ev.Date == "" {
			continue
		}

		day := stats[ev.Date]
		day.Date = ev.Date
		day.Total++
		switch ev.Status {
		case domain.StatusDrank:
			day.Drank++
		case domain.StatusSkipped:
			day.Skipped++
		}
		stats[ev.Date] = day
	}

	for key, day := range stats {
		if day.Total > 0 {
			day.Completion = int(math.Round(float64(day.Drank) / float64(day.Total) * 100))
		}
		stats[key] = day
	}

	return stats
}

// IsSuccessfulDay reports whether a day counts toward a streak: at
// least one scheduled ping, and a drank ratio at or above the
// threshold. A day with zero pings is never successful.
func IsSuccessfulDay(stat domain.DailyStat, threshold float64) bool {
	return stat.Total > 0 && float64(stat.Drank)/float64(stat.Total) >= threshold
}

// ComputeStreaks derives the running and best streaks from the event
// history. The best streak is the longest run of successful days each
// exactly one calendar day after the previous; the current streak walks
// backward from today (in loc), stopping at the first unsuccessful or
// empty day.
func ComputeStreaks(events []*domain.ReminderEvent, loc *time.Location, now time.Time, threshold float64) domain.StreakResult {
	stats := BuildDailyStats(events)

	var successDates []string
	for _, day := range stats {
		if IsSuccessfulDay(day, threshold) {
			successDates = append(successDates, day.Date)
		}
	}
	sort.Strings(successDates)

	best := 0
	run := 0
	prev := ""
	for _, date := range successDates {
		if gap, ok := DaysBetweenDateKeys(prev, date); prev != "" && ok && gap == 1 {
			run++
		} else {
			run = 1
		}
		prev = date
		if run > best {
			best = run
		}
	}

	current := 0
	cursor := DateKey(now, loc)
	for IsSuccessfulDay(stats[cursor], threshold) {
		current++
		cursor = AddDaysToDateKey(cursor, -1)
	}

	return domain.StreakResult{CurrentStreak: current, BestStreak: best}
}

// SortEventsChronologically returns a copy ordered by (date ascending,
// time ascending). Every chronological presentation and next-event
// lookup goes through this ordering.
func SortEventsChronologically(events []*domain.ReminderEvent) []*domain.ReminderEvent {
	sorted := make([]*domain.ReminderEvent, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Date == sorted[j].Date {
			return ParseTimeToMinutes(sorted[i].Time) < ParseTimeToMinutes(sorted[j].Time)
		}
		return sorted[i].Date < sorted[j].Date
	})

	return sorted
}

// FirstScheduledAt finds the earliest still-scheduled event at or after
// the given moment, or nil when none remains.
func FirstScheduledAt(events []*domain.ReminderEvent, loc *time.Location, now time.Time) *domain.ReminderEvent {
	local := now.In(loc)
	todayKey := local.Format(dateKeyLayout)
	currentMinutes := local.Hour()*60 + local.Minute()

	for _, ev := range SortEventsChronologically(events) {
		if ev.Status != domain.StatusScheduled {
			continue
		}
		if ev.Date < todayKey {
			continue
		}
		if ev.Date == todayKey && ParseTimeToMinutes(ev.Time) < currentMinutes {
			continue
		}
		return ev
	}

	return nil
}
