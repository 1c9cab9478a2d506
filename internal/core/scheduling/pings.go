package scheduling

import (
	"math"
	"sort"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

type minuteRange struct {
	start int
	end   int
}

// ComputePingTimes derives the ordered ping times for a single active
// day of the schedule. Pings are spaced evenly strictly inside the
// awake window ((end-start)/(numPings+1) keeps them off the endpoints),
// rounded to the nearest 5 minutes for human-friendly times, clamped
// back into the window, and dropped when they land inside a quiet
// period. Quiet containment is half-open: a ping exactly at the quiet
// end is kept, exactly at the start is not. No redistribution happens
// for suppressed pings, so fewer than NumPings times may come back.
func ComputePingTimes(schedule *domain.Schedule) []string {
	start := ParseTimeToMinutes(schedule.StartTime)
	end := ParseTimeToMinutes(schedule.EndTime)
	if end <= start || schedule.NumPings < 1 {
		return nil
	}

	quiet := make([]minuteRange, 0, len(schedule.QuietPeriods))
	for _, qp := range schedule.QuietPeriods {
		quiet = append(quiet, minuteRange{
			start: ParseTimeToMinutes(qp.Start),
			end:   ParseTimeToMinutes(qp.End),
		})
	}

	interval := float64(end-start) / float64(schedule.NumPings+1)

	seen := make(map[int]bool)
	var minutes []int

	for i := 1; i <= schedule.NumPings; i++ {
		raw := float64(start) + interval*float64(i)
		rounded := int(math.Round(raw/5)) * 5
		minute := clampInt(rounded, start, end)

		inQuiet := false
		for _, qp := range quiet {
			if minute >= qp.start && minute < qp.end {
				inQuiet = true
				break
			}
		}
		if inQuiet || seen[minute] {
			continue
		}

		seen[minute] = true
		minutes = append(minutes, minute)
	}

	sort.Ints(minutes)

	times := make([]string, 0, len(minutes))
	for _, m := range minutes {
		times = append(times, FormatMinutesToTime(m))
	}
	return times
}

// Ping is one concrete upcoming reminder instant.
type Ping struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// NextPing finds the first ping strictly after the current minute,
// scanning today and then up to a week ahead. Returns nil when the
// schedule is inactive or yields no times.
func NextPing(schedule *domain.Schedule, loc *time.Location, now time.Time) *Ping {
	if !schedule.IsActive {
		return nil
	}

	times := ComputePingTimes(schedule)
	if len(times) == 0 {
		return nil
	}

	local := now.In(loc)
	currentMinutes := local.Hour()*60 + local.Minute()

	if schedule.RunsOn(int(local.Weekday())) {
		for _, t := range times {
			if ParseTimeToMinutes(t) > currentMinutes {
				return &Ping{Date: local.Format(dateKeyLayout), Time: t}
			}
		}
	}

	for offset := 1; offset <= 7; offset++ {
		day := local.AddDate(0, 0, offset)
		if !schedule.RunsOn(int(day.Weekday())) {
			continue
		}
		return &Ping{Date: day.Format(dateKeyLayout), Time: times[0]}
	}

	return nil
}
