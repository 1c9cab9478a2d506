// Package scheduling holds the pure ping-time and statistics
// computations. Every function here is deterministic over its
// arguments: the current moment and timezone are always injected,
// never read from the ambient clock.
package scheduling

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateKeyLayout = "2006-01-02"

// ParseTimeToMinutes converts an "HH:mm" wall-clock string to minutes
// since midnight. Malformed input never errors: the hour is clamped to
// [0,23], the minute to [0,59], and unparsable components default to 0.
func ParseTimeToMinutes(value string) int {
	parts := strings.SplitN(value, ":", 2)

	var h, m int
	if len(parts) > 0 {
		h, _ = strconv.Atoi(strings.TrimSpace(parts[0]))
	}
	if len(parts) > 1 {
		m, _ = strconv.Atoi(strings.TrimSpace(parts[1]))
	}

	h = clampInt(h, 0, 23)
	m = clampInt(m, 0, 59)
	return h*60 + m
}

// FormatMinutesToTime renders minutes-since-midnight as a zero-padded
// "HH:mm" string, normalizing values outside a single day.
func FormatMinutesToTime(minutes int) string {
	normalized := ((minutes % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", normalized/60, normalized%60)
}

// DateKey renders the calendar date of t in the given location as
// "YYYY-MM-DD".
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateKeyLayout)
}

// AddDaysToDateKey shifts a "YYYY-MM-DD" key by delta calendar days.
// An unparsable key is returned unchanged.
func AddDaysToDateKey(key string, delta int) string {
	base, err := time.ParseInLocation(dateKeyLayout, key, time.UTC)
	if err != nil {
		return key
	}
	return base.AddDate(0, 0, delta).Format(dateKeyLayout)
}

// DaysBetweenDateKeys returns b minus a in whole calendar days, or
// false when either key is malformed.
func DaysBetweenDateKeys(a, b string) (int, bool) {
	aDate, errA := time.ParseInLocation(dateKeyLayout, a, time.UTC)
	bDate, errB := time.ParseInLocation(dateKeyLayout, b, time.UTC)
	if errA != nil || errB != nil {
		return 0, false
	}
	return int(bDate.Sub(aDate).Hours() / 24), true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
