package domain

import (
	"errors"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrScheduleNameEmpty     = errors.New("schedule name cannot be empty")
	ErrScheduleNameTooLong   = errors.New("schedule name is too long (max 100 chars)")
	ErrScheduleInvalidUserID = errors.New("invalid user id")
	ErrInvalidWeekdays       = errors.New("invalid weekdays (must be 0-6)")
	ErrInvalidTimeFormat     = errors.New("invalid time format (must be HH:mm 24h)")
	ErrInvalidPingCount      = errors.New("ping count must be between 1 and 48")
	ErrInvalidQuietPeriod    = errors.New("quiet period start must not be after its end")
	ErrScheduleLimitReached  = errors.New("active schedule limit reached for tier")
)

var wallClockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	MaxNameLen  = 100
	MaxNumPings = 48
)

// QuietPeriod is a minute-of-day range during which no ping may be placed.
// Containment is half-open: a ping exactly at End is allowed, at Start is not.
type QuietPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Schedule struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`
	Name   string `json:"name" db:"name"`

	DaysOfWeek   []int         `json:"days_of_week"`
	StartTime    string        `json:"start_time" db:"start_time"`
	EndTime      string        `json:"end_time" db:"end_time"`
	NumPings     int           `json:"num_pings" db:"num_pings"`
	QuietPeriods []QuietPeriod `json:"quiet_periods"`
	IsActive     bool          `json:"is_active" db:"is_active"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func normalizeWeekdays(days []int) []int {
	if len(days) == 0 {
		return nil
	}

	uniqueMap := make(map[int]bool)
	var uniqueDays []int
	for _, d := range days {
		if !uniqueMap[d] {
			uniqueMap[d] = true
			uniqueDays = append(uniqueDays, d)
		}
	}

	sort.Ints(uniqueDays)
	return uniqueDays
}

func validateSchedule(name, startTime, endTime string, numPings int, weekdays []int, quiet []QuietPeriod) error {
	if strings.TrimSpace(name) == "" {
		return ErrScheduleNameEmpty
	}
	if len(strings.TrimSpace(name)) > MaxNameLen {
		return ErrScheduleNameTooLong
	}

	// A reversed or empty window is legal and simply yields zero pings,
	// but the strings themselves must be well-formed wall-clock times.
	if !wallClockRegex.MatchString(startTime) || !wallClockRegex.MatchString(endTime) {
		return ErrInvalidTimeFormat
	}

	if numPings < 1 || numPings > MaxNumPings {
		return ErrInvalidPingCount
	}

	for _, day := range weekdays {
		if day < 0 || day > 6 {
			return ErrInvalidWeekdays
		}
	}

	for _, qp := range quiet {
		if !wallClockRegex.MatchString(qp.Start) || !wallClockRegex.MatchString(qp.End) {
			return ErrInvalidTimeFormat
		}
		// Zero-padded HH:mm compares chronologically as a string.
		if qp.Start > qp.End {
			return ErrInvalidQuietPeriod
		}
	}

	return nil
}

func NewSchedule(userID, name string, weekdays []int, startTime, endTime string, numPings int, quiet []QuietPeriod) (*Schedule, error) {
	if userID == "" {
		return nil, ErrScheduleInvalidUserID
	}

	if err := validateSchedule(name, startTime, endTime, numPings, weekdays, quiet); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &Schedule{
		ID:           uuid.New().String(),
		UserID:       userID,
		Name:         strings.TrimSpace(name),
		DaysOfWeek:   normalizeWeekdays(weekdays),
		StartTime:    startTime,
		EndTime:      endTime,
		NumPings:     numPings,
		QuietPeriods: quiet,
		IsActive:     true,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *Schedule) Update(name string, weekdays []int, startTime, endTime string, numPings int, quiet []QuietPeriod) error {
	if err := validateSchedule(name, startTime, endTime, numPings, weekdays, quiet); err != nil {
		return err
	}

	s.Name = strings.TrimSpace(name)
	s.DaysOfWeek = normalizeWeekdays(weekdays)
	s.StartTime = startTime
	s.EndTime = endTime
	s.NumPings = numPings
	s.QuietPeriods = quiet
	s.UpdatedAt = time.Now().UTC()

	return nil
}

func (s *Schedule) Activate() {
	if s.IsActive {
		return
	}
	s.IsActive = true
	s.UpdatedAt = time.Now().UTC()
}

func (s *Schedule) Deactivate() {
	if !s.IsActive {
		return
	}
	s.IsActive = false
	s.UpdatedAt = time.Now().UTC()
}

// RunsOn reports whether the schedule is configured for the given
// weekday index (0=Sunday..6=Saturday).
func (s *Schedule) RunsOn(weekday int) bool {
	for _, d := range s.DaysOfWeek {
		if d == weekday {
			return true
		}
	}
	return false
}
