package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEvent           = errors.New("invalid reminder event data")
	ErrInvalidStatus          = errors.New("invalid reminder status (must be drank or skipped)")
	ErrOutcomeAlreadyRecorded = errors.New("reminder outcome has already been recorded")
)

const (
	StatusScheduled = "scheduled"
	StatusDrank     = "drank"
	StatusSkipped   = "skipped"
)

// ReminderEvent is one concrete, dated hydration ping. The schedule
// reference is weak: events outlive an edited or deleted schedule so
// history stays intact.
type ReminderEvent struct {
	ID         string `json:"id" db:"id"`
	UserID     string `json:"user_id" db:"user_id"`
	ScheduleID string `json:"schedule_id" db:"schedule_id"`

	Date   string `json:"date" db:"ping_date"` // "YYYY-MM-DD" in the user's timezone
	Time   string `json:"time" db:"ping_time"` // "HH:mm"
	Status string `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewReminderEvent(userID, scheduleID, date, pingTime string) *ReminderEvent {
	now := time.Now().UTC()

	return &ReminderEvent{
		ID:         uuid.New().String(),
		UserID:     userID,
		ScheduleID: scheduleID,
		Date:       date,
		Time:       pingTime,
		Status:     StatusScheduled,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (e *ReminderEvent) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return errors.New("user_id is required")
	}
	if strings.TrimSpace(e.ScheduleID) == "" {
		return errors.New("schedule_id is required")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}
	if !wallClockRegex.MatchString(e.Time) {
		return ErrInvalidTimeFormat
	}
	switch e.Status {
	case StatusScheduled, StatusDrank, StatusSkipped:
	default:
		return ErrInvalidStatus
	}
	return nil
}

// Key identifies an event for reconciliation: regeneration after a
// schedule edit matches on (date, time), never on ID.
func (e *ReminderEvent) Key() string {
	return e.Date + "T" + e.Time
}

// MarkOutcome transitions the event exactly once from scheduled to a
// terminal status.
func (e *ReminderEvent) MarkOutcome(status string) error {
	if status != StatusDrank && status != StatusSkipped {
		return ErrInvalidStatus
	}
	if e.Status != StatusScheduled {
		return ErrOutcomeAlreadyRecorded
	}

	e.Status = status
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (e *ReminderEvent) IsResolved() bool {
	return e.Status == StatusDrank || e.Status == StatusSkipped
}

// ResetOutcome reverts a terminal status back to scheduled. Only the
// bulk clear-history operation goes through here.
func (e *ReminderEvent) ResetOutcome() {
	if !e.IsResolved() {
		return
	}
	e.Status = StatusScheduled
	e.UpdatedAt = time.Now().UTC()
}
