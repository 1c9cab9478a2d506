package domain

import (
	"context"
	"errors"
)

var (
	ErrEventNotFound = errors.New("reminder event not found")
)

type ReminderEventRepository interface {
	// GetByID retrieves a single event by its ID.
	GetByID(ctx context.Context, id string) (*ReminderEvent, error)

	// ListByUserID retrieves the full event history for a user.
	ListByUserID(ctx context.Context, userID string) ([]*ReminderEvent, error)

	// ListByScheduleID retrieves all events generated from one schedule.
	ListByScheduleID(ctx context.Context, scheduleID string) ([]*ReminderEvent, error)

	// ReplaceWindow swaps the forward event window of a schedule for the
	// reconciled batch: every event of that schedule dated >= fromDate is
	// removed and the batch inserted in its place. History strictly
	// before fromDate is never touched.
	ReplaceWindow(ctx context.Context, scheduleID, fromDate string, events []*ReminderEvent) error

	// UpdateStatus persists a recorded outcome.
	UpdateStatus(ctx context.Context, event *ReminderEvent) error

	// ResetOutcomes flips every drank/skipped event of a user back to
	// scheduled. Backs the bulk clear-history operation.
	ResetOutcomes(ctx context.Context, userID string) (int, error)
}
