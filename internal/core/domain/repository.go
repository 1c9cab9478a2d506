package domain

import (
	"context"
	"errors"
)

var (
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrScheduleConflict = errors.New("schedule version conflict")
	ErrUnauthorized     = errors.New("resource does not belong to user")
)

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByStripeCustomerID resolves webhook callbacks that only carry
	// the billing provider's customer reference.
	GetByStripeCustomerID(ctx context.Context, customerID string) (*User, error)

	Update(ctx context.Context, user *User) error

	// List returns every user; the reminder dispatch loop walks it once
	// per tick.
	List(ctx context.Context) ([]*User, error)

	// UpdateStreaks persists recomputed streak counters without touching
	// the rest of the profile.
	UpdateStreaks(ctx context.Context, id string, current, best int) error
}

type ScheduleRepository interface {
	// Create persists a new schedule definition.
	Create(ctx context.Context, schedule *Schedule) error

	// GetByID retrieves a schedule by its unique identifier.
	GetByID(ctx context.Context, id string) (*Schedule, error)

	// ListByUserID retrieves all schedules owned by a user.
	ListByUserID(ctx context.Context, userID string) ([]*Schedule, error)

	// Update modifies an existing schedule.
	// Implementations must handle optimistic locking (version check).
	Update(ctx context.Context, schedule *Schedule) error

	// Delete soft-deletes a schedule. Its past events survive as history.
	Delete(ctx context.Context, id string) error
}
