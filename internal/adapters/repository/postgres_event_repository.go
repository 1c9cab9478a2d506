package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
)

type PostgresEventRepository struct {
	db *sqlx.DB
}

func NewPostgresEventRepository(db *sqlx.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*domain.ReminderEvent, error) {
	var event domain.ReminderEvent
	query := `SELECT * FROM reminder_events WHERE id = $1`

	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *PostgresEventRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.ReminderEvent, error) {
	events := []*domain.ReminderEvent{}

	query := `
		SELECT * FROM reminder_events
		WHERE user_id = $1
		ORDER BY ping_date ASC, ping_time ASC`

	err := r.db.SelectContext(ctx, &events, query, userID)
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *PostgresEventRepository) ListByScheduleID(ctx context.Context, scheduleID string) ([]*domain.ReminderEvent, error) {
	events := []*domain.ReminderEvent{}

	query := `
		SELECT * FROM reminder_events
		WHERE schedule_id = $1
		ORDER BY ping_date ASC, ping_time ASC`

	err := r.db.SelectContext(ctx, &events, query, scheduleID)
	if err != nil {
		return nil, err
	}
	return events, nil
}

// ReplaceWindow swaps the schedule's forward event window atomically.
// History strictly before fromDate is left alone, so recorded outcomes
// on past days survive every regeneration.
func (r *PostgresEventRepository) ReplaceWindow(ctx context.Context, scheduleID, fromDate string, events []*domain.ReminderEvent) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM reminder_events WHERE schedule_id = $1 AND ping_date >= $2`,
		scheduleID, fromDate,
	)
	if err != nil {
		return fmt.Errorf("failed to clear event window: %w", err)
	}

	insert := `
		INSERT INTO reminder_events (
			id, user_id, schedule_id,
			ping_date, ping_time, status,
			created_at, updated_at
		) VALUES (
			:id, :user_id, :schedule_id,
			:ping_date, :ping_time, :status,
			:created_at, :updated_at
		)`

	for _, event := range events {
		if event.ID == "" {
			event.ID = uuid.NewString()
		}

		if _, err := tx.NamedExecContext(ctx, insert, event); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				if pqErr.Code == "23503" {
					return errors.New("referenced schedule or user does not exist")
				}
			}
			return fmt.Errorf("failed to insert event %s: %w", event.Key(), err)
		}
	}

	return tx.Commit()
}

func (r *PostgresEventRepository) UpdateStatus(ctx context.Context, event *domain.ReminderEvent) error {
	event.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE reminder_events
		SET status = :status,
		    updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func (r *PostgresEventRepository) ResetOutcomes(ctx context.Context, userID string) (int, error) {
	query := `
		UPDATE reminder_events
		SET status = $1, updated_at = NOW()
		WHERE user_id = $2 AND status IN ($3, $4)`

	result, err := r.db.ExecContext(ctx, query,
		domain.StatusScheduled, userID, domain.StatusDrank, domain.StatusSkipped,
	)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
