package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hydroping/hydration-ping-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresScheduleRepository struct {
	db *sqlx.DB
}

func NewPostgresScheduleRepository(db *sqlx.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresScheduleRepository) scanRow(row scannable) (*domain.Schedule, error) {
	var s domain.Schedule
	var daysJSON, quietJSON []byte

	err := row.Scan(
		&s.ID, &s.UserID, &s.Name,
		&daysJSON, &s.StartTime, &s.EndTime, &s.NumPings, &quietJSON, &s.IsActive,
		&s.Version, &s.CreatedAt, &s.UpdatedAt, &s.DeletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(daysJSON) > 0 {
		if err := json.Unmarshal(daysJSON, &s.DaysOfWeek); err != nil {
			return nil, fmt.Errorf("failed to unmarshal days_of_week: %w", err)
		}
	}
	if len(quietJSON) > 0 {
		if err := json.Unmarshal(quietJSON, &s.QuietPeriods); err != nil {
			return nil, fmt.Errorf("failed to unmarshal quiet_periods: %w", err)
		}
	}

	return &s, nil
}

func (r *PostgresScheduleRepository) Create(ctx context.Context, s *domain.Schedule) error {
	daysJSON, err := json.Marshal(s.DaysOfWeek)
	if err != nil {
		return fmt.Errorf("failed to marshal days_of_week: %w", err)
	}
	quietJSON, err := json.Marshal(s.QuietPeriods)
	if err != nil {
		return fmt.Errorf("failed to marshal quiet_periods: %w", err)
	}

	query := `
        INSERT INTO schedules (
            id, user_id, name,
            days_of_week, start_time, end_time, num_pings, quiet_periods, is_active,
            version, created_at, updated_at, deleted_at
        ) VALUES (
            $1, $2, $3,
            $4, $5, $6, $7, $8, $9,
            1, $10, $11, NULL
        )`

	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.Name,
		daysJSON, s.StartTime, s.EndTime, s.NumPings, quietJSON, s.IsActive,
		s.CreatedAt, s.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert schedule: %w", err)
	}

	s.Version = 1
	return nil
}

func (r *PostgresScheduleRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	query := `SELECT * FROM schedules WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	s, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return s, nil
}

func (r *PostgresScheduleRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Schedule, error) {
	query := `
        SELECT * FROM schedules
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var schedules []*domain.Schedule

	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		schedules = append(schedules, s)
	}

	return schedules, rows.Err()
}

func (r *PostgresScheduleRepository) Update(ctx context.Context, s *domain.Schedule) error {
	daysJSON, err := json.Marshal(s.DaysOfWeek)
	if err != nil {
		return err
	}
	quietJSON, err := json.Marshal(s.QuietPeriods)
	if err != nil {
		return err
	}

	query := `
        UPDATE schedules SET
            name=$1, days_of_week=$2, start_time=$3, end_time=$4,
            num_pings=$5, quiet_periods=$6, is_active=$7,
            updated_at=NOW(), version = version + 1
        WHERE id=$8 AND version=$9 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		s.Name, daysJSON, s.StartTime, s.EndTime,
		s.NumPings, quietJSON, s.IsActive,
		s.ID, s.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	err = row.Scan(&newVersion, &newUpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			existsQuery := `SELECT count(*) FROM schedules WHERE id = $1`
			var count int
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, s.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}

			if count == 0 {
				return domain.ErrScheduleNotFound
			}
			return domain.ErrScheduleConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	s.Version = newVersion
	s.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresScheduleRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE schedules
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrScheduleNotFound
	}

	return nil
}
