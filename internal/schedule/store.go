package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type scheduleDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads weekly schedule rows. Admin surfaces own the writes.
type Store struct {
	db scheduleDB
}

// NewStore initializes a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("schedule: pgx pool required")
	}
	return &Store{db: pool}
}

func newStoreWithDB(db scheduleDB) *Store {
	return &Store{db: db}
}

// GetForWeekday returns the schedule entry for a resource and weekday, or
// nil when no row exists.
func (s *Store) GetForWeekday(ctx context.Context, resourceID uuid.UUID, weekday int) (*Entry, error) {
	query := `
		SELECT id, resource_id, day_of_week, start_time, end_time, is_active
		FROM weekly_schedules
		WHERE resource_id = $1 AND day_of_week = $2
	`
	row := s.db.QueryRow(ctx, query, resourceID, weekday)

	var entry Entry
	var start, end pgtype.Time
	if err := row.Scan(
		&entry.ID,
		&entry.ResourceID,
		&entry.DayOfWeek,
		&start,
		&end,
		&entry.IsActive,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("schedule: select failed: %w", err)
	}
	entry.StartMinute = minutesOf(start)
	entry.EndMinute = minutesOf(end)
	return &entry, nil
}

// ListForResource returns all schedule entries for a resource, ordered by
// weekday.
func (s *Store) ListForResource(ctx context.Context, resourceID uuid.UUID) ([]*Entry, error) {
	query := `
		SELECT id, resource_id, day_of_week, start_time, end_time, is_active
		FROM weekly_schedules
		WHERE resource_id = $1
		ORDER BY day_of_week
	`
	rows, err := s.db.Query(ctx, query, resourceID)
	if err != nil {
		return nil, fmt.Errorf("schedule: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var entry Entry
		var start, end pgtype.Time
		if err := rows.Scan(
			&entry.ID,
			&entry.ResourceID,
			&entry.DayOfWeek,
			&start,
			&end,
			&entry.IsActive,
		); err != nil {
			return nil, fmt.Errorf("schedule: scan failed: %w", err)
		}
		entry.StartMinute = minutesOf(start)
		entry.EndMinute = minutesOf(end)
		out = append(out, &entry)
	}
	return out, rows.Err()
}

func minutesOf(t pgtype.Time) int {
	return int(t.Microseconds / int64(60*1_000_000))
}
