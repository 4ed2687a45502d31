package exceptions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type exceptionsDB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads blackout and recurring-block rows. Admin surfaces own the
// writes.
type Store struct {
	db exceptionsDB
}

// NewStore initializes a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("exceptions: pgx pool required")
	}
	return &Store{db: pool}
}

func newStoreWithDB(db exceptionsDB) *Store {
	return &Store{db: db}
}

// ListBlackoutsInRange returns blackouts overlapping [from, to).
func (s *Store) ListBlackoutsInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]Blackout, error) {
	query := `
		SELECT id, resource_id, start_datetime, end_datetime, reason
		FROM blackouts
		WHERE resource_id = $1 AND start_datetime < $3 AND end_datetime > $2
		ORDER BY start_datetime
	`
	rows, err := s.db.Query(ctx, query, resourceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("exceptions: list blackouts failed: %w", err)
	}
	defer rows.Close()

	var out []Blackout
	for rows.Next() {
		var b Blackout
		if err := rows.Scan(&b.ID, &b.ResourceID, &b.Start, &b.End, &b.Reason); err != nil {
			return nil, fmt.Errorf("exceptions: scan blackout failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListActiveBlocksForWeekday returns the active recurring blocks on one
// weekday.
func (s *Store) ListActiveBlocksForWeekday(ctx context.Context, resourceID uuid.UUID, weekday int) ([]RecurringBlock, error) {
	query := `
		SELECT id, resource_id, day_of_week, start_time, end_time, reason, is_active
		FROM recurring_blocks
		WHERE resource_id = $1 AND day_of_week = $2 AND is_active
		ORDER BY start_time
	`
	rows, err := s.db.Query(ctx, query, resourceID, weekday)
	if err != nil {
		return nil, fmt.Errorf("exceptions: list blocks failed: %w", err)
	}
	defer rows.Close()

	var out []RecurringBlock
	for rows.Next() {
		var b RecurringBlock
		var start, end pgtype.Time
		if err := rows.Scan(&b.ID, &b.ResourceID, &b.DayOfWeek, &start, &end, &b.Reason, &b.IsActive); err != nil {
			return nil, fmt.Errorf("exceptions: scan block failed: %w", err)
		}
		b.StartMinute = minutesOf(start)
		b.EndMinute = minutesOf(end)
		out = append(out, b)
	}
	return out, rows.Err()
}

func minutesOf(t pgtype.Time) int {
	return int(t.Microseconds / int64(60*1_000_000))
}
