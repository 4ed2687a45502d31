package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error code for exclusion constraint violations; raised when two
// reserve statements race on the same range and one loses.
const exclusionViolation = "23P01"

type bookingDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for bookings, including the atomic
// reserve path.
type Repository struct {
	db bookingDB
}

// NewRepository creates a repository backed by pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("bookings: pgx pool required")
	}
	return &Repository{db: pool}
}

func newRepositoryWithDB(db bookingDB) *Repository {
	return &Repository{db: db}
}

// ReserveParams describes one reservation attempt.
type ReserveParams struct {
	ResourceID          uuid.UUID
	Start               time.Time
	End                 time.Time
	BufferBeforeMinutes int
	BufferAfterMinutes  int
	ResolvedPrice       float64
	ScheduleSnapshot    any
}

// Reserve inserts a confirmed booking iff no conflicting active booking
// exists for the resource and buffered range. The conflict check and the
// insert are one SQL statement; the buffer minutes are stored on the row so
// the buffered exclusion constraint rejects the loser when two statements
// race past each other's snapshot. Returns ErrSlotUnavailable when the slot
// is already held.
func (r *Repository) Reserve(ctx context.Context, p ReserveParams) (*Booking, error) {
	var snapshot []byte
	if p.ScheduleSnapshot != nil {
		var err error
		if snapshot, err = json.Marshal(p.ScheduleSnapshot); err != nil {
			return nil, fmt.Errorf("bookings: marshal snapshot: %w", err)
		}
	}

	id := uuid.New()
	query := `
		INSERT INTO bookings (id, resource_id, start_datetime, end_datetime, buffer_before_minutes, buffer_after_minutes, status, resolved_price, schedule_snapshot)
		SELECT $1, $2, $3, $4, $8, $9, $5, $6, $7
		WHERE NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.resource_id = $2
			  AND b.status IN ('pending', 'confirmed')
			  AND b.start_datetime - make_interval(mins => b.buffer_before_minutes) < $4 + make_interval(mins => $9)
			  AND b.end_datetime + make_interval(mins => b.buffer_after_minutes) > $3 - make_interval(mins => $8)
		)
		RETURNING created_at
	`
	var createdAt time.Time
	err := r.db.QueryRow(ctx, query,
		id,
		p.ResourceID,
		p.Start,
		p.End,
		StatusConfirmed,
		p.ResolvedPrice,
		snapshot,
		p.BufferBeforeMinutes,
		p.BufferAfterMinutes,
	).Scan(&createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == exclusionViolation {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("bookings: reserve failed: %w", err)
	}

	return &Booking{
		ID:               id,
		ResourceID:       p.ResourceID,
		Start:            p.Start,
		End:              p.End,
		Status:           StatusConfirmed,
		ResolvedPrice:    p.ResolvedPrice,
		ScheduleSnapshot: snapshot,
		CreatedAt:        createdAt,
	}, nil
}

// ListActiveInRange returns pending/confirmed bookings overlapping
// [from, to), ordered by start.
func (r *Repository) ListActiveInRange(ctx context.Context, resourceID uuid.UUID, from, to time.Time) ([]Booking, error) {
	query := `
		SELECT id, resource_id, start_datetime, end_datetime, status, resolved_price, created_at
		FROM bookings
		WHERE resource_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_datetime < $3
		  AND end_datetime > $2
		ORDER BY start_datetime
	`
	rows, err := r.db.Query(ctx, query, resourceID, from, to)
	if err != nil {
		return nil, fmt.Errorf("bookings: list failed: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.ResourceID, &b.Start, &b.End, &b.Status, &b.ResolvedPrice, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("bookings: scan failed: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetByID fetches one booking.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `
		SELECT id, resource_id, start_datetime, end_datetime, status, resolved_price, schedule_snapshot, created_at
		FROM bookings
		WHERE id = $1
	`
	var b Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ResourceID, &b.Start, &b.End, &b.Status, &b.ResolvedPrice, &b.ScheduleSnapshot, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return &b, nil
}

// Cancel releases a booking's slot immediately. Cancelling an already
// cancelled booking is a no-op error.
func (r *Repository) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
		RETURNING id, resource_id, start_datetime, end_datetime, status, resolved_price, created_at
	`
	var b Booking
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.ResourceID, &b.Start, &b.End, &b.Status, &b.ResolvedPrice, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: cancel failed: %w", err)
	}
	return &b, nil
}
