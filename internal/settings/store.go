package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type settingsDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads slot settings. Admin surfaces own the writes.
type Store struct {
	db settingsDB
}

// NewStore initializes a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("settings: pgx pool required")
	}
	return &Store{db: pool}
}

func newStoreWithDB(db settingsDB) *Store {
	return &Store{db: db}
}

// GetForResource returns the resource's slot settings, falling back to
// defaults when no row exists. Malformed rows are surfaced as configuration
// errors rather than silently replaced.
func (s *Store) GetForResource(ctx context.Context, resourceID uuid.UUID) (Settings, error) {
	query := `
		SELECT resource_id, slot_increment_minutes, buffer_before_minutes,
		       buffer_after_minutes, min_advance_hours, max_advance_days
		FROM slot_settings
		WHERE resource_id = $1
	`
	row := s.db.QueryRow(ctx, query, resourceID)

	var out Settings
	if err := row.Scan(
		&out.ResourceID,
		&out.SlotIncrementMinutes,
		&out.BufferBeforeMinutes,
		&out.BufferAfterMinutes,
		&out.MinAdvanceHours,
		&out.MaxAdvanceDays,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Defaults(resourceID), nil
		}
		return Settings{}, fmt.Errorf("settings: select failed: %w", err)
	}
	if err := out.Validate(); err != nil {
		return Settings{}, err
	}
	return out, nil
}
