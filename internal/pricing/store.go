package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pricingDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store reads pricing rules. Admin surfaces own the writes; the engine
// treats rule rows as read-only inputs.
type Store struct {
	db pricingDB
}

// NewStore initializes a store backed by pgxpool.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("pricing: pgx pool required")
	}
	return &Store{db: pool}
}

func newStoreWithDB(db pricingDB) *Store {
	return &Store{db: db}
}

// ListActiveForBusiness returns the business's active rules. Validity
// windows and scope narrowing are evaluated by Resolve, not here, so one
// query serves any request time.
func (s *Store) ListActiveForBusiness(ctx context.Context, businessID uuid.UUID) ([]Rule, error) {
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM businesses WHERE id = $1)`, businessID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("pricing: business lookup failed: %w", err)
	}
	if !exists {
		return nil, ErrBusinessNotFound
	}

	query := `
		SELECT id, business_id, bookable_type_id, package_id, rule_type,
		       modifier_type, modifier_value, priority, valid_from, valid_until, is_active
		FROM pricing_rules
		WHERE business_id = $1 AND is_active
		ORDER BY priority, created_at
	`
	rows, err := s.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("pricing: list rules failed: %w", err)
	}
	defer rows.Close()

	var out []Rule
	for rows.Next() {
		var r Rule
		if err := rows.Scan(
			&r.ID,
			&r.BusinessID,
			&r.BookableTypeID,
			&r.PackageID,
			&r.RuleType,
			&r.ModifierType,
			&r.ModifierValue,
			&r.Priority,
			&r.ValidFrom,
			&r.ValidUntil,
			&r.IsActive,
		); err != nil {
			return nil, fmt.Errorf("pricing: scan rule failed: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
