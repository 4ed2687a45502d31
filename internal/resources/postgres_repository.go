package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type resourceDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository reads resources from the relational database.
type PostgresRepository struct {
	db resourceDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("resources: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

func newRepositoryWithDB(db resourceDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID fetches an active resource.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Resource, error) {
	query := `
		SELECT id, business_id, name, bookable_type_id, package_id, base_price, currency, is_active, created_at
		FROM resources
		WHERE id = $1 AND is_active
	`
	row := r.db.QueryRow(ctx, query, id)
	var res Resource
	if err := row.Scan(
		&res.ID,
		&res.BusinessID,
		&res.Name,
		&res.BookableTypeID,
		&res.PackageID,
		&res.BasePrice,
		&res.Currency,
		&res.IsActive,
		&res.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceNotFound
		}
		return nil, fmt.Errorf("resources: select failed: %w", err)
	}
	return &res, nil
}

// ListByBusiness returns the active resources for a business.
func (r *PostgresRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Resource, error) {
	query := `
		SELECT id, business_id, name, bookable_type_id, package_id, base_price, currency, is_active, created_at
		FROM resources
		WHERE business_id = $1 AND is_active
		ORDER BY name
	`
	rows, err := r.db.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("resources: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Resource
	for rows.Next() {
		var res Resource
		if err := rows.Scan(
			&res.ID,
			&res.BusinessID,
			&res.Name,
			&res.BookableTypeID,
			&res.PackageID,
			&res.BasePrice,
			&res.Currency,
			&res.IsActive,
			&res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("resources: scan failed: %w", err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}
