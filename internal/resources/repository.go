package resources

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the read operations the engine needs for resources.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Resource, error)
	ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*Resource, error)
}
