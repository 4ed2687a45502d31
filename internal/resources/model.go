package resources

import (
	"time"

	"github.com/google/uuid"
)

// Resource is a bookable unit of inventory: a treatment room, a venue,
// studio hours, a desk. Pricing scope fields mirror the pricing rules so a
// resource can narrow which rules apply to it.
type Resource struct {
	ID             uuid.UUID  `json:"id"`
	BusinessID     uuid.UUID  `json:"business_id"`
	Name           string     `json:"name"`
	BookableTypeID *uuid.UUID `json:"bookable_type_id,omitempty"`
	PackageID      *uuid.UUID `json:"package_id,omitempty"`
	BasePrice      float64    `json:"base_price"`
	Currency       string     `json:"currency"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
}
