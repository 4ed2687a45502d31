package pricing

import (
	"time"

	"github.com/google/uuid"
)

// ModifierType selects how a rule's value changes the running price.
type ModifierType string

const (
	ModifierPercentage  ModifierType = "percentage"
	ModifierFixedAmount ModifierType = "fixed_amount"
)

// Rule is a priority-ordered, time-bounded price modifier. Nil scope fields
// match any request; a set field must match the request exactly.
type Rule struct {
	ID             uuid.UUID    `json:"id"`
	BusinessID     uuid.UUID    `json:"business_id"`
	BookableTypeID *uuid.UUID   `json:"bookable_type_id,omitempty"`
	PackageID      *uuid.UUID   `json:"package_id,omitempty"`
	RuleType       string       `json:"rule_type"`
	ModifierType   ModifierType `json:"modifier_type"`
	ModifierValue  float64      `json:"modifier_value"`
	Priority       int          `json:"priority"`
	ValidFrom      *time.Time   `json:"valid_from,omitempty"`
	ValidUntil     *time.Time   `json:"valid_until,omitempty"`
	IsActive       bool         `json:"is_active"`
}

// Scope identifies what is being priced.
type Scope struct {
	BusinessID     uuid.UUID
	BookableTypeID *uuid.UUID
	PackageID      *uuid.UUID
}

// AppliedRule records one step of the compounding fold for price-preview
// tooling.
type AppliedRule struct {
	RuleID        uuid.UUID    `json:"rule_id"`
	RuleType      string       `json:"rule_type"`
	ModifierType  ModifierType `json:"modifier_type"`
	ModifierValue float64      `json:"modifier_value"`
	Priority      int          `json:"priority"`
	PriceAfter    float64      `json:"price_after"`
}

// matches reports whether the rule applies to the scope at the given time.
func (r *Rule) matches(scope Scope, at time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.BusinessID != uuid.Nil && r.BusinessID != scope.BusinessID {
		return false
	}
	if r.ValidFrom != nil && at.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidUntil != nil && at.After(*r.ValidUntil) {
		return false
	}
	if r.BookableTypeID != nil && (scope.BookableTypeID == nil || *scope.BookableTypeID != *r.BookableTypeID) {
		return false
	}
	if r.PackageID != nil && (scope.PackageID == nil || *scope.PackageID != *r.PackageID) {
		return false
	}
	return true
}
