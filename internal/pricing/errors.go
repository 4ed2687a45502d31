package pricing

import "errors"

var (
	// ErrBusinessNotFound is returned when the business id is unknown.
	// Unlike availability, price resolution surfaces this explicitly.
	ErrBusinessNotFound = errors.New("business not found")

	// ErrUnknownModifier is returned when a rule carries a modifier_type the
	// resolver does not recognize. The fold fails fast rather than skipping
	// the rule and producing a silently wrong price.
	ErrUnknownModifier = errors.New("unknown modifier type")

	// ErrInvalidBasePrice is returned for a negative base price
	ErrInvalidBasePrice = errors.New("base price must not be negative")
)
