package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest rejects malformed reservation attempts before any
	// store access.
	ErrInvalidRequest = errors.New("checkout: invalid reservation request")

	// ErrOutsideWindow rejects starts outside the resource's advance
	// booking window.
	ErrOutsideWindow = errors.New("checkout: start outside the booking window")
)

// PriceChangedError reports drift between the price a guest was quoted and
// the price current rules resolve to. The guest must see both rather than
// be silently charged the new amount.
type PriceChangedError struct {
	QuotedPrice  float64
	CurrentPrice float64
}

func (e *PriceChangedError) Error() string {
	return fmt.Sprintf("checkout: price changed from %.2f to %.2f", e.QuotedPrice, e.CurrentPrice)
}
