package bookings

import "errors"

var (
	// ErrSlotUnavailable is returned by the reserve path when a conflicting
	// active booking already holds the range. Callers must prompt a
	// re-selection, never auto-pick another slot.
	ErrSlotUnavailable = errors.New("slot unavailable")

	// ErrBookingNotFound is returned when the booking id is unknown
	ErrBookingNotFound = errors.New("booking not found")
)
