package availability

import "errors"

var (
	// ErrInvalidDuration rejects non-positive service durations before any
	// store access.
	ErrInvalidDuration = errors.New("availability: service duration must be positive")

	// ErrInvalidDate rejects unparseable target dates at the HTTP edge.
	ErrInvalidDate = errors.New("availability: invalid date")
)
