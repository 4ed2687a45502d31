package schedule

import "errors"

var (
	// ErrMalformedRow marks a schedule row an operator must fix before the
	// resource can serve availability.
	ErrMalformedRow = errors.New("malformed schedule row")
)
