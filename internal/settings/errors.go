package settings

import "errors"

var (
	// ErrInvalidIncrement is returned for a non-positive slot increment
	ErrInvalidIncrement = errors.New("invalid slot increment")

	// ErrInvalidSettings covers the remaining malformed settings fields
	ErrInvalidSettings = errors.New("invalid slot settings")
)
