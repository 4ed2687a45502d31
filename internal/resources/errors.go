package resources

import "errors"

var (
	// ErrResourceNotFound is returned when the resource id is unknown or inactive
	ErrResourceNotFound = errors.New("resource not found")
)
