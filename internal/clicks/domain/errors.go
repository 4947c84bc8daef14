package domain

import "errors"

var (
	// ErrNotFound is returned by stores when the addressed record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEvent is returned when a click event lacks its identifiers.
	ErrInvalidEvent = errors.New("invalid click event")
)
