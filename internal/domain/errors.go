package domain

import "errors"

var (
	// ErrNotFound reports an unknown seller/shopkeeper or a seller with no
	// active assignments. Reported to the caller, never retried.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports malformed request data such as out-of-range
	// coordinates.
	ErrInvalidInput = errors.New("invalid input")
)
