package cart

import "errors"

var (
	// ErrAuthRequired is returned when a mutation is attempted without an
	// authenticated session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrItemNotFound is returned when no cart item exists for the given key.
	ErrItemNotFound = errors.New("cart item not found")
)
