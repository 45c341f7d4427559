package catalog

import "errors"

// ErrProductNotFound is returned when no product exists with the given ID.
var ErrProductNotFound = errors.New("product not found")
