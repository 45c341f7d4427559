package profile

import "errors"

// ErrProfileNotFound is returned when no profile row exists for the user.
var ErrProfileNotFound = errors.New("profile not found")
