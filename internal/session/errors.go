package session

import "errors"

var (
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrIdPUnavailable       = errors.New("identity provider unavailable")
	ErrIdPInteractionFailed = errors.New("identity provider interaction failed")
)
