package session

import "errors"

var (
	ErrNoSession      = errors.New("no stored session")
	ErrSessionCorrupt = errors.New("stored session cannot be read")
	ErrSessionExpired = errors.New("stored session has expired")
	ErrOpaqueToken    = errors.New("token is not a JWT")
)
