package views

import "errors"

var (
	ErrClosed           = errors.New("view closed")
	ErrInvalidStatus    = errors.New("invalid token status")
	ErrTokenNotFound    = errors.New("token not in view")
	ErrAlreadyCommitted = errors.New("status update already committed")
)
