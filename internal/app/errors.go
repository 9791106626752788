package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrNotFound      = errors.New("player not found")
	ErrLimitTooLarge = errors.New("board limit too large")
)
