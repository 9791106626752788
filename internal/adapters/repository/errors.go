package repository

import "errors"

// Sentinel kinds for override storage errors.
var (
	ErrStorageUnavailable = errors.New("override storage unavailable")
	ErrMalformedData      = errors.New("malformed override data")
	ErrEmptyKey           = errors.New("storage key is required")
	ErrInvalidPath        = errors.New("storage path is required")
	ErrClosed             = errors.New("store is closed")
)
