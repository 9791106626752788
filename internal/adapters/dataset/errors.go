package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	ErrMalformedData = errors.New("malformed draft data")
	ErrUnreadable    = errors.New("draft data unreadable")
)
