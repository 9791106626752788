package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUnknownBuildMode = errors.New("unknown board build mode")
)
