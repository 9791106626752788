package ranking

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ranking errors.
var (
	ErrInvalidIndex   = errors.New("reorder index out of range")
	ErrPlayerMismatch = errors.New("moved player is not at the source index")
	ErrUnknownScout   = errors.New("unknown scout")
	ErrInvalidLimit   = errors.New("invalid board limit")
)

func unknownScout(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownScout, name)
}
