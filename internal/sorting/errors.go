package sorting

import (
	"errors"
	"fmt"
)

var (
	// ErrKeyOutOfRange is returned when a key is >= the declared bound.
	ErrKeyOutOfRange = errors.New("key out of range")
	// ErrInvalidBound is returned when a bound outside (0, MaxBound] is supplied for non-empty input.
	ErrInvalidBound = errors.New("invalid key bound")
	// ErrUnknownStrategy is returned by ParseStrategy for unrecognised names.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// KeyRangeError reports the first element whose key violates the bound.
type KeyRangeError struct {
	Index int
	Key   uint64
	Bound int
}

func (e *KeyRangeError) Error() string {
	return fmt.Sprintf("key %d at index %d is out of range [0, %d)", e.Key, e.Index, e.Bound)
}

func (e *KeyRangeError) Unwrap() error { return ErrKeyOutOfRange }

// BoundError reports a bound that is non-positive or larger than MaxBound.
type BoundError struct {
	Bound int
}

func (e *BoundError) Error() string {
	if e.Bound > MaxBound {
		return fmt.Sprintf("bound %d exceeds the %d bucket limit", e.Bound, MaxBound)
	}
	return fmt.Sprintf("bound %d must be > 0 for non-empty input", e.Bound)
}

func (e *BoundError) Unwrap() error { return ErrInvalidBound }
