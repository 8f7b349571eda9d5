package checkpoint

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrUnknownStrategy = errors.New("unknown checkpoint strategy")
	ErrMissingRestore  = errors.New("ctz strategy requires a restore function")
	ErrCursor          = errors.New("inconsistent checkpoint cursor")
)

// CursorError reports that a CtzChain sweep lost track of the step cursor.
// It means the retained set was corrupted or the restoration function broke
// its contract. Sweeps panic with a *CursorError.
type CursorError struct {
	Cursor int // next step expected to receive its adjoint, plus one
	Index  int // index of the offending entry, or -1 at the end of a sweep
}

// Error implements the error interface.
func (e *CursorError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: sweep ended with cursor %d, want 0", ErrCursor, e.Cursor)
	}
	return fmt.Sprintf("%v: entry %d is not below cursor %d", ErrCursor, e.Index, e.Cursor)
}

// Unwrap returns ErrCursor.
func (e *CursorError) Unwrap() error {
	return ErrCursor
}
