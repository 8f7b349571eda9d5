package tape

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrMixedTapes      = errors.New("vars belong to different tapes")
	ErrIndexOutOfRange = errors.New("node index out of range")
	ErrInvalidNode     = errors.New("invalid tape node")
)

// ConsistencyError reports an attempt to combine Vars recorded on different
// tapes, or a Var that was never recorded on a tape. It is a programming
// error: operations panic with a *ConsistencyError.
type ConsistencyError struct {
	Op    string // operation that detected the mismatch
	Left  *Tape
	Right *Tape
}

// Error implements the error interface.
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("tape: %s: %v (%p vs %p)", e.Op, ErrMixedTapes, e.Left, e.Right)
}

// Unwrap returns ErrMixedTapes.
func (e *ConsistencyError) Unwrap() error {
	return ErrMixedTapes
}

// IndexError reports a node index outside the tape.
type IndexError struct {
	Index int
	Len   int
}

// Error implements the error interface.
func (e *IndexError) Error() string {
	return fmt.Sprintf("tape: %v: %d not in [0, %d)", ErrIndexOutOfRange, e.Index, e.Len)
}

// Unwrap returns ErrIndexOutOfRange.
func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
