// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tape provides scalar reverse-mode automatic differentiation.
//
// Operations on Vars are appended to a Tape; Backward walks the tape from
// the end and returns the derivative of the output with respect to every
// recorded node.
//
// Example:
//
//	import "github.com/born-ml/revad/tape"
//
//	func main() {
//	    t := tape.New()
//	    x := t.Var(0.5)
//	    y := t.Var(4.2)
//	    z := x.Mul(y).Add(x.Sin())
//
//	    grad := t.Backward(z)
//	    fmt.Println(grad.At(x), grad.At(y)) // y + cos(x), x
//	}
package tape

import "github.com/born-ml/revad/internal/tape"

// Tape is a Wengert list of scalar operations.
type Tape = tape.Tape

// Var is a value recorded on a Tape.
type Var = tape.Var

// Grad holds the derivatives computed by Backward.
type Grad = tape.Grad

// ConsistencyError reports an operation mixing Vars of different tapes.
type ConsistencyError = tape.ConsistencyError

// IndexError reports a node index outside the tape.
type IndexError = tape.IndexError

// Sentinel errors.
var (
	ErrMixedTapes      = tape.ErrMixedTapes
	ErrIndexOutOfRange = tape.ErrIndexOutOfRange
	ErrInvalidNode     = tape.ErrInvalidNode
)

// New creates an empty tape.
func New() *Tape {
	return tape.New()
}
