// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package checkpoint differentiates iterated loops in reverse without storing
// every intermediate state.
//
// A loop is described by the sequence of its states (snapshots), an optional
// restoration function that runs one step of the loop body, and an adjoint
// that propagates a gradient backward through one step. Two chains are
// provided:
//
//   - FullChain keeps every snapshot. Memory is O(n), no recomputation.
//   - CtzChain keeps O(log n) snapshots chosen by a ruler (count trailing
//     zeros) schedule and regenerates the others from the nearest retained
//     one during the backward sweep.
//
// Both chains call the adjoint on the same snapshots in the same order.
//
// Example:
//
//	import "github.com/born-ml/revad/checkpoint"
//
//	func main() {
//	    next := func(x float64) float64 { return x * x }
//	    chain := checkpoint.NewCtzChain[float64, float64](states, next)
//
//	    // d x_n / d x_0
//	    g := chain.Sweep(1, func(x, g float64) float64 { return 2 * x * g })
//	}
package checkpoint

import (
	"iter"

	"github.com/born-ml/revad/internal/checkpoint"
)

// Chain is the reverse sweep shared by all strategies.
type Chain[S, G any] = checkpoint.Chain[S, G]

// FullChain keeps every snapshot.
type FullChain[S, G any] = checkpoint.FullChain[S, G]

// CtzChain keeps a logarithmic number of snapshots and regenerates the rest.
type CtzChain[S, G any] = checkpoint.CtzChain[S, G]

// Adjoint propagates a gradient backward through the step taking s.
type Adjoint[S, G any] = checkpoint.Adjoint[S, G]

// InPlaceAdjoint is an Adjoint that may modify the snapshot it is given.
type InPlaceAdjoint[S, G any] = checkpoint.InPlaceAdjoint[S, G]

// Restore runs one step of the loop body.
type Restore[S any] = checkpoint.Restore[S]

// Entry is a snapshot tagged with its position in the loop.
type Entry[S any] = checkpoint.Entry[S]

// Strategy selects a chain implementation.
type Strategy = checkpoint.Strategy

// Available strategies.
const (
	StrategyFull = checkpoint.StrategyFull
	StrategyCtz  = checkpoint.StrategyCtz
)

// SweepStats describes one backward sweep.
type SweepStats = checkpoint.SweepStats

// Observer receives SweepStats after every sweep.
type Observer = checkpoint.Observer

// ObserverFunc adapts a function to Observer.
type ObserverFunc = checkpoint.ObserverFunc

// Option configures a chain.
type Option = checkpoint.Option

// CursorError reports a backward sweep that lost track of its position.
type CursorError = checkpoint.CursorError

// Sentinel errors.
var (
	ErrUnknownStrategy = checkpoint.ErrUnknownStrategy
	ErrMissingRestore  = checkpoint.ErrMissingRestore
	ErrCursor          = checkpoint.ErrCursor
)

// WithLogger and WithObserver configure chains.
var (
	WithLogger   = checkpoint.WithLogger
	WithObserver = checkpoint.WithObserver
)

// ParseStrategy converts a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	return checkpoint.ParseStrategy(name)
}

// New builds a chain for the given strategy.
//
// restore may be nil for StrategyFull.
func New[S, G any](strategy Strategy, src iter.Seq[S], restore Restore[S], opts ...Option) (Chain[S, G], error) {
	return checkpoint.New[S, G](strategy, src, restore, opts...)
}

// NewFullChain stores every snapshot of src.
func NewFullChain[S, G any](src iter.Seq[S], opts ...Option) *FullChain[S, G] {
	return checkpoint.NewFullChain[S, G](src, opts...)
}

// NewCtzChain stores a logarithmic subset of src.
func NewCtzChain[S, G any](src iter.Seq[S], restore Restore[S], opts ...Option) *CtzChain[S, G] {
	return checkpoint.NewCtzChain[S, G](src, restore, opts...)
}

// Extend appends xs to store, tagging them from i0, and evicts entries
// following the ruler schedule.
func Extend[S any](store []Entry[S], i0 int, xs iter.Seq[S]) []Entry[S] {
	return checkpoint.Extend(store, i0, xs)
}

// Generate turns a step function into a lazy, single-pass snapshot source.
func Generate[T any](next func() (T, bool)) iter.Seq[T] {
	return checkpoint.Generate(next)
}
