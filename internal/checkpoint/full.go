package checkpoint

import (
	"iter"
	"time"
)

// FullChain records a snapshot at every step.
//
// It is the reference implementation: O(n) memory, no recomputation, and
// the right choice for short loops.
type FullChain[S, G any] struct {
	snapshots []S
	steps     int
	stats     SweepStats
	opts      options
}

// NewFullChain consumes src eagerly. src must be finite.
func NewFullChain[S, G any](src iter.Seq[S], opts ...Option) *FullChain[S, G] {
	c := &FullChain[S, G]{opts: buildOptions(opts)}
	for s := range src {
		c.snapshots = append(c.snapshots, s)
	}
	c.steps = len(c.snapshots)
	return c
}

// Sweep runs adjoint over the snapshots in reverse step order.
func (c *FullChain[S, G]) Sweep(g G, adjoint Adjoint[S, G]) G {
	stats, started := c.begin()
	for i := len(c.snapshots) - 1; i >= 0; i-- {
		g = adjoint(c.snapshots[i], g)
		stats.AdjointCalls++
	}
	c.opts.finish(stats, started)
	return g
}

// SweepMut runs adjoint over the snapshots in reverse step order, passing
// each stored snapshot by pointer.
func (c *FullChain[S, G]) SweepMut(g G, adjoint InPlaceAdjoint[S, G]) G {
	stats, started := c.begin()
	for i := len(c.snapshots) - 1; i >= 0; i-- {
		g = adjoint(&c.snapshots[i], g)
		stats.AdjointCalls++
	}
	c.opts.finish(stats, started)
	return g
}

// SweepOnce pops snapshots from the end and hands each to adjoint.
// The chain holds nothing afterwards.
func (c *FullChain[S, G]) SweepOnce(g G, adjoint Adjoint[S, G]) G {
	stats, started := c.begin()
	var zero S
	for n := len(c.snapshots); n > 0; n = len(c.snapshots) {
		s := c.snapshots[n-1]
		c.snapshots[n-1] = zero
		c.snapshots = c.snapshots[:n-1]
		g = adjoint(s, g)
		stats.AdjointCalls++
	}
	c.snapshots = nil
	c.steps = 0
	c.opts.finish(stats, started)
	return g
}

// Len returns the number of snapshots held.
func (c *FullChain[S, G]) Len() int {
	return len(c.snapshots)
}

// Steps returns the number of loop steps represented by the chain.
func (c *FullChain[S, G]) Steps() int {
	return c.steps
}

// Stats returns the statistics of the most recent sweep.
func (c *FullChain[S, G]) Stats() SweepStats {
	return c.stats
}

func (c *FullChain[S, G]) begin() (*SweepStats, time.Time) {
	c.stats = SweepStats{
		Strategy: StrategyFull,
		Steps:    c.steps,
		Retained: len(c.snapshots),
		PeakHeld: len(c.snapshots),
	}
	return &c.stats, time.Now()
}
