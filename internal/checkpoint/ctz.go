package checkpoint

import (
	"iter"
	"time"
)

// CtzChain keeps a logarithmic subset of the snapshots, chosen by the
// count-trailing-zeros schedule of Extend, and regenerates the missing ones
// with the restoration function during the sweep.
//
// The sweep is a binomial checkpointing scheme: whenever the next snapshot
// to process lies more than one step below the cursor, the gap is refilled
// by restoring forward from that snapshot, and the refill is itself passed
// through Extend so it also occupies only O(log gap) entries. Peak memory
// stays O(log n) snapshots and restore is called O(n log n) times.
//
// The adjoint sees exactly the same calls, in the same order, as with
// FullChain.
type CtzChain[S, G any] struct {
	entries []Entry[S]
	restore Restore[S]
	steps   int
	stats   SweepStats
	opts    options
}

// NewCtzChain runs src through Extend and keeps the result together with
// restore. restore(s) must return the snapshot that follows s in src.
func NewCtzChain[S, G any](src iter.Seq[S], restore Restore[S], opts ...Option) *CtzChain[S, G] {
	c := &CtzChain[S, G]{
		restore: restore,
		opts:    buildOptions(opts),
	}
	c.Extend(src)
	return c
}

// Extend appends another batch of snapshots, continuing the step numbering
// where the chain left off. The new batch is thinned independently; earlier
// entries are left as they are.
func (c *CtzChain[S, G]) Extend(src iter.Seq[S]) {
	n := 0
	counted := func(yield func(S) bool) {
		for s := range src {
			n++
			if !yield(s) {
				return
			}
		}
	}
	c.entries = Extend(c.entries, c.steps, counted)
	c.steps += n
}

// Sweep runs adjoint over all steps in reverse order, regenerating missing
// snapshots as needed. Retained snapshots are passed to restore and adjoint
// but stay owned by the chain, so the sweep can be repeated.
func (c *CtzChain[S, G]) Sweep(g G, adjoint Adjoint[S, G]) G {
	return c.sweep(g, func(s *S, g G) G {
		return adjoint(*s, g)
	})
}

// SweepMut is Sweep with a pointer to each snapshot. All restorations from
// a snapshot happen before adjoint sees it, so mutations never leak into
// snapshots regenerated by the same sweep. Mutating retained snapshots does
// affect later sweeps.
func (c *CtzChain[S, G]) SweepMut(g G, adjoint InPlaceAdjoint[S, G]) G {
	return c.sweep(g, adjoint)
}

func (c *CtzChain[S, G]) sweep(g G, apply func(s *S, g G) G) G {
	stats, started := c.begin()
	defer c.opts.finish(stats, started)

	n := len(c.entries)
	if n == 0 {
		return g
	}
	j := c.entries[n-1].Index + 1
	var work []Entry[S]
	for k := n - 1; k >= 0; k-- {
		anchor := &c.entries[k]
		for {
			if top := len(work) - 1; top >= 0 {
				e := work[top]
				missing := gap(j, e.Index)
				if missing == 0 {
					work[top] = Entry[S]{}
					work = work[:top]
					g = apply(&e.Snapshot, g)
					stats.AdjointCalls++
					j--
					continue
				}
				work = Extend(work, e.Index+1, restored(e.Snapshot, missing, c.restore, stats))
				stats.PeakHeld = max(stats.PeakHeld, n+len(work))
				continue
			}
			missing := gap(j, anchor.Index)
			if missing == 0 {
				g = apply(&anchor.Snapshot, g)
				stats.AdjointCalls++
				j--
				break
			}
			work = Extend(work, anchor.Index+1, restored(anchor.Snapshot, missing, c.restore, stats))
			stats.PeakHeld = max(stats.PeakHeld, n+len(work))
		}
	}
	if j != 0 {
		panic(&CursorError{Cursor: j, Index: -1})
	}
	return g
}

// SweepOnce runs the same algorithm using the chain's own storage as the
// work stack, handing each snapshot to adjoint by value once it is no longer
// needed. The chain holds nothing afterwards.
func (c *CtzChain[S, G]) SweepOnce(g G, adjoint Adjoint[S, G]) G {
	stats, started := c.begin()
	defer c.opts.finish(stats, started)

	n := len(c.entries)
	if n == 0 {
		return g
	}
	j := c.entries[n-1].Index + 1
	for len(c.entries) > 0 {
		top := len(c.entries) - 1
		e := c.entries[top]
		missing := gap(j, e.Index)
		if missing == 0 {
			c.entries[top] = Entry[S]{}
			c.entries = c.entries[:top]
			g = adjoint(e.Snapshot, g)
			stats.AdjointCalls++
			j--
			continue
		}
		c.entries = Extend(c.entries, e.Index+1, restored(e.Snapshot, missing, c.restore, stats))
		stats.PeakHeld = max(stats.PeakHeld, len(c.entries))
	}
	if j != 0 {
		panic(&CursorError{Cursor: j, Index: -1})
	}
	c.entries = nil
	c.steps = 0
	return g
}

// Len returns the number of retained snapshots.
func (c *CtzChain[S, G]) Len() int {
	return len(c.entries)
}

// Steps returns the number of loop steps represented by the chain.
func (c *CtzChain[S, G]) Steps() int {
	return c.steps
}

// Indices returns the step indices of the retained snapshots.
func (c *CtzChain[S, G]) Indices() []int {
	return Indices(c.entries)
}

// Stats returns the statistics of the most recent sweep.
func (c *CtzChain[S, G]) Stats() SweepStats {
	return c.stats
}

func (c *CtzChain[S, G]) begin() (*SweepStats, time.Time) {
	c.stats = SweepStats{
		Strategy: StrategyCtz,
		Steps:    c.steps,
		Retained: len(c.entries),
		PeakHeld: len(c.entries),
	}
	return &c.stats, time.Now()
}

// gap returns how many steps lie strictly between index and cursor j.
func gap(j, index int) int {
	missing := j - index - 1
	if missing < 0 {
		panic(&CursorError{Cursor: j, Index: index})
	}
	return missing
}

// restored yields restore(s), restore²(s), ..., restoreⁿ(s), calling
// restore exactly n times. n must be positive.
func restored[S any](s S, n int, restore Restore[S], stats *SweepStats) iter.Seq[S] {
	return func(yield func(S) bool) {
		cur := restore(s)
		stats.Restorations++
		for left := n; ; {
			if !yield(cur) {
				return
			}
			left--
			if left == 0 {
				return
			}
			cur = restore(cur)
			stats.Restorations++
		}
	}
}
