// Package checkpoint implements checkpointed backward sweeps over loops.
//
// A loop x0 -> x1 -> ... -> xn is reified as a chain of snapshots. Each
// snapshot carries enough state to apply one step's adjoint function
// (the transposed Jacobian of that step) and, for sparse chains, to
// regenerate the snapshot of the following step via a restoration
// function:
//
//	x0 --+-> x1 --+-> x2 --+-> x3   (plain values)
//	     |        |        |
//	     v        v        v
//	     s0       s1       s2       (snapshots)
//	     |adj     |adj     |adj
//	     v        v        v
//	g0 <-+-- g1 <-+-- g2 <-+-- g3   (adjoint values)
//	   ---->    ---->    ---->
//	  restore  restore  restore
//
// Two chains are provided:
//   - FullChain: keeps every snapshot. O(n) memory, no recomputation.
//   - CtzChain: keeps O(log n) snapshots chosen by a count-trailing-zeros
//     eviction schedule and regenerates the rest on demand during the
//     sweep. O(log n) memory, O(n log n) worst-case restorations.
//
// Both chains apply the adjoint exactly once per original step, in
// strictly decreasing step order, and produce the same result.
//
// Restoration contract: if snapshot s2 follows s1 in the source, then
// restore(s1) must be observably equal to s2. This is never verified; a
// restoration function that breaks it makes CtzChain silently compute
// wrong adjoints.
//
// Nothing in this package is safe for concurrent use.
package checkpoint
