package checkpoint

import "math/bits"

// Ruler produces the count-trailing-zeros eviction schedule used by Extend.
//
// Each call to Next corresponds to one insertion into a batch. Items live
// for a power-of-two number of subsequent insertions (the ruler sequence
// 0, 1, 0, 2, 0, 1, 0, 3, ...), so after n insertions exactly
// ceil(log2(n)) + 1 items survive and the retained indices thin out
// geometrically away from the newest one, like ticks on a log2 axis.
//
// The zero value is not usable; call NewRuler.
type Ruler struct {
	ruler uint
	level int
}

// NewRuler returns a ruler positioned before the first insertion of a batch.
// The level starts at -2 so the first two insertions never evict.
func NewRuler() Ruler {
	return Ruler{ruler: 1, level: -2}
}

// Next advances the schedule by one insertion.
//
// When ok is true, the item at batch-relative position evict (counted
// after the insertion) must be removed. Position 0 and the newest item are
// never chosen.
func (r *Ruler) Next() (evict int, ok bool) {
	candidate := r.level - bits.TrailingZeros(r.ruler)
	if candidate <= 0 {
		r.ruler = 1
		r.level++
		return 0, false
	}
	r.ruler++
	return candidate, true
}
