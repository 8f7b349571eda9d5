package checkpoint

import (
	"iter"
	"slices"
)

// Entry is a retained snapshot tagged with its original step index.
type Entry[S any] struct {
	Index    int
	Snapshot S
}

// Extend lossily appends the items of xs to store.
//
// Item k of xs is tagged with index i0+k. After every append the Ruler
// schedule may remove one earlier item of the same batch; entries that were
// already in store before the call are never touched, and the newest item
// is never removed. Given n new items, exactly ceil(log2(n)) + 1 of them
// remain.
//
// Like append, Extend returns the updated slice. The batch is consumed
// lazily, so xs may be infinite as long as the caller stops it.
func Extend[S any](store []Entry[S], i0 int, xs iter.Seq[S]) []Entry[S] {
	start := len(store)
	ruler := NewRuler()
	k := 0
	for x := range xs {
		store = append(store, Entry[S]{Index: i0 + k, Snapshot: x})
		k++
		if evict, ok := ruler.Next(); ok {
			store = slices.Delete(store, start+evict, start+evict+1)
		}
	}
	return store
}

// Indices returns the step indices held by store, in order.
func Indices[S any](store []Entry[S]) []int {
	out := make([]int, len(store))
	for k, e := range store {
		out[k] = e.Index
	}
	return out
}
