package checkpoint

import "iter"

// Generate wraps a produce-or-exhaust function as a lazy sequence.
//
// next is called once per element; when it reports false the sequence is
// exhausted for good and later ranges over it yield nothing. Breaking out of
// a range early leaves the sequence where it stopped. There is no buffering.
//
// Example:
//
//	x, i := x0, 0
//	src := checkpoint.Generate(func() (float64, bool) {
//	    if i == n {
//	        return 0, false
//	    }
//	    i++
//	    s := x
//	    x = f(x)
//	    return s, true
//	})
func Generate[T any](next func() (T, bool)) iter.Seq[T] {
	done := false
	return func(yield func(T) bool) {
		for !done {
			v, ok := next()
			if !ok {
				done = true
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}
