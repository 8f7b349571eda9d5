package checkpoint

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func counter(n int) (func() (int, bool), *int) {
	calls := 0
	i := 0
	return func() (int, bool) {
		calls++
		if i == n {
			return 0, false
		}
		i++
		return i, true
	}, &calls
}

func TestGenerate_YieldsUntilExhausted(t *testing.T) {
	next, _ := counter(4)
	assert.Equal(t, []int{1, 2, 3, 4}, slices.Collect(Generate(next)))
}

func TestGenerate_ExhaustionIsTerminal(t *testing.T) {
	next, calls := counter(2)
	seq := Generate(next)
	assert.Equal(t, []int{1, 2}, slices.Collect(seq))
	assert.Equal(t, 3, *calls)

	assert.Empty(t, slices.Collect(seq))
	assert.Equal(t, 3, *calls, "next must not be called after exhaustion")
}

func TestGenerate_BreakResumes(t *testing.T) {
	next, _ := counter(5)
	seq := Generate(next)
	var first []int
	for v := range seq {
		first = append(first, v)
		if v == 2 {
			break
		}
	}
	assert.Equal(t, []int{1, 2}, first)
	assert.Equal(t, []int{3, 4, 5}, slices.Collect(seq))
}
