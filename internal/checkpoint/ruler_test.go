package checkpoint

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// insert simulates n insertions and returns the surviving indices plus the
// indices evicted at each step (-1 when nothing was evicted).
func insert(n int) (kept, evicted []int) {
	r := NewRuler()
	for i := 0; i < n; i++ {
		kept = append(kept, i)
		evict, ok := r.Next()
		if !ok {
			evicted = append(evicted, -1)
			continue
		}
		evicted = append(evicted, kept[evict])
		kept = append(kept[:evict], kept[evict+1:]...)
	}
	return kept, evicted
}

func TestRuler_FirstInsertionsNeverEvict(t *testing.T) {
	r := NewRuler()
	for i := 0; i < 2; i++ {
		_, ok := r.Next()
		assert.False(t, ok, "insertion %d evicted", i)
	}
}

func TestRuler_RetainedCount(t *testing.T) {
	for n := 1; n <= 2048; n++ {
		kept, _ := insert(n)
		want := int(math.Ceil(math.Log2(float64(n)))) + 1
		require.Len(t, kept, want, "n=%d", n)
		require.Equal(t, 0, kept[0], "n=%d: first item evicted", n)
		require.Equal(t, n-1, kept[len(kept)-1], "n=%d: newest item evicted", n)
	}
}

func TestRuler_Pattern(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{0}},
		{2, []int{0, 1}},
		{3, []int{0, 1, 2}},
		{5, []int{0, 2, 3, 4}},
		{20, []int{0, 8, 12, 16, 18, 19}},
		{64, []int{0, 32, 48, 56, 60, 62, 63}},
	}
	for _, tt := range tests {
		kept, _ := insert(tt.n)
		assert.Equal(t, tt.want, kept, "n=%d", tt.n)
	}
}

// Gaps between retained items never shrink as we look further back.
func TestRuler_FartherSurvivesLonger(t *testing.T) {
	for n := 2; n <= 1024; n++ {
		kept, _ := insert(n)
		for k := 2; k < len(kept); k++ {
			older := kept[k-1] - kept[k-2]
			newer := kept[k] - kept[k-1]
			require.GreaterOrEqual(t, older, newer, "n=%d kept=%v", n, kept)
		}
	}
}

func TestRuler_EvictsBehindNewest(t *testing.T) {
	_, evicted := insert(1000)
	for i, e := range evicted {
		if e < 0 {
			continue
		}
		assert.Less(t, e, i, "step %d evicted the newest item", i)
		assert.Positive(t, e, "step %d evicted the first item", i)
	}
}
