package sorting

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRadixSortScenarios(t *testing.T) {
	tests := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{
			name: "mixed lengths",
			in:   []uint64{170, 45, 75, 90, 802, 24, 2, 66},
			want: []uint64{2, 24, 45, 66, 75, 90, 170, 802},
		},
		{
			name: "duplicate zeros",
			in:   []uint64{0, 0, 5},
			want: []uint64{0, 0, 5},
		},
		{
			name: "all zeros",
			in:   []uint64{0, 0, 0},
			want: []uint64{0, 0, 0},
		},
		{
			name: "shortest and longest",
			in:   []uint64{math.MaxUint64, 1, 0, 10000000000, 9},
			want: []uint64{0, 1, 9, 10000000000, math.MaxUint64},
		},
		{
			name: "single",
			in:   []uint64{42},
			want: []uint64{42},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RadixSort(tt.in))
		})
	}
}

func TestRadixSortEmpty(t *testing.T) {
	out := RadixSort(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestRadixSortMatchesReference(t *testing.T) {
	rnd := rand.New(rand.NewSource(99))
	for _, n := range []int{1, 2, 17, 256, 2000} {
		in := make([]uint64, n)
		for i := range in {
			// Mix magnitudes so passes zero-pad short values.
			in[i] = rnd.Uint64() >> uint(rnd.Intn(64))
		}
		original := append([]uint64(nil), in...)

		got := RadixSort(in)

		want := append([]uint64(nil), in...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
		require.Equal(t, want, got, "n=%d", n)
		require.Equal(t, original, in, "input mutated for n=%d", n)
	}
}

func TestRadixSortIdempotent(t *testing.T) {
	sorted := []uint64{1, 1, 3, 20, 300, 300, 4000}
	assert.Equal(t, sorted, RadixSort(sorted))
}
