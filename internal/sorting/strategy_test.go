package sorting

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"insertion", StrategyInsertion, false},
		{"Counting", StrategyCounting, false},
		{"  RADIX ", StrategyRadix, false},
		{"bubble", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if tt.wantErr {
			require.Error(t, err, "ParseStrategy(%q)", tt.in)
			assert.True(t, errors.Is(err, ErrUnknownStrategy))
			continue
		}
		require.NoError(t, err, "ParseStrategy(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestStrategySortAgrees(t *testing.T) {
	in := []uint64{9, 3, 3, 0, 7, 1, 8, 2, 2, 6}
	want := []uint64{0, 1, 2, 2, 3, 3, 6, 7, 8, 9}
	for _, s := range Strategies() {
		t.Run(s.String(), func(t *testing.T) {
			got, err := s.Sort(in, 10)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestStrategySortEmptyAndSingle(t *testing.T) {
	for _, s := range Strategies() {
		got, err := s.Sort(nil, 0)
		require.NoError(t, err, s)
		assert.Empty(t, got, s)

		got, err = s.Sort([]uint64{5}, 6)
		require.NoError(t, err, s)
		assert.Equal(t, []uint64{5}, got, s)
	}
}

func TestStrategySortCountingPropagatesBoundErrors(t *testing.T) {
	_, err := StrategyCounting.Sort([]uint64{10}, 10)
	assert.True(t, errors.Is(err, ErrKeyOutOfRange))

	// Bounds are ignored by the comparison and digit strategies.
	got, err := StrategyRadix.Sort([]uint64{10, 1}, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 10}, got)
}

func TestStrategySortUnknown(t *testing.T) {
	_, err := Strategy("bogo").Sort([]uint64{1}, 2)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}

func TestInsertionSort(t *testing.T) {
	tests := []struct {
		name string
		in   []uint64
		want []uint64
	}{
		{"empty", []uint64{}, []uint64{}},
		{"single", []uint64{1}, []uint64{1}},
		{"best case", []uint64{0, 1, 2, 3}, []uint64{0, 1, 2, 3}},
		{"worst case", []uint64{3, 2, 1, 0}, []uint64{0, 1, 2, 3}},
		{"smallest at front after shift", []uint64{5, 1}, []uint64{1, 5}},
		{"duplicates", []uint64{2, 1, 2, 0, 1}, []uint64{0, 1, 1, 2, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := make([]uint64, len(tt.in))
			copy(in, tt.in)
			assert.Equal(t, tt.want, InsertionSort(in))
			assert.Equal(t, tt.in, in)
		})
	}
}
