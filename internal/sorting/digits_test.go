package sorting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDigits(t *testing.T) {
	tests := []struct {
		in   uint64
		want []uint8
	}{
		{0, []uint8{0}},
		{7, []uint8{7}},
		{10, []uint8{1, 0}},
		{802, []uint8{8, 0, 2}},
		{1000000, []uint8{1, 0, 0, 0, 0, 0, 0}},
		{math.MaxUint64, []uint8{1, 8, 4, 4, 6, 7, 4, 4, 0, 7, 3, 7, 0, 9, 5, 5, 1, 6, 1, 5}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Digits(tt.in), "Digits(%d)", tt.in)
		assert.Equal(t, len(tt.want), DigitCount(tt.in), "DigitCount(%d)", tt.in)
	}
}

func TestDigitAt(t *testing.T) {
	digits := Digits(802)
	tests := []struct {
		pos  int
		want uint8
	}{
		{0, 2},
		{1, 0},
		{2, 8},
		{3, 0},
		{50, 0},
		{-1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DigitAt(digits, tt.pos), "DigitAt(802, %d)", tt.pos)
	}
}

func TestDigitAtBeyondLength(t *testing.T) {
	assert.Equal(t, uint8(0), DigitAt(Digits(7), 5))
	assert.Equal(t, uint8(0), DigitAt(Digits(0), 1))
	assert.Equal(t, uint8(0), DigitAt(nil, 0))
}
