package sorting

// Radix is the base used for digit extraction and radix passes.
const Radix = 10

// Digits returns the decimal digits of v, most significant first.
// Digits(0) is []uint8{0}.
func Digits(v uint64) []uint8 {
	n := DigitCount(v)
	digits := make([]uint8, n)
	for i := n - 1; i >= 0; i-- {
		digits[i] = uint8(v % Radix)
		v /= Radix
	}
	return digits
}

// DigitCount returns len(Digits(v)) without allocating.
func DigitCount(v uint64) int {
	n := 1
	for v >= Radix {
		v /= Radix
		n++
	}
	return n
}

// DigitAt returns the digit at pos counted from the least significant end,
// treating digits as left-padded with zeros: positions outside the number
// yield 0.
func DigitAt(digits []uint8, pos int) uint8 {
	if pos < 0 || pos >= len(digits) {
		return 0
	}
	return digits[len(digits)-1-pos]
}
