package sorting

// annotated carries an input value alongside its digits across radix passes.
type annotated struct {
	value  uint64
	digits []uint8
}

// RadixSort sorts values ascending with one stable counting pass per decimal
// digit, least significant first. Shorter numbers are zero-padded, so the
// number of passes is the largest digit count in the input.
func RadixSort(values []uint64) []uint64 {
	work := make([]annotated, len(values))
	passes := 0
	for i, v := range values {
		d := Digits(v)
		work[i] = annotated{value: v, digits: d}
		if len(d) > passes {
			passes = len(d)
		}
	}

	pairs := make([]Pair[annotated], len(work))
	for pos := 0; pos < passes; pos++ {
		for i, a := range work {
			pairs[i] = Pair[annotated]{Key: uint64(DigitAt(a.digits, pos)), Payload: a}
		}
		// Digit keys are always < Radix, so the unchecked path is safe.
		work = bucketSort(pairs, Radix)
	}

	out := make([]uint64, len(work))
	for i, a := range work {
		out[i] = a.value
	}
	return out
}
