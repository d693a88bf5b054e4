package sorting

// InsertionSort returns a sorted copy of values using adjacent
// compare-and-shift. Equal values keep their order; already sorted input
// costs a single pass.
func InsertionSort(values []uint64) []uint64 {
	out := make([]uint64, len(values))
	copy(out, values)
	for i := 1; i < len(out); i++ {
		current := out[i]
		j := i
		for j > 0 && out[j-1] > current {
			out[j] = out[j-1]
			j--
		}
		out[j] = current
	}
	return out
}
