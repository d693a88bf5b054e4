// Package sorting implements the sorting primitives benchmarked by sortbench.
//
// The central primitive is [CountingSortWithPayload], a stable bucket sort over
// a bounded unsigned key range that carries an arbitrary payload through the
// sort. [RadixSort] composes it once per decimal digit position to sort
// arbitrary-magnitude unsigned integers. [InsertionSort] is the comparison
// baseline.
//
// # Key bounds
//
// Counting sort requires a bound strictly greater than every key:
//
//	out, err := sorting.CountingSortWithPayload([]sorting.Pair[string]{
//		sorting.NewPair(3, "a"),
//		sorting.NewPair(1, "b"),
//		sorting.NewPair(3, "c"),
//	}, 5)
//	// out == []string{"b", "a", "c"}
//
// A key equal to or above the bound is reported as [ErrKeyOutOfRange]. A
// non-positive bound, or one above [MaxBound], is reported for non-empty input
// as [ErrInvalidBound] before any bucket is allocated.
//
// # Strategies
//
// [Strategy] selects an algorithm at run time so the harness can benchmark
// every algorithm from a single binary:
//
//	s, _ := sorting.ParseStrategy("radix")
//	sorted, err := s.Sort(values, bound)
//
// All functions return freshly allocated slices and never mutate their input.
package sorting
