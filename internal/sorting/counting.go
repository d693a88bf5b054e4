package sorting

// MaxBound is the largest bucket count a counting sort will allocate.
const MaxBound = 1 << 26

// Pair associates a bucket key with the payload carried through a sort.
type Pair[T any] struct {
	Key     uint64
	Payload T
}

// NewPair builds a Pair.
func NewPair[T any](key uint64, payload T) Pair[T] {
	return Pair[T]{Key: key, Payload: payload}
}

// CountingSortWithPayload returns the payloads of elements ordered ascending by
// key. Elements sharing a key keep their input order.
//
// Every key must satisfy 0 <= key < bound. The first violating element is
// reported as a *KeyRangeError wrapping ErrKeyOutOfRange. A bound <= 0 or
// above MaxBound with a non-empty input is reported as a *BoundError wrapping
// ErrInvalidBound. Both checks run before any bucket is allocated. Runs in
// O(n + bound).
func CountingSortWithPayload[T any](elements []Pair[T], bound int) ([]T, error) {
	if len(elements) == 0 {
		return []T{}, nil
	}
	if bound <= 0 || bound > MaxBound {
		return nil, &BoundError{Bound: bound}
	}
	limit := uint64(bound)
	for i, e := range elements {
		if e.Key >= limit {
			return nil, &KeyRangeError{Index: i, Key: e.Key, Bound: bound}
		}
	}
	return bucketSort(elements, bound), nil
}

// CountingSort sorts keys that are their own payload.
func CountingSort(keys []uint64, bound int) ([]uint64, error) {
	pairs := make([]Pair[uint64], len(keys))
	for i, k := range keys {
		pairs[i] = Pair[uint64]{Key: k, Payload: k}
	}
	return CountingSortWithPayload(pairs, bound)
}

// bucketSort assumes every key is < bound.
//
// Buckets are laid out contiguously in the output: counts[k] becomes the first
// free slot of bucket k, and payloads are appended in input order.
func bucketSort[T any](elements []Pair[T], bound int) []T {
	counts := make([]int, bound)
	for _, e := range elements {
		counts[e.Key]++
	}

	next := 0
	for k, c := range counts {
		counts[k] = next
		next += c
	}

	out := make([]T, len(elements))
	for _, e := range elements {
		out[counts[e.Key]] = e.Payload
		counts[e.Key]++
	}
	return out
}
