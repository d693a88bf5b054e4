package runner

import "fmt"

// VerificationError reports a sort output that is not an ascending
// permutation of its input.
type VerificationError struct {
	Index  int
	Reason string
}

func (e *VerificationError) Error() string {
	if e.Index < 0 {
		return "verification failed: " + e.Reason
	}
	return fmt.Sprintf("verification failed at index %d: %s", e.Index, e.Reason)
}

// Verify checks that output is ascending and holds exactly the values of input.
func Verify(input, output []uint64) error {
	if len(input) != len(output) {
		return &VerificationError{Index: -1, Reason: fmt.Sprintf("length %d, want %d", len(output), len(input))}
	}
	for i := 1; i < len(output); i++ {
		if output[i-1] > output[i] {
			return &VerificationError{Index: i, Reason: fmt.Sprintf("%d follows %d", output[i], output[i-1])}
		}
	}
	counts := make(map[uint64]int, len(input))
	for _, v := range input {
		counts[v]++
	}
	for i, v := range output {
		if counts[v] == 0 {
			return &VerificationError{Index: i, Reason: fmt.Sprintf("value %d not present in input", v)}
		}
		counts[v]--
	}
	return nil
}
