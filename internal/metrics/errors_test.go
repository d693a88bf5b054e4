package metrics

import "testing"

func TestFriendlyErrorName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"*sorting.KeyRangeError", "Key out of range"},
		{"*sorting.BoundError", "Invalid key bound"},
		{"*runner.VerificationError", "Unsorted output"},
		{"context.deadlineExceededError", "Context deadline exceeded"},
		{"*github.com/acme/pkg.TimeoutError", "Timeout Error (pkg)"},
		{"main.keyErr", "Key Err"},
		{"", "Unknown error"},
	}
	for _, tt := range tests {
		if got := FriendlyErrorName(tt.in); got != tt.want {
			t.Errorf("FriendlyErrorName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestErrorTypeName(t *testing.T) {
	if got := errorTypeName(keyErr{}); got != "metrics.keyErr" {
		t.Errorf("errorTypeName() = %q", got)
	}
}
