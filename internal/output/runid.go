package output

import (
	"github.com/oklog/ulid/v2"
)

// NewRunID returns a lexically sortable identifier for a benchmark run.
func NewRunID() string {
	return ulid.Make().String()
}

// ValidRunID reports whether id parses as a run identifier.
func ValidRunID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
