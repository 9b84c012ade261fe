package util

import (
	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. ulid.Make uses a process-wide monotonic
// entropy source, so ids created in one import run sort in insertion order.
func NewULID() string {
	return ulid.Make().String()
}
