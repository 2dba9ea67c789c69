package segment

import "errors"

var (
	// ErrNotFound reports that no segment exists under a key. Expected during
	// lookups; callers decide whether it matters.
	ErrNotFound = errors.New("segment: not found")

	// ErrUnsupported reports that this platform has no shared memory backend.
	ErrUnsupported = errors.New("segment: shared memory not supported on this platform")
)
