package msgqueue

import "errors"

var (
	// ErrNotFound reports that no queue exists under a key.
	ErrNotFound = errors.New("msgqueue: not found")

	// ErrRemoved reports that the queue disappeared during an operation.
	// Routine during teardown races; callers treat it as a normal stop.
	ErrRemoved = errors.New("msgqueue: queue removed")

	// ErrNoMessage reports that a non-blocking receive found nothing
	// matching.
	ErrNoMessage = errors.New("msgqueue: no message")

	// ErrUnsupported reports that this platform has no message queue backend.
	ErrUnsupported = errors.New("msgqueue: message queues not supported on this platform")

	// ErrReceiverExists reports a second receiver for the same (queue, type).
	ErrReceiverExists = errors.New("msgqueue: receiver already registered for type")
)

// IsRemoved reports whether err means the queue no longer exists. Such
// errors are expected during teardown and are not logged.
func IsRemoved(err error) bool {
	return errors.Is(err, ErrRemoved) || errors.Is(err, ErrNotFound)
}
