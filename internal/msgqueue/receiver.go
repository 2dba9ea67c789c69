package msgqueue

import (
	"log/slog"

	"github.com/gridcast/gridcast/internal/runloop"
)

// Handler consumes one received payload. It always runs on the loop
// goroutine, never on the receiver's.
type Handler func(payload []byte)

// Receiver converts a blocking queue receive into tasks on a run loop. One
// receiver per (queue, type) pair.
type Receiver struct {
	queue    *Queue
	kind     Type
	loop     *runloop.Loop
	finished chan struct{}
}

// StartReceiver spawns the receive goroutine. Each delivered message is
// handed to the loop in receipt order; the goroutine stops when the queue is
// removed or the loop is closed.
func StartReceiver(q *Queue, kind Type, maxSize int, loop *runloop.Loop, handler Handler) (*Receiver, error) {
	if q == nil {
		return nil, ErrNotFound
	}
	if maxSize < 0 {
		maxSize = 0
	}
	r := &Receiver{
		queue:    q,
		kind:     kind,
		loop:     loop,
		finished: make(chan struct{}),
	}
	if !q.registerReceiver(r) {
		return nil, ErrReceiverExists
	}
	go r.run(maxSize, handler)
	return r, nil
}

func (r *Receiver) run(maxSize int, handler Handler) {
	defer close(r.finished)
	defer r.queue.unregisterReceiver(r)
	buf := make([]byte, maxSize)
	for {
		n, err := r.queue.Receive(r.kind, buf)
		if err != nil {
			if !IsRemoved(err) {
				slog.Error("queue receive failed", "key", r.queue.Key(), "type", r.kind, "err", err)
			}
			return
		}
		payload := append([]byte(nil), buf[:n]...)
		if !r.loop.Post(func() { handler(payload) }) {
			return
		}
	}
}

// Join waits for the receive goroutine. The goroutine only notices teardown
// when its blocking receive fails, so destroy the queue before joining.
func (r *Receiver) Join() {
	if r == nil {
		return
	}
	<-r.finished
}
