// Package pipe implements the named input channel: a one-directional byte
// pipe external writers use to hand text to the mirror. The channel re-arms
// itself after every disconnect; its owner never intervenes.
package pipe

import (
	"errors"
	"sync"

	"github.com/gridcast/gridcast/internal/runloop"
)

// Callback consumes delivered bytes and returns how many it used. Unused
// bytes are retained and re-offered together with the next read. Callbacks
// run on the channel's run loop, never on the I/O goroutine.
type Callback func(data []byte) int

var (
	ErrBadName     = errors.New("pipe: name is empty")
	ErrNilCallback = errors.New("pipe: callback is nil")
)

// errClosed is returned by a backend read once Close has begun.
var errClosed = errors.New("pipe: closed")

const readBufferSize = 512

// backend is one platform's pipe implementation. Read blocks for payload
// bytes and hides disconnect/re-arm cycles; n == 0 with a nil error means
// "re-armed, keep waiting".
type backend interface {
	Path() string
	Read(buf []byte) (int, error)
	Close() error
}

// Channel is an open named pipe delivering bytes to one callback.
type Channel struct {
	name     string
	loop     *runloop.Loop
	callback Callback
	backend  backend

	pending []byte // unconsumed bytes, touched only on the loop

	closeOnce sync.Once
	closeErr  error
}

// Create resolves name inside the rendezvous directory, creates the pipe
// object, and starts monitoring it. Any failed construction step tears down
// what was already created and returns the error.
func Create(name string, loop *runloop.Loop, callback Callback) (*Channel, error) {
	if name == "" {
		return nil, ErrBadName
	}
	if callback == nil {
		return nil, ErrNilCallback
	}
	b, err := newBackend(name)
	if err != nil {
		return nil, err
	}
	c := &Channel{
		name:     name,
		loop:     loop,
		callback: callback,
		backend:  b,
	}
	go c.monitor()
	return c, nil
}

// Path returns the filesystem (or pipe-namespace) path writers connect to.
func (c *Channel) Path() string {
	if c == nil || c.backend == nil {
		return ""
	}
	return c.backend.Path()
}

func (c *Channel) monitor() {
	buf := make([]byte, readBufferSize)
	for {
		n, err := c.backend.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		data := append([]byte(nil), buf[:n]...)
		if !c.loop.Post(func() { c.deliver(data) }) {
			return
		}
	}
}

func (c *Channel) deliver(data []byte) {
	c.pending = append(c.pending, data...)
	consumed := c.callback(c.pending)
	if consumed < 0 {
		consumed = 0
	}
	if consumed >= len(c.pending) {
		c.pending = c.pending[:0]
		return
	}
	c.pending = append(c.pending[:0], c.pending[consumed:]...)
}

// Destroy cancels the outstanding read, closes the descriptor, and removes
// the pipe object, in that order. Safe to call more than once.
func (c *Channel) Destroy() error {
	if c == nil || c.backend == nil {
		return nil
	}
	c.closeOnce.Do(func() {
		c.closeErr = c.backend.Close()
	})
	return c.closeErr
}
