// Package runloop serializes work onto a single goroutine. Blocking IPC
// receivers post their handlers here so handler bodies never race with the
// rest of the application.
package runloop

import (
	"context"
	"sync"
)

// Loop executes posted tasks one at a time on the goroutine running Run.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// New returns a loop with a bounded task queue. Posting blocks once capacity
// tasks are pending, which back-pressures producers instead of growing
// without bound.
func New(capacity int) *Loop {
	if capacity < 1 {
		capacity = 1
	}
	return &Loop{
		tasks: make(chan func(), capacity),
		done:  make(chan struct{}),
	}
}

// Run executes tasks until the context is canceled or the loop is closed.
// On close, tasks already queued still run before Run returns.
func (l *Loop) Run(ctx context.Context) {
	if l == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			for {
				select {
				case fn := <-l.tasks:
					fn()
				default:
					return
				}
			}
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn for execution on the loop goroutine. It reports false once
// the loop is closed.
func (l *Loop) Post(fn func()) bool {
	if l == nil || fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case <-l.done:
		return false
	case l.tasks <- fn:
		return true
	}
}

// Close stops the loop. Safe to call more than once.
func (l *Loop) Close() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.done) })
}
