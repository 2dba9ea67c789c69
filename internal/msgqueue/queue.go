// Package msgqueue wraps the kernel message queue paired with a screen
// segment. Messages are a type tag plus a raw payload; the tag set is fixed.
package msgqueue

import (
	"sync"

	"github.com/gridcast/gridcast/internal/ipckey"
)

// Type tags one message. The set is closed: these three tags are the whole
// external protocol.
type Type int32

const (
	// TypeInputText carries UTF-8 text bound for the emulator.
	TypeInputText Type = 't'
	// TypeSegmentUpdated is an empty pulse telling watchers to re-read the
	// segment.
	TypeSegmentUpdated Type = 'u'
	// TypeEmulatorExiting is an empty pulse sent once at teardown.
	TypeEmulatorExiting Type = 'x'

	// TypeAny matches every message on receive.
	TypeAny Type = 0
)

// Queue is an open kernel message queue. Create and destroy it alongside the
// screen segment sharing its key.
type Queue struct {
	key ipckey.Key
	id  int

	mu        sync.Mutex
	receivers map[Type]*Receiver
}

// Key returns the IPC key the queue is addressed by.
func (q *Queue) Key() ipckey.Key {
	if q == nil {
		return 0
	}
	return q.key
}

func (q *Queue) registerReceiver(r *Receiver) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.receivers == nil {
		q.receivers = make(map[Type]*Receiver)
	}
	if _, exists := q.receivers[r.kind]; exists {
		return false
	}
	q.receivers[r.kind] = r
	return true
}

func (q *Queue) unregisterReceiver(r *Receiver) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.receivers[r.kind] == r {
		delete(q.receivers, r.kind)
	}
}
