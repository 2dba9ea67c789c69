//go:build linux

package msgqueue

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/gridcast/gridcast/internal/ipckey"
)

const queuePerms = 0o600

// CreateQueue allocates the message queue under key, force-destroying any
// stale queue left by a previous run.
func CreateQueue(key ipckey.Key) (*Queue, error) {
	if err := Remove(key); err != nil {
		slog.Error("destroy stale queue failed", "key", key, "err", err)
		return nil, err
	}
	id, err := msgget(int(key), unix.IPC_CREAT|unix.IPC_EXCL|queuePerms)
	if err != nil {
		slog.Error("msgget failed", "key", key, "err", err)
		return nil, fmt.Errorf("msgqueue: create %d: %w", key, err)
	}
	return &Queue{key: key, id: id}, nil
}

// OpenQueue addresses an existing queue under key.
func OpenQueue(key ipckey.Key) (*Queue, error) {
	id, err := msgget(int(key), 0)
	if err != nil {
		if err == unix.ENOENT {
			return nil, ErrNotFound
		}
		slog.Error("msgget probe failed", "key", key, "err", err)
		return nil, fmt.Errorf("msgqueue: probe %d: %w", key, err)
	}
	return &Queue{key: key, id: id}, nil
}

// OpenQueuePath addresses the queue belonging to a terminal's path.
func OpenQueuePath(path string) (*Queue, error) {
	key, err := ipckey.FromPath(path)
	if err != nil {
		return nil, err
	}
	return OpenQueue(key)
}

// Remove destroys any queue under key. A missing queue is not an error.
func Remove(key ipckey.Key) error {
	id, err := msgget(int(key), 0)
	if err != nil {
		if err == unix.ENOENT {
			return nil
		}
		return fmt.Errorf("msgqueue: probe %d: %w", key, err)
	}
	if err := msgctl(id, unix.IPC_RMID); err != nil && err != unix.EIDRM && err != unix.EINVAL {
		return fmt.Errorf("msgqueue: remove %d: %w", key, err)
	}
	return nil
}

// Send enqueues one message without blocking. Failures are logged and
// returned; a full or vanished queue is the caller's call to ignore.
func (q *Queue) Send(kind Type, payload []byte) error {
	if q == nil {
		return ErrNotFound
	}
	if err := msgsnd(q.id, int64(kind), payload, unix.IPC_NOWAIT); err != nil {
		if err == unix.EIDRM || err == unix.EINVAL {
			return ErrRemoved
		}
		slog.Error("msgsnd failed", "key", q.key, "type", kind, "err", err)
		return fmt.Errorf("msgqueue: send type %d: %w", kind, err)
	}
	return nil
}

// Receive blocks until the next message whose type matches kind (TypeAny
// matches everything) and copies its payload into buf, returning the payload
// length. A removed queue surfaces as ErrRemoved, which callers treat as a
// normal teardown signal.
func (q *Queue) Receive(kind Type, buf []byte) (int, error) {
	if q == nil {
		return 0, ErrNotFound
	}
	for {
		n, err := msgrcv(q.id, int64(kind), buf, 0)
		if err == unix.EINTR {
			continue
		}
		if err == unix.EIDRM || err == unix.EINVAL {
			return 0, ErrRemoved
		}
		if err != nil {
			return 0, fmt.Errorf("msgqueue: receive type %d: %w", kind, err)
		}
		return n, nil
	}
}

// TryReceive is the non-blocking variant of Receive. An empty queue (or one
// holding only non-matching types) returns ErrNoMessage.
func (q *Queue) TryReceive(kind Type, buf []byte) (int, error) {
	if q == nil {
		return 0, ErrNotFound
	}
	n, err := msgrcv(q.id, int64(kind), buf, unix.IPC_NOWAIT)
	switch err {
	case nil:
		return n, nil
	case unix.ENOMSG:
		return 0, ErrNoMessage
	case unix.EIDRM, unix.EINVAL:
		return 0, ErrRemoved
	default:
		return 0, fmt.Errorf("msgqueue: try receive type %d: %w", kind, err)
	}
}

// Destroy removes the queue, waking any blocked receiver. Racing removals
// are ignored.
func (q *Queue) Destroy() error {
	if q == nil {
		return nil
	}
	if err := msgctl(q.id, unix.IPC_RMID); err != nil && err != unix.EIDRM && err != unix.EINVAL {
		return fmt.Errorf("msgqueue: destroy %d: %w", q.key, err)
	}
	return nil
}

// The kernel ABI for SysV message buffers is a native long type tag followed
// by the payload. x/sys/unix has no msg* wrappers, so these stay raw. The
// payload buffer is backed by a []uint64 to keep the type word aligned.

func msgget(key, flags int) (int, error) {
	id, _, errno := unix.Syscall(unix.SYS_MSGGET, uintptr(key), uintptr(flags), 0)
	if errno != 0 {
		return 0, errno
	}
	return int(id), nil
}

func msgsnd(id int, mtype int64, payload []byte, flags int) error {
	words := make([]uint64, 1+(len(payload)+7)/8)
	words[0] = uint64(mtype)
	if len(payload) > 0 {
		text := unsafe.Slice((*byte)(unsafe.Pointer(&words[1])), len(payload))
		copy(text, payload)
	}
	_, _, errno := unix.Syscall6(unix.SYS_MSGSND,
		uintptr(id),
		uintptr(unsafe.Pointer(&words[0])),
		uintptr(len(payload)),
		uintptr(flags), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

func msgrcv(id int, mtype int64, buf []byte, flags int) (int, error) {
	words := make([]uint64, 1+(len(buf)+7)/8)
	n, _, errno := unix.Syscall6(unix.SYS_MSGRCV,
		uintptr(id),
		uintptr(unsafe.Pointer(&words[0])),
		uintptr(len(buf)),
		uintptr(mtype),
		uintptr(flags), 0)
	if errno != 0 {
		return 0, errno
	}
	if int(n) > 0 {
		text := unsafe.Slice((*byte)(unsafe.Pointer(&words[1])), int(n))
		copy(buf, text)
	}
	return int(n), nil
}

func msgctl(id, cmd int) error {
	_, _, errno := unix.Syscall(unix.SYS_MSGCTL, uintptr(id), uintptr(cmd), 0)
	if errno != 0 {
		return errno
	}
	return nil
}
