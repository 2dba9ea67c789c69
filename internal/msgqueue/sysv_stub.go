//go:build !linux

package msgqueue

import "github.com/gridcast/gridcast/internal/ipckey"

func CreateQueue(key ipckey.Key) (*Queue, error) {
	return nil, ErrUnsupported
}

func OpenQueue(key ipckey.Key) (*Queue, error) {
	return nil, ErrUnsupported
}

func OpenQueuePath(path string) (*Queue, error) {
	return nil, ErrUnsupported
}

func Remove(key ipckey.Key) error {
	return ErrUnsupported
}

func (q *Queue) Send(kind Type, payload []byte) error {
	return ErrUnsupported
}

func (q *Queue) Receive(kind Type, buf []byte) (int, error) {
	return 0, ErrUnsupported
}

func (q *Queue) TryReceive(kind Type, buf []byte) (int, error) {
	return 0, ErrUnsupported
}

func (q *Queue) Destroy() error {
	return nil
}
