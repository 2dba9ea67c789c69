//go:build !linux && !(darwin && !ios)

package segment

import "github.com/gridcast/gridcast/internal/ipckey"

func Create(key ipckey.Key, columns, rows int, withRowArray bool) (*Segment, error) {
	return nil, ErrUnsupported
}

func Attach(key ipckey.Key) (*Segment, error) {
	return nil, ErrUnsupported
}

func AttachPath(path string) (*Segment, error) {
	return nil, ErrUnsupported
}

func Remove(key ipckey.Key) error {
	return ErrUnsupported
}

func (s *Segment) Detach() error {
	return nil
}

func (s *Segment) Destroy() error {
	return nil
}
