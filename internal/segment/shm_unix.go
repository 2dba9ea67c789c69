//go:build linux || (darwin && !ios)

package segment

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/unix"

	"github.com/gridcast/gridcast/internal/ipckey"
)

const shmPerms = 0o600

// Create allocates, attaches, and initializes a shared segment under key.
// Any pre-existing segment under the same key is destroyed first, so a
// restart never attaches to a stale image.
func Create(key ipckey.Key, columns, rows int, withRowArray bool) (*Segment, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("segment: invalid dimensions %dx%d", columns, rows)
	}
	if err := Remove(key); err != nil {
		slog.Error("destroy stale segment failed", "key", key, "err", err)
		return nil, err
	}
	l := ComputeLayout(columns, rows, withRowArray)
	id, err := unix.SysvShmGet(int(key), l.SegmentSize, unix.IPC_CREAT|unix.IPC_EXCL|shmPerms)
	if err != nil {
		slog.Error("shmget failed", "key", key, "size", l.SegmentSize, "err", err)
		return nil, fmt.Errorf("segment: allocate %d bytes: %w", l.SegmentSize, err)
	}
	buf, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		slog.Error("shmat failed", "key", key, "id", id, "err", err)
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return nil, fmt.Errorf("segment: attach: %w", err)
	}
	s := &Segment{key: key, id: id, buf: buf}
	s.initialize(l)
	return s, nil
}

// Attach maps an existing segment under key read-write.
func Attach(key ipckey.Key) (*Segment, error) {
	id, err := lookup(key)
	if err != nil {
		return nil, err
	}
	buf, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		slog.Error("shmat failed", "key", key, "id", id, "err", err)
		return nil, fmt.Errorf("segment: attach: %w", err)
	}
	s := &Segment{key: key, id: id, buf: buf}
	if err := s.validate(); err != nil {
		_ = unix.SysvShmDetach(buf)
		return nil, err
	}
	return s, nil
}

// AttachPath maps the segment belonging to a terminal's filesystem path.
func AttachPath(path string) (*Segment, error) {
	key, err := ipckey.FromPath(path)
	if err != nil {
		return nil, err
	}
	return Attach(key)
}

// Remove destroys any segment under key. A missing segment is not an error;
// other probe failures are logged.
func Remove(key ipckey.Key) error {
	id, err := lookup(key)
	if err != nil {
		if err == ErrNotFound {
			return nil
		}
		return err
	}
	if _, err := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err != nil {
		return fmt.Errorf("segment: remove %d: %w", key, err)
	}
	return nil
}

func lookup(key ipckey.Key) (int, error) {
	id, err := unix.SysvShmGet(int(key), 0, 0)
	if err != nil {
		if err == unix.ENOENT {
			return 0, ErrNotFound
		}
		slog.Error("shmget probe failed", "key", key, "err", err)
		return 0, fmt.Errorf("segment: probe %d: %w", key, err)
	}
	return id, nil
}

func (s *Segment) validate() error {
	if len(s.buf) < HeaderSize {
		return fmt.Errorf("segment: mapped %d bytes, need at least %d", len(s.buf), HeaderSize)
	}
	if size := s.SegmentSize(); size > len(s.buf) {
		return fmt.Errorf("segment: header claims %d bytes, mapped %d", size, len(s.buf))
	}
	if hs := s.HeaderSize(); hs != HeaderSize {
		return fmt.Errorf("segment: unexpected header size %d", hs)
	}
	return nil
}

// Detach unmaps the segment. Heap-backed segments detach trivially.
func (s *Segment) Detach() error {
	if s == nil || s.id < 0 {
		return nil
	}
	buf := s.buf
	s.buf = nil
	if buf == nil {
		return nil
	}
	if err := unix.SysvShmDetach(buf); err != nil {
		return fmt.Errorf("segment: detach: %w", err)
	}
	return nil
}

// Destroy detaches and removes the segment. Removal races with other
// processes are expected and ignored.
func (s *Segment) Destroy() error {
	if s == nil {
		return nil
	}
	err := s.Detach()
	if s.id >= 0 {
		if _, rmErr := unix.SysvShmCtl(s.id, unix.IPC_RMID, nil); rmErr != nil && rmErr != unix.EINVAL && rmErr != unix.EIDRM {
			if err == nil {
				err = fmt.Errorf("segment: destroy: %w", rmErr)
			}
		}
	}
	return err
}
