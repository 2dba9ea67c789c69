//go:build !windows

package pipe

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/gridcast/gridcast/internal/appdirs"
)

// fifoBackend reads a FIFO in the rendezvous directory. The descriptor is
// opened read-write: a read-only FIFO reports end-of-file whenever no writer
// is attached, while a read-write one simply idles. Writers may come and go;
// the descriptor stays open for the channel's whole life.
type fifoBackend struct {
	path string
	file *os.File
}

func newBackend(name string) (backend, error) {
	dir, err := appdirs.RendezvousDir()
	if err != nil {
		slog.Error("resolve rendezvous dir failed", "pipe", name, "err", err)
		return nil, fmt.Errorf("pipe: resolve rendezvous dir: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("remove stale pipe failed", "path", path, "err", err)
		return nil, fmt.Errorf("pipe: remove stale %q: %w", path, err)
	}
	if err := unix.Mkfifo(path, 0o600); err != nil {
		slog.Error("mkfifo failed", "path", path, "err", err)
		return nil, fmt.Errorf("pipe: mkfifo %q: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|syscall.O_NONBLOCK, 0)
	if err != nil {
		slog.Error("open fifo failed", "path", path, "err", err)
		_ = os.Remove(path)
		return nil, fmt.Errorf("pipe: open %q: %w", path, err)
	}
	return &fifoBackend{path: path, file: file}, nil
}

func (b *fifoBackend) Path() string { return b.path }

func (b *fifoBackend) Read(buf []byte) (int, error) {
	n, err := b.file.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrClosed) {
			return 0, errClosed
		}
		// Transient read error: the descriptor stays usable, keep waiting.
		slog.Debug("fifo read error", "path", b.path, "err", err)
		return 0, nil
	}
	return n, nil
}

func (b *fifoBackend) Close() error {
	err := b.file.Close()
	if rmErr := os.Remove(b.path); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}
