//go:build windows

package pipe

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sys/windows"
)

// winBackend serves a message-mode named pipe. The read side is only armed
// once a client connects; after a disconnect or read failure the pipe is
// disconnected and put back into the connection wait.
type winBackend struct {
	path      string
	handle    windows.Handle
	connected bool
	closed    atomic.Bool
}

func newBackend(name string) (backend, error) {
	path := `\\.\pipe\` + name
	path16, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, fmt.Errorf("pipe: encode name %q: %w", path, err)
	}
	handle, err := windows.CreateNamedPipe(
		path16,
		windows.PIPE_ACCESS_INBOUND,
		windows.PIPE_TYPE_MESSAGE|windows.PIPE_READMODE_MESSAGE|windows.PIPE_WAIT,
		1,
		0,
		readBufferSize,
		0,
		nil,
	)
	if err != nil {
		slog.Error("create named pipe failed", "path", path, "err", err)
		return nil, fmt.Errorf("pipe: create %q: %w", path, err)
	}
	return &winBackend{path: path, handle: handle}, nil
}

func (b *winBackend) Path() string { return b.path }

func (b *winBackend) Read(buf []byte) (int, error) {
	if b.closed.Load() {
		return 0, errClosed
	}
	if !b.connected {
		if err := windows.ConnectNamedPipe(b.handle, nil); err != nil {
			if errors.Is(err, windows.ERROR_PIPE_CONNECTED) {
				// Client raced ahead of the wait.
			} else if b.closed.Load() || errors.Is(err, windows.ERROR_OPERATION_ABORTED) {
				return 0, errClosed
			} else {
				slog.Debug("pipe connect wait failed", "path", b.path, "err", err)
				return 0, nil
			}
		}
		b.connected = true
	}
	var done uint32
	err := windows.ReadFile(b.handle, buf, &done, nil)
	if b.closed.Load() {
		return 0, errClosed
	}
	if err != nil || done == 0 {
		// Client went away: drop the connection and wait for the next one.
		b.reset()
		return 0, nil
	}
	return int(done), nil
}

func (b *winBackend) reset() {
	_ = windows.DisconnectNamedPipe(b.handle)
	b.connected = false
}

func (b *winBackend) Close() error {
	b.closed.Store(true)
	_ = windows.CancelIoEx(b.handle, nil)
	_ = windows.DisconnectNamedPipe(b.handle)
	if err := windows.CloseHandle(b.handle); err != nil {
		return fmt.Errorf("pipe: close %q: %w", b.path, err)
	}
	return nil
}
