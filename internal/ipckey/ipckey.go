// Package ipckey derives the System V IPC key shared by a terminal's screen
// segment and its message queue. Any process that knows the terminal's
// filesystem path can locate both objects.
package ipckey

import (
	"errors"
	"hash/fnv"
	"path/filepath"
	"strings"
)

// Key addresses one shared segment / message queue pair.
type Key int32

var ErrEmptyPath = errors.New("ipckey: terminal path is empty")

// FromPath maps a terminal device path to its IPC key. The mapping is
// deterministic and never yields zero (IPC_PRIVATE) or a negative key.
func FromPath(path string) (Key, error) {
	cleaned := strings.TrimSpace(path)
	if cleaned == "" {
		return 0, ErrEmptyPath
	}
	cleaned = filepath.Clean(cleaned)
	h := fnv.New32a()
	_, _ = h.Write([]byte(cleaned))
	k := h.Sum32() & 0x7fffffff
	if k == 0 {
		k = 1
	}
	return Key(k), nil
}
