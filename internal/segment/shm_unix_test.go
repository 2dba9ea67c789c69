//go:build linux

package segment

import (
	"testing"

	"github.com/gridcast/gridcast/internal/ipckey"
)

func testKey(t *testing.T) ipckey.Key {
	t.Helper()
	key, err := ipckey.FromPath("/tmp/gridcast-segment-test/" + t.Name())
	if err != nil {
		t.Fatalf("ipckey: %v", err)
	}
	return key
}

func TestCreateAttachRoundTrip(t *testing.T) {
	key := testKey(t)
	writer, err := Create(key, 20, 6, true)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	defer func() { _ = writer.Destroy() }()

	want := Character{Codepoint: 'Z', Foreground: RGB{Red: 0xff}, Alpha: 0xff, Underline: true}
	writer.SetCharacter(3, 11, want)
	writer.SetCursor(3, 11)

	reader, err := Attach(key)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	defer func() { _ = reader.Detach() }()

	if got := reader.Character(3, 11); got != want {
		t.Fatalf("reader cell = %+v, want %+v", got, want)
	}
	if row, col := reader.Cursor(); row != 3 || col != 11 {
		t.Fatalf("reader cursor = %d,%d, want 3,11", row, col)
	}
	if string(reader.Snapshot()) != string(writer.Snapshot()) {
		t.Fatalf("reader image differs from writer image")
	}
}

func TestCreateDestroysStaleSegment(t *testing.T) {
	key := testKey(t)
	old, err := Create(key, 10, 4, false)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	_ = old.Detach()

	fresh, err := Create(key, 30, 8, true)
	if err != nil {
		t.Fatalf("recreate under same key: %v", err)
	}
	defer func() { _ = fresh.Destroy() }()
	if fresh.Columns() != 30 || fresh.Rows() != 8 {
		t.Fatalf("recreated segment has stale dimensions %dx%d", fresh.Columns(), fresh.Rows())
	}
}

func TestRemoveMissingIsSilent(t *testing.T) {
	if err := Remove(testKey(t)); err != nil {
		t.Fatalf("Remove on missing key: %v", err)
	}
}

func TestAttachMissingReportsNotFound(t *testing.T) {
	if _, err := Attach(testKey(t)); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDestroyTwice(t *testing.T) {
	s, err := Create(testKey(t), 5, 2, false)
	if err != nil {
		t.Skipf("sysv shm unavailable: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("first destroy: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("second destroy: %v", err)
	}
}
