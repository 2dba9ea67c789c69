//go:build !windows

package appdirs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gridcast/gridcast/internal/runenv"
)

func TestRuntimeDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(runenv.RuntimeDirEnv, dir)
	got, err := RuntimeDir()
	if err != nil {
		t.Fatalf("RuntimeDir: %v", err)
	}
	if got != dir {
		t.Fatalf("expected %q, got %q", dir, got)
	}
}

func TestRuntimeDirCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	t.Setenv(runenv.RuntimeDirEnv, dir)
	got, err := RuntimeDir()
	if err != nil {
		t.Fatalf("RuntimeDir: %v", err)
	}
	info, err := os.Stat(got)
	if err != nil {
		t.Fatalf("stat created dir: %v", err)
	}
	if !info.IsDir() {
		t.Fatalf("expected directory at %q", got)
	}
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		t.Fatalf("expected 0700 perms, got %v", perm)
	}
}

func TestRendezvousDir(t *testing.T) {
	t.Setenv(runenv.RuntimeDirEnv, t.TempDir())
	got, err := RendezvousDir()
	if err != nil {
		t.Fatalf("RendezvousDir: %v", err)
	}
	if filepath.Base(got) != "pipes" {
		t.Fatalf("expected pipes subdirectory, got %q", got)
	}
}
