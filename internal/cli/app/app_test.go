package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/segment"
)

func testDeps() (Dependencies, *bytes.Buffer) {
	var out bytes.Buffer
	return Dependencies{
		Version: "test",
		In:      strings.NewReader(""),
		Out:     &out,
		Err:     &out,
	}, &out
}

func TestCommandTree(t *testing.T) {
	deps, _ := testDeps()
	root := New(deps)
	want := []string{"run", "inspect", "watch", "send"}
	if len(root.Commands) != len(want) {
		t.Fatalf("command count = %d, want %d", len(root.Commands), len(want))
	}
	for i, name := range want {
		if root.Commands[i].Name != name {
			t.Fatalf("command %d = %q, want %q", i, root.Commands[i].Name, name)
		}
	}
	if root.Name != "gridcast" {
		t.Fatalf("root name = %q, want gridcast", root.Name)
	}
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	var coder cli.ExitCoder
	if !errors.As(err, &coder) {
		t.Fatalf("error %v does not carry an exit code", err)
	}
	return coder.ExitCode()
}

func TestRunRequiresTerminalPath(t *testing.T) {
	deps, _ := testDeps()
	err := New(deps).Run(context.Background(), []string{"gridcast", "run"})
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("exit code = %d, want 2", got)
	}
}

func TestSendValidatesArguments(t *testing.T) {
	deps, _ := testDeps()
	root := New(deps)

	err := root.Run(context.Background(), []string{"gridcast", "send"})
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("missing args: exit code = %d, want 2", got)
	}

	err = New(deps).Run(context.Background(), []string{"gridcast", "send", "--mute", "/dev/pts/9", "hi"})
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("mute without pipe: exit code = %d, want 2", got)
	}
}

func TestWatchRequiresTerminalPath(t *testing.T) {
	deps, _ := testDeps()
	err := New(deps).Run(context.Background(), []string{"gridcast", "watch"})
	if got := exitCode(t, err); got != 2 {
		t.Fatalf("exit code = %d, want 2", got)
	}
}

func TestPrintHeaderSummarizesSegment(t *testing.T) {
	seg, err := segment.New(5, 2, true)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	seg.SetCursor(1, 3)
	deps, out := testDeps()
	printHeader(deps, seg)
	got := out.String()
	for _, want := range []string{"5x2", "row-indexed", "cursor 1,3"} {
		if !strings.Contains(got, want) {
			t.Fatalf("header %q missing %q", got, want)
		}
	}
}

func TestRenderGridPlain(t *testing.T) {
	seg, err := segment.New(4, 2, false)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	blank := segment.BlankCharacter(segment.RGB{}, segment.RGB{})
	hi := blank
	hi.Codepoint = 'h'
	seg.SetCharacter(0, 0, hi)
	hi.Codepoint = 'i'
	seg.SetCharacter(0, 1, hi)

	// Wide character followed by its continuation cell.
	wide := blank
	wide.Codepoint = '世'
	seg.SetCharacter(1, 0, wide)
	wide.Codepoint = 0
	seg.SetCharacter(1, 1, wide)

	got := renderGrid(seg, true)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	if lines[0] != "hi  " {
		t.Fatalf("line 0 = %q, want %q", lines[0], "hi  ")
	}
	if lines[1] != "世  " {
		t.Fatalf("line 1 = %q, want %q", lines[1], "世  ")
	}
}
