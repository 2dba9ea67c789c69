package app

import (
	"io"
	"os"
)

// Dependencies carries everything the command handlers touch, so tests can
// swap the streams.
type Dependencies struct {
	Version string
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
}

// DefaultDependencies wires the process streams.
func DefaultDependencies(version string) Dependencies {
	return Dependencies{
		Version: version,
		In:      os.Stdin,
		Out:     os.Stdout,
		Err:     os.Stderr,
	}
}
