// Package app builds the gridcast command tree.
package app

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/identity"
)

// New assembles the root command. Exit codes are the entrypoint's business:
// the default handler would os.Exit from inside Run, so it is disabled here.
func New(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:           identity.CLIName,
		Usage:          "mirror terminal screens over shared memory",
		Version:        deps.Version,
		Writer:         deps.Out,
		ErrWriter:      deps.Err,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Commands: []*cli.Command{
			runCommand(deps),
			inspectCommand(deps),
			watchCommand(deps),
			sendCommand(deps),
		},
	}
}
