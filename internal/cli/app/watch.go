package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/msgqueue"
)

const watchPollInterval = 50 * time.Millisecond

func watchCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "follow update pulses from a mirrored screen",
		ArgsUsage: "<terminal-path>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			terminalPath := cmd.Args().First()
			if terminalPath == "" {
				return cli.Exit("watch: terminal path is required", 2)
			}
			queue, err := msgqueue.OpenQueuePath(terminalPath)
			if err != nil {
				return err
			}
			return watchQueue(ctx, deps, queue)
		},
	}
}

// watchQueue polls for update and exit pulses. It deliberately avoids a
// blocking receive on TypeAny: that would steal text messages bound for the
// emulator.
func watchQueue(ctx context.Context, deps Dependencies, queue *msgqueue.Queue) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	buf := make([]byte, 1)
	for {
		drained := true
		for _, kind := range []msgqueue.Type{msgqueue.TypeSegmentUpdated, msgqueue.TypeEmulatorExiting} {
			_, err := queue.TryReceive(kind, buf)
			switch {
			case err == nil:
				if kind == msgqueue.TypeEmulatorExiting {
					fmt.Fprintln(deps.Out, "emulator exiting")
					return nil
				}
				fmt.Fprintln(deps.Out, "screen updated")
				drained = false
			case errors.Is(err, msgqueue.ErrNoMessage):
			case msgqueue.IsRemoved(err):
				fmt.Fprintln(deps.Out, "queue removed")
				return nil
			default:
				return err
			}
		}
		if drained {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(watchPollInterval):
			}
		}
	}
}
