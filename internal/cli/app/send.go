package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/appdirs"
	"github.com/gridcast/gridcast/internal/msgqueue"
)

func sendCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "send",
		Usage:     "inject input text into a mirrored terminal",
		ArgsUsage: "<terminal-path> <text>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "pipe", Usage: "write to this input pipe instead of the queue"},
			&cli.BoolFlag{Name: "mute", Usage: "prefix the mute option (pipe only)"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			pipeName := cmd.String("pipe")
			if pipeName != "" {
				if len(args) < 1 && !cmd.Bool("mute") {
					return cli.Exit("send: text is required", 2)
				}
				return sendPipe(pipeName, strings.Join(args, " "), cmd.Bool("mute"))
			}
			if cmd.Bool("mute") {
				return cli.Exit("send: --mute needs --pipe", 2)
			}
			if len(args) < 2 {
				return cli.Exit("send: terminal path and text are required", 2)
			}
			return sendQueue(args[0], strings.Join(args[1:], " "))
		},
	}
}

func sendQueue(terminalPath, text string) error {
	queue, err := msgqueue.OpenQueuePath(terminalPath)
	if err != nil {
		return err
	}
	if err := queue.Send(msgqueue.TypeInputText, []byte(text)); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}

// sendPipe writes one message to the named input pipe. Option bytes go in
// front of the text so the reader consumes them first.
func sendPipe(name, text string, mute bool) error {
	dir, err := appdirs.RendezvousDir()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("send: open pipe %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var payload []byte
	if mute {
		payload = append(payload, 0x1b, '!')
	}
	payload = append(payload, text...)
	if _, err := f.Write(payload); err != nil {
		return fmt.Errorf("send: write pipe %q: %w", path, err)
	}
	return nil
}
