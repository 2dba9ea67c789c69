package app

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/config"
	"github.com/gridcast/gridcast/internal/mirror"
	"github.com/gridcast/gridcast/internal/mirror/mirrortest"
	"github.com/gridcast/gridcast/internal/runloop"
)

const loopCapacity = 256

func runCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "mirror a simulated session fed from stdin",
		ArgsUsage: "<terminal-path>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "cols", Usage: "screen columns", Value: 80},
			&cli.IntFlag{Name: "rows", Usage: "screen rows", Value: 24},
			&cli.StringFlag{Name: "pipe", Usage: "input pipe name (overrides config)"},
			&cli.BoolFlag{Name: "no-external-control", Usage: "skip the message queue"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			terminalPath := cmd.Args().First()
			if terminalPath == "" {
				return cli.Exit("run: terminal path is required", 2)
			}
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			opts := mirror.Options{
				TerminalPath:    terminalPath,
				ExternalControl: cfg.ExternalControl != nil && *cfg.ExternalControl,
				RowArray:        cfg.RowArray != nil && *cfg.RowArray,
				Mute: func() {
					slog.Info("mute requested over pipe")
				},
			}
			if cfg.PipeName != nil {
				opts.PipeName = *cfg.PipeName
			}
			if pipe := cmd.String("pipe"); pipe != "" {
				opts.PipeName = pipe
			}
			if cmd.Bool("no-external-control") {
				opts.ExternalControl = false
			}
			cols := int(cmd.Int("cols"))
			rows := int(cmd.Int("rows"))
			if cols < 1 || rows < 1 {
				return cli.Exit("run: cols and rows must be positive", 2)
			}
			return runMirror(ctx, deps, mirrortest.New(cols, rows), opts)
		},
	}
}

// runMirror drives the mirror from stdin until EOF or a signal. Each input
// rune becomes a typed character; newlines move the cursor and scroll at the
// bottom row.
func runMirror(ctx context.Context, deps Dependencies, grid *mirrortest.Grid, opts mirror.Options) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loop := runloop.New(loopCapacity)
	opts.Loop = loop

	m, err := mirror.Start(grid, opts)
	if err != nil {
		return err
	}

	// The loop lives past signal cancellation: Stop must still execute on
	// it, so it ends via Close, not via ctx.
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(context.Background())
	}()

	fmt.Fprintf(deps.Out, "mirroring %q (key %d); type to project, EOF or ^C to stop\n",
		opts.TerminalPath, m.Segment().Key())

	input := make(chan rune, loopCapacity)
	go func() {
		defer close(input)
		reader := bufio.NewReader(deps.In)
		for {
			r, _, err := reader.ReadRune()
			if err != nil {
				return
			}
			select {
			case input <- r:
			case <-ctx.Done():
				return
			}
		}
	}()

feed:
	for {
		select {
		case <-ctx.Done():
			break feed
		case r, ok := <-input:
			if !ok {
				break feed
			}
			if !loop.Post(func() { feedRune(m, grid, r) }) {
				break feed
			}
		}
	}

	stopped := make(chan struct{})
	if loop.Post(func() { m.Stop(); close(stopped) }) {
		<-stopped
	}
	loop.Close()
	<-loopDone
	return nil
}

func feedRune(m *mirror.Mirror, grid *mirrortest.Grid, r rune) {
	switch r {
	case '\r':
		row, _ := grid.CursorPosition()
		m.SetCursorPosition(row, 0)
	case '\n':
		row, _ := grid.CursorPosition()
		_, rows := grid.Size()
		if row == rows-1 {
			m.ScrollUp(1)
		} else {
			row++
		}
		m.SetCursorPosition(row, 0)
	default:
		m.AddCharacter(r)
	}
}
