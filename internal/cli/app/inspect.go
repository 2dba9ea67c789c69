package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v3"

	"github.com/gridcast/gridcast/internal/segment"
)

func inspectCommand(deps Dependencies) *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "attach a mirrored screen and dump its contents",
		ArgsUsage: "<terminal-path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "header-only", Usage: "print the header summary without the grid"},
			&cli.BoolFlag{Name: "plain", Usage: "skip colors and borders"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			terminalPath := cmd.Args().First()
			if terminalPath == "" {
				return cli.Exit("inspect: terminal path is required", 2)
			}
			seg, err := segment.AttachPath(terminalPath)
			if err != nil {
				return err
			}
			defer func() { _ = seg.Detach() }()

			printHeader(deps, seg)
			if cmd.Bool("header-only") {
				return nil
			}
			fmt.Fprintln(deps.Out, renderGrid(seg, cmd.Bool("plain")))
			return nil
		},
	}
}

func printHeader(deps Dependencies, seg *segment.Segment) {
	row, col := seg.Cursor()
	layout := "flat"
	if seg.HasRowArray() {
		layout = "row-indexed"
	}
	fmt.Fprintf(deps.Out, "key %d: %dx%d %s, screen %d, cursor %d,%d, flags %#x/%#x, %d bytes\n",
		seg.Key(), seg.Columns(), seg.Rows(), layout, seg.ScreenNumber(),
		row, col, seg.CommonFlags(), seg.PrivateFlags(), seg.SegmentSize())
}

// renderGrid draws the screen as text. Continuation cells of wide characters
// hold codepoint zero and are skipped; the preceding rune already covers
// their columns.
func renderGrid(seg *segment.Segment, plain bool) string {
	rows := make([]string, 0, seg.Rows())
	for r := 0; r < seg.Rows(); r++ {
		var line strings.Builder
		width := 0
		for c := 0; c < seg.Columns(); c++ {
			ch := seg.Character(r, c)
			if ch.Codepoint == 0 {
				continue
			}
			if plain {
				line.WriteRune(ch.Codepoint)
			} else {
				line.WriteString(styleCell(ch).Render(string(ch.Codepoint)))
			}
			width += runewidth.RuneWidth(ch.Codepoint)
		}
		for ; width < seg.Columns(); width++ {
			line.WriteByte(' ')
		}
		rows = append(rows, line.String())
	}
	body := strings.Join(rows, "\n")
	if plain {
		return body
	}
	return lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Render(body)
}

func styleCell(ch segment.Character) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexRGB(ch.Foreground))).
		Background(lipgloss.Color(hexRGB(ch.Background)))
	if ch.Blink {
		style = style.Blink(true)
	}
	if ch.Underline {
		style = style.Underline(true)
	}
	return style
}

func hexRGB(c segment.RGB) string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red, c.Green, c.Blue)
}
