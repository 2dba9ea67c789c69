// Package segment implements the shared screen segment: a fixed byte layout
// holding a terminal's character grid, readable by unrelated processes. The
// mirror is the sole writer; readers tolerate torn reads and use queue pulses
// as a re-read hint.
package segment

import "encoding/binary"

// All multi-byte fields are little-endian byte offsets or counts measured
// from the segment base. The layout is an external ABI and must not change.
const (
	offSegmentSize      = 0
	offHeaderSize       = 4
	offScreenWidth      = 8
	offScreenHeight     = 12
	offCursorRow        = 16
	offCursorColumn     = 20
	offScreenNumber     = 24
	offCommonFlags      = 28
	offPrivateFlags     = 32
	offRowsOffset       = 36
	offRowSize          = 40
	offCharactersOffset = 44
	offCharacterSize    = 48

	// HeaderSize is the byte size of the segment header.
	HeaderSize = 52

	// RowSize is the byte size of one row table entry.
	RowSize = 4

	// CharacterSize is the byte size of one character cell:
	// codepoint(4) + foreground rgb(3) + background rgb(3) + alpha(1) + flags(1).
	CharacterSize = 12
)

// Character cell flag bits.
const (
	charFlagBlink     = 1 << 0
	charFlagUnderline = 1 << 1
)

// RGB is one 24-bit color.
type RGB struct {
	Red, Green, Blue uint8
}

// Character is the decoded form of one cell.
type Character struct {
	Codepoint  rune
	Foreground RGB
	Background RGB
	Alpha      uint8
	Blink      bool
	Underline  bool
}

// Layout is the computed byte layout for given grid dimensions.
type Layout struct {
	Columns          int
	Rows             int
	RowsOffset       int // zero when the row table is absent
	CharactersOffset int
	SegmentSize      int
}

// ComputeLayout returns the exact byte layout for a columns x rows grid,
// optionally with a per-row indirection table.
func ComputeLayout(columns, rows int, withRowArray bool) Layout {
	l := Layout{Columns: columns, Rows: rows}
	next := HeaderSize
	if withRowArray {
		l.RowsOffset = next
		next += rows * RowSize
	}
	l.CharactersOffset = next
	l.SegmentSize = next + columns*rows*CharacterSize
	return l
}

func encodeCharacter(dst []byte, c Character) {
	binary.LittleEndian.PutUint32(dst, uint32(c.Codepoint))
	dst[4] = c.Foreground.Red
	dst[5] = c.Foreground.Green
	dst[6] = c.Foreground.Blue
	dst[7] = c.Background.Red
	dst[8] = c.Background.Green
	dst[9] = c.Background.Blue
	dst[10] = c.Alpha
	var flags uint8
	if c.Blink {
		flags |= charFlagBlink
	}
	if c.Underline {
		flags |= charFlagUnderline
	}
	dst[11] = flags
}

func decodeCharacter(src []byte) Character {
	c := Character{
		Codepoint:  rune(binary.LittleEndian.Uint32(src)),
		Foreground: RGB{src[4], src[5], src[6]},
		Background: RGB{src[7], src[8], src[9]},
		Alpha:      src[10],
	}
	c.Blink = src[11]&charFlagBlink != 0
	c.Underline = src[11]&charFlagUnderline != 0
	return c
}

// BlankCharacter is the initial value of every cell: a space on default
// colors, fully opaque.
func BlankCharacter(foreground, background RGB) Character {
	return Character{
		Codepoint:  ' ',
		Foreground: foreground,
		Background: background,
		Alpha:      0xff,
	}
}
