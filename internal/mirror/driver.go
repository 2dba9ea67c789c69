package mirror

// Attr is the rendering layer's attribute set for one cell.
type Attr uint8

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrReverse
	AttrStandout
	AttrBlink
	AttrUnderline
)

// Cell is the rendered content the driver reports at its cursor: the glyph,
// its attributes, and the color pair index as the rendering layer numbers it.
type Cell struct {
	Rune rune
	Attr Attr
	Pair int
}

// Driver is the capability surface the mirror consumes from the rendering
// layer. It is not safe for concurrent use; the mirror serializes every call
// through its run loop. Visual operations (insert, delete, scroll, clear)
// only touch the rendering layer; the mirror performs the matching segment
// mutation itself.
type Driver interface {
	Size() (columns, rows int)
	CursorPosition() (row, column int)
	MoveCursor(row, column int)
	ReadCell() Cell
	PutCharacter(r rune)

	InsertLines(count int)
	DeleteLines(count int)
	InsertCharacters(count int)
	DeleteCharacters(count int)
	ScrollUp(count int)
	ScrollDown(count int)
	ClearToEndOfLine()

	// TypeCharacter feeds one rune of external input to the emulator.
	TypeCharacter(r rune)

	// End shuts the rendering layer down.
	End()
}
