package mirror

// fakeGrid is the in-package stand-in for a rendering layer. It mirrors the
// behavior of mirrortest.Grid, which cannot be imported here without a cycle.
type fakeGrid struct {
	columns int
	rows    int
	curRow  int
	curCol  int
	cells   [][]Cell

	typed []rune
	ended bool
}

func newFakeGrid(columns, rows int) *fakeGrid {
	g := &fakeGrid{columns: columns, rows: rows}
	g.cells = make([][]Cell, rows)
	for row := range g.cells {
		g.cells[row] = blankCells(columns)
	}
	return g
}

func blankCells(columns int) []Cell {
	line := make([]Cell, columns)
	for col := range line {
		line[col] = Cell{Rune: ' '}
	}
	return line
}

func (g *fakeGrid) Size() (int, int)           { return g.columns, g.rows }
func (g *fakeGrid) CursorPosition() (int, int) { return g.curRow, g.curCol }

func (g *fakeGrid) MoveCursor(row, column int) {
	if row < 0 {
		row = 0
	}
	if row >= g.rows {
		row = g.rows - 1
	}
	if column < 0 {
		column = 0
	}
	if column >= g.columns {
		column = g.columns - 1
	}
	g.curRow, g.curCol = row, column
}

func (g *fakeGrid) ReadCell() Cell { return g.cells[g.curRow][g.curCol] }

func (g *fakeGrid) PutCharacter(r rune) {
	g.cells[g.curRow][g.curCol].Rune = r
	if g.curCol+1 < g.columns {
		g.curCol++
	}
}

func (g *fakeGrid) InsertLines(count int) {
	for i := 0; i < count; i++ {
		copy(g.cells[g.curRow+1:], g.cells[g.curRow:g.rows-1])
		g.cells[g.curRow] = blankCells(g.columns)
	}
}

func (g *fakeGrid) DeleteLines(count int) {
	for i := 0; i < count; i++ {
		copy(g.cells[g.curRow:], g.cells[g.curRow+1:])
		g.cells[g.rows-1] = blankCells(g.columns)
	}
}

func (g *fakeGrid) InsertCharacters(count int) {
	line := g.cells[g.curRow]
	for i := 0; i < count; i++ {
		copy(line[g.curCol+1:], line[g.curCol:g.columns-1])
		line[g.curCol] = Cell{Rune: ' '}
	}
}

func (g *fakeGrid) DeleteCharacters(count int) {
	line := g.cells[g.curRow]
	for i := 0; i < count; i++ {
		copy(line[g.curCol:], line[g.curCol+1:])
		line[g.columns-1] = Cell{Rune: ' '}
	}
}

func (g *fakeGrid) ScrollUp(count int) {
	for i := 0; i < count; i++ {
		copy(g.cells, g.cells[1:])
		g.cells[g.rows-1] = blankCells(g.columns)
	}
}

func (g *fakeGrid) ScrollDown(count int) {
	for i := 0; i < count; i++ {
		copy(g.cells[1:], g.cells[:g.rows-1])
		g.cells[0] = blankCells(g.columns)
	}
}

func (g *fakeGrid) ClearToEndOfLine() {
	line := g.cells[g.curRow]
	for col := g.curCol; col < g.columns; col++ {
		line[col] = Cell{Rune: ' '}
	}
}

func (g *fakeGrid) TypeCharacter(r rune) { g.typed = append(g.typed, r) }
func (g *fakeGrid) End()                 { g.ended = true }
func (g *fakeGrid) Typed() string        { return string(g.typed) }
func (g *fakeGrid) Ended() bool          { return g.ended }
