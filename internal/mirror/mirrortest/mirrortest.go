// Package mirrortest provides an in-memory rendering driver for exercising
// the mirror without a real emulator.
package mirrortest

import (
	"sync"

	"github.com/gridcast/gridcast/internal/mirror"
)

// Grid implements mirror.Driver over a plain cell array.
type Grid struct {
	mu      sync.Mutex
	columns int
	rows    int
	curRow  int
	curCol  int
	cells   [][]mirror.Cell

	typed []rune
	ended bool
}

// New returns a blank columns x rows grid.
func New(columns, rows int) *Grid {
	g := &Grid{columns: columns, rows: rows}
	g.cells = make([][]mirror.Cell, rows)
	for row := range g.cells {
		line := make([]mirror.Cell, columns)
		for col := range line {
			line[col] = mirror.Cell{Rune: ' '}
		}
		g.cells[row] = line
	}
	return g
}

func (g *Grid) Size() (int, int) {
	return g.columns, g.rows
}

func (g *Grid) CursorPosition() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.curRow, g.curCol
}

func (g *Grid) MoveCursor(row, column int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.curRow = clamp(row, 0, g.rows-1)
	g.curCol = clamp(column, 0, g.columns-1)
}

func (g *Grid) ReadCell() mirror.Cell {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cells[g.curRow][g.curCol]
}

// SetCell paints one cell directly, bypassing the cursor. For test setup.
func (g *Grid) SetCell(row, column int, c mirror.Cell) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[row][column] = c
}

func (g *Grid) PutCharacter(r rune) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cells[g.curRow][g.curCol].Rune = r
	if g.curCol+1 < g.columns {
		g.curCol++
	}
}

func (g *Grid) InsertLines(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < count; i++ {
		copy(g.cells[g.curRow+1:], g.cells[g.curRow:g.rows-1])
		g.cells[g.curRow] = blankLine(g.columns)
	}
}

func (g *Grid) DeleteLines(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < count; i++ {
		copy(g.cells[g.curRow:], g.cells[g.curRow+1:])
		g.cells[g.rows-1] = blankLine(g.columns)
	}
}

func (g *Grid) InsertCharacters(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	line := g.cells[g.curRow]
	for i := 0; i < count; i++ {
		copy(line[g.curCol+1:], line[g.curCol:g.columns-1])
		line[g.curCol] = mirror.Cell{Rune: ' '}
	}
}

func (g *Grid) DeleteCharacters(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	line := g.cells[g.curRow]
	for i := 0; i < count; i++ {
		copy(line[g.curCol:], line[g.curCol+1:])
		line[g.columns-1] = mirror.Cell{Rune: ' '}
	}
}

func (g *Grid) ScrollUp(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < count; i++ {
		copy(g.cells, g.cells[1:])
		g.cells[g.rows-1] = blankLine(g.columns)
	}
}

func (g *Grid) ScrollDown(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := 0; i < count; i++ {
		copy(g.cells[1:], g.cells[:g.rows-1])
		g.cells[0] = blankLine(g.columns)
	}
}

func (g *Grid) ClearToEndOfLine() {
	g.mu.Lock()
	defer g.mu.Unlock()
	line := g.cells[g.curRow]
	for col := g.curCol; col < g.columns; col++ {
		line[col] = mirror.Cell{Rune: ' '}
	}
}

func (g *Grid) TypeCharacter(r rune) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.typed = append(g.typed, r)
}

func (g *Grid) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ended = true
}

// Typed returns everything fed through TypeCharacter so far.
func (g *Grid) Typed() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return string(g.typed)
}

// Ended reports whether End was called.
func (g *Grid) Ended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ended
}

func blankLine(columns int) []mirror.Cell {
	line := make([]mirror.Cell, columns)
	for col := range line {
		line[col] = mirror.Cell{Rune: ' '}
	}
	return line
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
