package segment

import (
	"encoding/binary"
	"fmt"

	"github.com/gridcast/gridcast/internal/ipckey"
)

// Segment is an attached screen segment. The zero value is not usable; use
// Create, Attach, or New.
type Segment struct {
	key ipckey.Key
	id  int // shm identifier, or -1 for a heap-backed segment
	buf []byte
}

// New returns a heap-backed segment, laid out and initialized exactly like a
// shared one. Used by tests and by readers that want a private snapshot.
func New(columns, rows int, withRowArray bool) (*Segment, error) {
	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("segment: invalid dimensions %dx%d", columns, rows)
	}
	l := ComputeLayout(columns, rows, withRowArray)
	s := &Segment{id: -1, buf: make([]byte, l.SegmentSize)}
	s.initialize(l)
	return s, nil
}

func (s *Segment) initialize(l Layout) {
	put := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(s.buf[off:], v)
	}
	put(offSegmentSize, uint32(l.SegmentSize))
	put(offHeaderSize, HeaderSize)
	put(offScreenWidth, uint32(l.Columns))
	put(offScreenHeight, uint32(l.Rows))
	put(offScreenNumber, 1)
	put(offRowsOffset, uint32(l.RowsOffset))
	put(offRowSize, RowSize)
	put(offCharactersOffset, uint32(l.CharactersOffset))
	put(offCharacterSize, CharacterSize)

	if l.RowsOffset != 0 {
		// Identity mapping: row i starts at character i*columns.
		for row := 0; row < l.Rows; row++ {
			off := l.CharactersOffset + row*l.Columns*CharacterSize
			put(l.RowsOffset+row*RowSize, uint32(off))
		}
	}

	blank := BlankCharacter(RGB{}, RGB{})
	first := l.CharactersOffset
	encodeCharacter(s.buf[first:], blank)
	s.PropagateCharacter(first, l.SegmentSize)
}

func (s *Segment) field(off int) uint32 {
	return binary.LittleEndian.Uint32(s.buf[off:])
}

func (s *Segment) setField(off int, v uint32) {
	binary.LittleEndian.PutUint32(s.buf[off:], v)
}

// Key returns the IPC key the segment was created or attached under, zero
// for heap-backed segments.
func (s *Segment) Key() ipckey.Key { return s.key }

func (s *Segment) SegmentSize() int { return int(s.field(offSegmentSize)) }
func (s *Segment) HeaderSize() int  { return int(s.field(offHeaderSize)) }
func (s *Segment) Columns() int     { return int(s.field(offScreenWidth)) }
func (s *Segment) Rows() int        { return int(s.field(offScreenHeight)) }

func (s *Segment) Cursor() (row, column int) {
	return int(s.field(offCursorRow)), int(s.field(offCursorColumn))
}

func (s *Segment) SetCursor(row, column int) {
	s.setField(offCursorRow, uint32(row))
	s.setField(offCursorColumn, uint32(column))
}

func (s *Segment) ScreenNumber() int     { return int(s.field(offScreenNumber)) }
func (s *Segment) SetScreenNumber(n int) { s.setField(offScreenNumber, uint32(n)) }

func (s *Segment) CommonFlags() uint32     { return s.field(offCommonFlags) }
func (s *Segment) SetCommonFlags(v uint32) { s.setField(offCommonFlags, v) }

func (s *Segment) PrivateFlags() uint32     { return s.field(offPrivateFlags) }
func (s *Segment) SetPrivateFlags(v uint32) { s.setField(offPrivateFlags, v) }

// HasRowArray reports whether the per-row indirection table is present.
func (s *Segment) HasRowArray() bool { return s.field(offRowsOffset) != 0 }

func (s *Segment) rowTableEntry(row int) int {
	off := int(s.field(offRowsOffset)) + row*RowSize
	return int(binary.LittleEndian.Uint32(s.buf[off:]))
}

func (s *Segment) setRowTableEntry(row, characterOffset int) {
	off := int(s.field(offRowsOffset)) + row*RowSize
	binary.LittleEndian.PutUint32(s.buf[off:], uint32(characterOffset))
}

// RowAddress returns the byte offsets of the first cell of a logical row and
// of the end of that row's run, resolving the row table when present.
func (s *Segment) RowAddress(row int) (start, end int) {
	if s.HasRowArray() {
		start = s.rowTableEntry(row)
	} else {
		start = int(s.field(offCharactersOffset)) + row*s.Columns()*CharacterSize
	}
	return start, start + s.Columns()*CharacterSize
}

// CharacterAddress returns the byte offset of one cell and the end of its
// row's run, for bulk operations bounded by the row.
func (s *Segment) CharacterAddress(row, column int) (off, rowEnd int) {
	start, end := s.RowAddress(row)
	return start + column*CharacterSize, end
}

// Character returns the decoded cell at a grid position.
func (s *Segment) Character(row, column int) Character {
	off, _ := s.CharacterAddress(row, column)
	return decodeCharacter(s.buf[off:])
}

// SetCharacter writes one cell at a grid position.
func (s *Segment) SetCharacter(row, column int, c Character) {
	off, _ := s.CharacterAddress(row, column)
	encodeCharacter(s.buf[off:], c)
}

// MoveCharacters shifts count cells from byte offset from to byte offset to.
// Overlapping ranges are handled.
func (s *Segment) MoveCharacters(to, from, count int) {
	n := count * CharacterSize
	copy(s.buf[to:to+n], s.buf[from:from+n])
}

// FillCharacters writes value into every cell in the byte range [from, end).
func (s *Segment) FillCharacters(from, end int, value Character) {
	for off := from; off < end; off += CharacterSize {
		encodeCharacter(s.buf[off:], value)
	}
}

// PropagateCharacter replicates the already-written cell at byte offset from
// across every following cell up to end. Used to extend an attribute after a
// single-cell write without re-deriving the cell.
func (s *Segment) PropagateCharacter(from, end int) {
	src := s.buf[from : from+CharacterSize]
	for off := from + CharacterSize; off < end; off += CharacterSize {
		copy(s.buf[off:off+CharacterSize], src)
	}
}

// Snapshot returns a copy of the raw segment image. The copy is best-effort:
// a concurrent writer may tear it, per the segment's consistency model.
func (s *Segment) Snapshot() []byte {
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out
}
