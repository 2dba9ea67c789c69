// Package mirror orchestrates the screen projection: it intercepts the
// emulator's screen-mutating operations, writes canonical cells into the
// shared segment, and pulses the message queue so watchers re-read it.
package mirror

import (
	"fmt"
	"log/slog"

	"github.com/mattn/go-runewidth"

	"github.com/gridcast/gridcast/internal/ipckey"
	"github.com/gridcast/gridcast/internal/msgqueue"
	"github.com/gridcast/gridcast/internal/pipe"
	"github.com/gridcast/gridcast/internal/runloop"
	"github.com/gridcast/gridcast/internal/segment"
)

// Overridable for tests.
var (
	createSegment = segment.Create
	createQueue   = msgqueue.CreateQueue
	createChannel = pipe.Create
)

const inputMessageMax = 512

// Options configures one mirrored terminal.
type Options struct {
	// TerminalPath is the terminal's filesystem path; the segment and queue
	// keys derive from it.
	TerminalPath string

	// ExternalControl creates the paired message queue so unrelated
	// processes can watch updates and inject input. Without it the mirror
	// only maintains the segment.
	ExternalControl bool

	// RowArray enables the per-row indirection table. The mirror always
	// asks for it; the option exists for readers that want the flat layout.
	RowArray bool

	// PipeName, when set, creates a named input pipe under the rendezvous
	// directory.
	PipeName string

	// Loop serializes all mirror work. Required.
	Loop *runloop.Loop

	// Mute is called when pipe input carries the "mute speech" option.
	Mute func()
}

// Mirror owns one screen segment, optionally one message queue, and
// optionally one named input pipe. All methods must run on the loop
// goroutine; the mirror itself never spawns work elsewhere.
type Mirror struct {
	driver  Driver
	loop    *runloop.Loop
	key     ipckey.Key
	seg     *segment.Segment
	queue   *msgqueue.Queue
	recv    *msgqueue.Receiver
	channel *pipe.Channel
	mute    func()

	defaultFg, defaultBg colorIndex
	pairs                [pairCount]colorPair

	// Scroll region rows, inclusive.
	regionTop, regionBottom int
}

// Start derives the IPC key, creates and populates the segment, and wires
// the optional queue and pipe. Failure to create the segment or queue aborts
// startup; everything already created is torn down again.
func Start(driver Driver, opts Options) (*Mirror, error) {
	if driver == nil {
		return nil, fmt.Errorf("mirror: driver is nil")
	}
	if opts.Loop == nil {
		return nil, fmt.Errorf("mirror: run loop is required")
	}
	key, err := ipckey.FromPath(opts.TerminalPath)
	if err != nil {
		return nil, err
	}
	columns, rows := driver.Size()
	seg, err := createSegment(key, columns, rows, opts.RowArray)
	if err != nil {
		return nil, fmt.Errorf("mirror: create segment: %w", err)
	}
	m := &Mirror{
		driver:    driver,
		loop:      opts.Loop,
		key:       key,
		seg:       seg,
		mute:      opts.Mute,
		defaultFg: colorWhite,
		defaultBg: colorBlack,
	}
	m.regionTop = 0
	m.regionBottom = rows - 1
	m.initColorPairs()
	m.populate()

	if opts.ExternalControl {
		queue, err := createQueue(key)
		if err != nil {
			_ = seg.Destroy()
			return nil, fmt.Errorf("mirror: create queue: %w", err)
		}
		recv, err := msgqueue.StartReceiver(queue, msgqueue.TypeInputText, inputMessageMax, opts.Loop, m.handleInputText)
		if err != nil {
			_ = queue.Destroy()
			_ = seg.Destroy()
			return nil, fmt.Errorf("mirror: start receiver: %w", err)
		}
		m.queue = queue
		m.recv = recv
	}

	if opts.PipeName != "" {
		channel, err := createChannel(opts.PipeName, opts.Loop, m.pipeInput)
		if err != nil {
			m.teardownIPC()
			_ = seg.Destroy()
			return nil, fmt.Errorf("mirror: create pipe: %w", err)
		}
		m.channel = channel
	}
	return m, nil
}

// Segment exposes the mirror's segment for in-process readers.
func (m *Mirror) Segment() *segment.Segment {
	if m == nil {
		return nil
	}
	return m.seg
}

// populate writes the driver's current screen contents into the segment.
func (m *Mirror) populate() {
	columns, rows := m.driver.Size()
	saveRow, saveCol := m.driver.CursorPosition()
	for row := 0; row < rows; row++ {
		for col := 0; col < columns; col++ {
			m.driver.MoveCursor(row, col)
			m.seg.SetCharacter(row, col, m.convertCell(m.driver.ReadCell()))
		}
	}
	m.driver.MoveCursor(saveRow, saveCol)
	m.seg.SetCursor(saveRow, saveCol)
}

// readCellAt performs the deferred-cursor read: the rendering layer only
// reports the cell under its cursor, so the cursor visits the target and
// comes straight back before anything is written to the segment.
func (m *Mirror) readCellAt(row, column int) Cell {
	saveRow, saveCol := m.driver.CursorPosition()
	moved := saveRow != row || saveCol != column
	if moved {
		m.driver.MoveCursor(row, column)
	}
	cell := m.driver.ReadCell()
	if moved {
		m.driver.MoveCursor(saveRow, saveCol)
	}
	return cell
}

func (m *Mirror) pulse() {
	if m.queue == nil {
		return
	}
	// No payload: watchers re-read the segment directly. A failed send
	// usually means nobody is listening, which is fine.
	_ = m.queue.Send(msgqueue.TypeSegmentUpdated, nil)
}

// SetCursorPosition moves the rendering cursor and mirrors it.
func (m *Mirror) SetCursorPosition(row, column int) {
	m.driver.MoveCursor(row, column)
	m.seg.SetCursor(m.driver.CursorPosition())
	m.pulse()
}

// SetScrollRegion bounds subsequent scroll and line operations to rows
// [top, bottom], inclusive.
func (m *Mirror) SetScrollRegion(top, bottom int) {
	_, rows := m.driver.Size()
	if top < 0 {
		top = 0
	}
	if bottom >= rows {
		bottom = rows - 1
	}
	if top > bottom {
		return
	}
	m.regionTop, m.regionBottom = top, bottom
}

// AddCharacter renders one input glyph and mirrors its canonical cell. Wide
// glyphs occupy a continuation cell holding codepoint zero.
func (m *Mirror) AddCharacter(r rune) {
	row, col := m.driver.CursorPosition()
	m.driver.PutCharacter(r)
	cell := m.readCellAt(row, col)
	canonical := m.convertCell(cell)
	m.seg.SetCharacter(row, col, canonical)
	if runewidth.RuneWidth(r) == 2 && col+1 < m.seg.Columns() {
		continuation := canonical
		continuation.Codepoint = 0
		m.seg.SetCharacter(row, col+1, continuation)
	}
	m.seg.SetCursor(m.driver.CursorPosition())
	m.pulse()
}

// InsertLines opens count blank lines at the cursor row, pushing the rows
// below down within the scroll region.
func (m *Mirror) InsertLines(count int) {
	row, _ := m.driver.CursorPosition()
	count = m.clampLineCount(row, count)
	if count == 0 {
		return
	}
	size := m.regionBottom - row + 1
	if err := m.seg.ScrollRows(row, size, count, true); err != nil {
		slog.Error("insert lines scroll failed", "row", row, "count", count, "err", err)
		return
	}
	m.driver.InsertLines(count)
	m.seg.FillRows(row, count, m.blankCharacter())
	m.pulse()
}

// DeleteLines removes count lines at the cursor row, pulling the rows below
// up within the scroll region.
func (m *Mirror) DeleteLines(count int) {
	row, _ := m.driver.CursorPosition()
	count = m.clampLineCount(row, count)
	if count == 0 {
		return
	}
	size := m.regionBottom - row + 1
	if err := m.seg.ScrollRows(row, size, count, false); err != nil {
		slog.Error("delete lines scroll failed", "row", row, "count", count, "err", err)
		return
	}
	m.driver.DeleteLines(count)
	m.seg.FillRows(m.regionBottom-count+1, count, m.blankCharacter())
	m.pulse()
}

func (m *Mirror) clampLineCount(row, count int) int {
	if row < m.regionTop || row > m.regionBottom {
		return 0
	}
	if limit := m.regionBottom - row + 1; count > limit {
		count = limit
	}
	if count < 0 {
		count = 0
	}
	return count
}

// ScrollUp scrolls the region up by count rows.
func (m *Mirror) ScrollUp(count int) {
	m.scrollRegion(count, false)
}

// ScrollDown scrolls the region down by count rows.
func (m *Mirror) ScrollDown(count int) {
	m.scrollRegion(count, true)
}

func (m *Mirror) scrollRegion(count int, down bool) {
	size := m.regionBottom - m.regionTop + 1
	if count > size {
		count = size
	}
	if count <= 0 {
		return
	}
	if err := m.seg.ScrollRows(m.regionTop, size, count, down); err != nil {
		slog.Error("region scroll failed", "count", count, "down", down, "err", err)
		return
	}
	if down {
		m.driver.ScrollDown(count)
		m.seg.FillRows(m.regionTop, count, m.blankCharacter())
	} else {
		m.driver.ScrollUp(count)
		m.seg.FillRows(m.regionBottom-count+1, count, m.blankCharacter())
	}
	m.pulse()
}

// InsertCharacters opens count blank cells at the cursor, shifting the rest
// of the row right; cells pushed past the row end are lost.
func (m *Mirror) InsertCharacters(count int) {
	row, col := m.driver.CursorPosition()
	columns := m.seg.Columns()
	if count > columns-col {
		count = columns - col
	}
	if count <= 0 {
		return
	}
	from, _ := m.seg.CharacterAddress(row, col)
	to, _ := m.seg.CharacterAddress(row, col+count)
	m.seg.MoveCharacters(to, from, columns-col-count)
	m.driver.InsertCharacters(count)
	m.seg.SetCharacter(row, col, m.blankCharacter())
	m.seg.PropagateCharacter(from, to)
	m.pulse()
}

// DeleteCharacters removes count cells at the cursor, pulling the rest of
// the row left and blank-filling the tail.
func (m *Mirror) DeleteCharacters(count int) {
	row, col := m.driver.CursorPosition()
	columns := m.seg.Columns()
	if count > columns-col {
		count = columns - col
	}
	if count <= 0 {
		return
	}
	to, rowEnd := m.seg.CharacterAddress(row, col)
	from, _ := m.seg.CharacterAddress(row, col+count)
	m.seg.MoveCharacters(to, from, columns-col-count)
	m.driver.DeleteCharacters(count)
	vacated := rowEnd - count*segment.CharacterSize
	m.seg.SetCharacter(row, columns-count, m.blankCharacter())
	m.seg.PropagateCharacter(vacated, rowEnd)
	m.pulse()
}

// ClearToEndOfLine blanks the cursor's row from the cursor to the row end.
func (m *Mirror) ClearToEndOfLine() {
	row, col := m.driver.CursorPosition()
	from, rowEnd := m.seg.CharacterAddress(row, col)
	m.driver.ClearToEndOfLine()
	m.seg.SetCharacter(row, col, m.blankCharacter())
	m.seg.PropagateCharacter(from, rowEnd)
	m.pulse()
}

func (m *Mirror) blankCharacter() segment.Character {
	return segment.BlankCharacter(
		colorRGB(m.defaultFg, levelNormal),
		colorRGB(m.defaultBg, levelNormal),
	)
}

func (m *Mirror) teardownIPC() {
	if m.recv != nil {
		// Removing the queue wakes the blocked receive; only then is the
		// join guaranteed to finish.
		_ = m.queue.Destroy()
		m.recv.Join()
		m.recv = nil
		m.queue = nil
	} else if m.queue != nil {
		_ = m.queue.Destroy()
		m.queue = nil
	}
}

// Stop ends rendering, announces the exit, and destroys the pipe, queue,
// and segment together.
func (m *Mirror) Stop() {
	if m == nil {
		return
	}
	m.driver.End()
	if m.queue != nil {
		// Best effort; there may be nobody listening.
		_ = m.queue.Send(msgqueue.TypeEmulatorExiting, nil)
	}
	if m.channel != nil {
		_ = m.channel.Destroy()
		m.channel = nil
	}
	m.teardownIPC()
	if m.seg != nil {
		if err := m.seg.Destroy(); err != nil {
			slog.Error("destroy segment failed", "key", m.key, "err", err)
		}
		m.seg = nil
	}
}
