package segment

import "fmt"

// ScrollRows relocates a count-row band within the size-row window starting
// at top, scrolling up (toward top) or down. With the row table present this
// is an in-place rotation of the window's row table entries, decomposed into
// gcd(delta, size) disjoint cycles so only row offsets move. Without the row
// table the character payloads are moved directly. The caller blank-fills
// the vacated rows afterward.
func (s *Segment) ScrollRows(top, size, count int, down bool) error {
	if top < 0 || size < 0 || count < 0 || count > size || top+size > s.Rows() {
		return fmt.Errorf("segment: invalid scroll window top=%d size=%d count=%d", top, size, count)
	}
	if count == 0 || count == size {
		return nil
	}
	if !s.HasRowArray() {
		s.scrollPayload(top, size, count, down)
		return nil
	}
	delta := count
	if down {
		delta = size - count
	}
	for cycle := 0; cycle < gcd(delta, size); cycle++ {
		held := s.rowTableEntry(top + cycle)
		to := cycle
		for {
			from := (to + delta) % size
			if from == cycle {
				s.setRowTableEntry(top+to, held)
				break
			}
			s.setRowTableEntry(top+to, s.rowTableEntry(top+from))
			to = from
		}
	}
	return nil
}

func (s *Segment) scrollPayload(top, size, count int, down bool) {
	keep := size - count
	if down {
		to, _ := s.RowAddress(top + count)
		from, _ := s.RowAddress(top)
		s.MoveCharacters(to, from, keep*s.Columns())
		return
	}
	to, _ := s.RowAddress(top)
	from, _ := s.RowAddress(top + count)
	s.MoveCharacters(to, from, keep*s.Columns())
}

// FillRows blank-fills rows [top, top+count) with value, following the row
// table when present.
func (s *Segment) FillRows(top, count int, value Character) {
	for row := top; row < top+count; row++ {
		start, end := s.RowAddress(row)
		s.FillCharacters(start, end, value)
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
