package mirror

import (
	"unicode/utf8"

	"github.com/gridcast/gridcast/internal/msgqueue"
)

// pipeOptionEscape introduces a single-character option in pipe input.
const pipeOptionEscape = 0x1b

// handleInputText decodes a UTF-8 payload into individual typed characters.
// Runs on the loop goroutine via the queue receiver.
func (m *Mirror) handleInputText(payload []byte) {
	for len(payload) > 0 {
		r, size := utf8.DecodeRune(payload)
		payload = payload[size:]
		if r == utf8.RuneError && size == 1 {
			continue
		}
		m.driver.TypeCharacter(r)
	}
}

// pipeInput consumes bytes from the named pipe: escape-introduced options
// first, then the rest is redirected as an input-text message through the
// mirror's own input path. A dangling escape with nothing following is
// dropped, not reported.
func (m *Mirror) pipeInput(data []byte) int {
	rest := data
	for len(rest) > 0 && rest[0] == pipeOptionEscape {
		if len(rest) == 1 {
			return len(data)
		}
		if rest[1] == '!' && m.mute != nil {
			m.mute()
		}
		rest = rest[2:]
	}
	if len(rest) == 0 {
		return len(data)
	}
	if m.queue != nil {
		_ = m.queue.Send(msgqueue.TypeInputText, rest)
	} else {
		m.handleInputText(rest)
	}
	return len(data)
}
