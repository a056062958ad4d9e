package gateway

import (
	"strings"
	"unicode/utf8"

	"github.com/cortexhub/cortex"
)

// decoder is a push decoder for the frame protocol. Feed accepts byte
// slices at arbitrary boundaries: a multi-byte UTF-8 sequence, a frame
// terminator, or a JSON payload may be split across reads. Decoded
// events come out identical regardless of how the bytes were chunked.
type decoder struct {
	pending []byte // incomplete trailing UTF-8 sequence from the previous feed
	carry   string // text after the last complete frame terminator
}

// Feed appends raw bytes and returns every event completed by them.
func (d *decoder) Feed(p []byte) []cortex.Event {
	data := append(d.pending, p...)
	d.pending = nil

	complete, rest := splitIncompleteRune(data)
	d.pending = rest

	text := d.carry + string(complete)
	frames := strings.Split(text, "\n\n")
	d.carry = frames[len(frames)-1]

	var events []cortex.Event
	for _, frame := range frames[:len(frames)-1] {
		events = append(events, decodeFrame(frame)...)
	}
	return events
}

// Flush decodes whatever remains at end of stream: the trailing text is
// treated as a final frame even without its terminator.
func (d *decoder) Flush() []cortex.Event {
	text := d.carry + string(d.pending)
	d.carry = ""
	d.pending = nil
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return decodeFrame(text)
}

// decodeFrame extracts events from the data lines of one frame. Lines
// without the data prefix and payloads that fail to parse are skipped.
func decodeFrame(frame string) []cortex.Event {
	var events []cortex.Event
	for _, line := range strings.Split(frame, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if ev, ok := decodeEvent([]byte(payload)); ok {
			events = append(events, ev)
		}
	}
	return events
}

// splitIncompleteRune splits b so that complete ends on a rune boundary
// and rest holds the bytes of a trailing incomplete UTF-8 sequence, if
// any. Invalid sequences pass through unchanged.
func splitIncompleteRune(b []byte) (complete, rest []byte) {
	if len(b) == 0 {
		return b, nil
	}
	i := len(b) - 1
	lowest := len(b) - utf8.UTFMax
	if lowest < 0 {
		lowest = 0
	}
	for ; i >= lowest; i-- {
		if utf8.RuneStart(b[i]) {
			break
		}
	}
	if i < lowest || utf8.FullRune(b[i:]) {
		return b, nil
	}
	return b[:i], b[i:]
}
