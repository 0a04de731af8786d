package shell

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// inputLine is the line being composed at the prompt.
type inputLine struct {
	buf []rune
}

func (l *inputLine) String() string {
	return string(l.buf)
}

func (l *inputLine) Len() int {
	return len(l.buf)
}

// Width returns the display width in cells.
func (l *inputLine) Width() int {
	return runewidth.StringWidth(string(l.buf))
}

func (l *inputLine) Clear() {
	l.buf = nil
}

func (l *inputLine) Set(value string) {
	if value == "" {
		l.Clear()
		return
	}
	l.buf = []rune(value)
}

func (l *inputLine) Append(r rune) {
	l.buf = append(l.buf, r)
}

// Backspace drops the last rune and returns it.
func (l *inputLine) Backspace() (rune, bool) {
	if len(l.buf) == 0 {
		return 0, false
	}
	r := l.buf[len(l.buf)-1]
	l.buf = l.buf[:len(l.buf)-1]
	return r, true
}

// eraseCells moves back over n cells, blanking each.
func eraseCells(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("\b \b", n)
}

// history is the append-only list of submitted lines. cursor == len(entries)
// means no entry is recalled.
type history struct {
	entries []string
	cursor  int
}

func (h *history) Add(line string) {
	h.entries = append(h.entries, line)
	h.cursor = len(h.entries)
}

func (h *history) Reset() {
	h.cursor = len(h.entries)
}

// Up moves to the previous entry, clamping at the oldest.
func (h *history) Up() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Down moves to the next entry; moving past the newest yields an empty line.
func (h *history) Down() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", true
	}
	return h.entries[h.cursor], true
}
