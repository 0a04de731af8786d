package anim

import (
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const ansiReset = "\x1b[0m"

// WriteFunc receives raw output, control sequences included.
type WriteFunc func(string)

// Line is one line of output with an optional ANSI style prefix.
type Line struct {
	Text  string
	Style string
	Links []Link
}

// Link is a rune range [Start, End) of a line that becomes a hyperlink once typed.
type Link struct {
	Start int
	End   int
	URL   string
}

// TypewriterOptions tunes a Typewriter.
type TypewriterOptions struct {
	CharDelay time.Duration
	LineDelay time.Duration
	// LinkStyle prefixes rewritten hyperlinks.
	LinkStyle string
	// Width reports the surface width used to keep hyperlink rewrites on
	// one row. Nil or zero disables the check.
	Width func() int
	// Trailer is written after the last line.
	Trailer string
}

// Typewriter reveals lines one character at a time.
type Typewriter struct {
	clock Clock
	write WriteFunc
	lines []Line
	opts  TypewriterOptions

	line    int
	char    int
	runes   []rune
	cols    []int
	styled  bool
	running bool
	timer   Timer
	finish  func()
}

// NewTypewriter prepares a typewriter run over lines.
func NewTypewriter(clock Clock, write WriteFunc, lines []Line, opts TypewriterOptions) *Typewriter {
	return &Typewriter{clock: clock, write: write, lines: lines, opts: opts}
}

func (t *Typewriter) Mode() Mode { return ModeTypewriter }

func (t *Typewriter) Start(finish func()) {
	t.finish = finish
	t.running = true
	t.line = 0
	t.load()
	t.step()
}

func (t *Typewriter) Stop() {
	if !t.running {
		return
	}
	t.running = false
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.styled {
		t.styled = false
		t.write(ansiReset)
	}
}

func (t *Typewriter) load() {
	t.char = 0
	t.runes = nil
	t.cols = nil
	if t.line >= len(t.lines) {
		return
	}
	t.runes = []rune(t.lines[t.line].Text)
	t.cols = make([]int, len(t.runes)+1)
	for i, r := range t.runes {
		t.cols[i+1] = t.cols[i] + runewidth.RuneWidth(r)
	}
}

func (t *Typewriter) step() {
	t.timer = nil
	if !t.running {
		return
	}
	if t.line >= len(t.lines) {
		t.running = false
		if t.opts.Trailer != "" {
			t.write(t.opts.Trailer)
		}
		if t.finish != nil {
			t.finish()
		}
		return
	}
	ln := t.lines[t.line]
	if t.char < len(t.runes) {
		var b strings.Builder
		if t.char == 0 && ln.Style != "" {
			b.WriteString(ln.Style)
			t.styled = true
		}
		b.WriteRune(t.runes[t.char])
		t.char++
		t.rewriteLinks(&b, ln)
		t.write(b.String())
		t.timer = t.clock.AfterFunc(t.opts.CharDelay, t.step)
		return
	}
	if t.styled {
		t.styled = false
		t.write(ansiReset + "\r\n")
	} else {
		t.write("\r\n")
	}
	t.line++
	t.load()
	t.timer = t.clock.AfterFunc(t.opts.LineDelay, t.step)
}

// rewriteLinks replaces a span that just finished typing with an OSC 8
// hyperlink by moving the cursor back over it.
func (t *Typewriter) rewriteLinks(b *strings.Builder, ln Line) {
	for _, link := range ln.Links {
		if link.End != t.char || link.Start < 0 || link.Start >= link.End || link.End > len(t.runes) {
			continue
		}
		if !t.fitsRow(link) {
			continue
		}
		b.WriteString("\x1b[")
		b.WriteString(strconv.Itoa(t.cols[link.End] - t.cols[link.Start]))
		b.WriteString("D")
		b.WriteString(t.opts.LinkStyle)
		b.WriteString(Hyperlink(link.URL, string(t.runes[link.Start:link.End])))
		b.WriteString(ansiReset)
		b.WriteString(ln.Style)
	}
}

func (t *Typewriter) fitsRow(link Link) bool {
	start, end := t.cols[link.Start], t.cols[link.End]
	if end <= start {
		return false
	}
	if t.opts.Width == nil {
		return true
	}
	width := t.opts.Width()
	if width <= 0 {
		return true
	}
	return start/width == end/width
}

// Hyperlink wraps text in an OSC 8 hyperlink to url.
func Hyperlink(url, text string) string {
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}
