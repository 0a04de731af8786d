package shell

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"

	"pkt.systems/rhinoterm/internal/anim"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

const (
	overlayFooter    = "press esc or q to exit"
	overlayMinWidth  = 24
	overlayMinHeight = 6
)

// overlay is the sub-terminal opened by run. It draws on the alternate
// screen and owns its own scheduler.
type overlay struct {
	session  *Session
	name     string
	out      io.Writer
	sched    *anim.Scheduler
	text     strings.Builder
	renderer *lipgloss.Renderer
	closed   bool
}

func newOverlay(s *Session, name string) *overlay {
	renderer := lipgloss.NewRenderer(s.out)
	renderer.SetColorProfile(termenv.TrueColor)
	renderer.SetHasDarkBackground(true)
	return &overlay{
		session:  s,
		name:     name,
		out:      s.out,
		sched:    anim.NewScheduler(),
		renderer: renderer,
	}
}

func (o *overlay) open(file content.File) {
	_, _ = io.WriteString(o.out, "\x1b[?1049h\x1b[H\x1b[2J")
	o.render()
	texts := file.Lines()
	lines := make([]anim.Line, 0, len(texts))
	for _, text := range texts {
		lines = append(lines, anim.Line{Text: text})
	}
	s := o.session
	var a anim.Animation
	finish := func() {}
	if file.Effect == schema.EffectPackageInstall {
		a = anim.NewInstall(s.clock, o.write, lines)
		finish = s.audio.Play
	} else {
		a = anim.NewTypewriter(s.clock, o.write, lines, anim.TypewriterOptions{
			CharDelay: s.cfg.OverlayCharDelay,
			LineDelay: s.cfg.OverlayCharDelay,
		})
	}
	if err := o.sched.Start(a, finish); err != nil {
		s.log().Warn("shell overlay animation rejected", "err", err)
	}
}

func (o *overlay) close() {
	if o.closed {
		return
	}
	o.sched.Interrupt()
	o.closed = true
	_, _ = io.WriteString(o.out, "\x1b[?1049l\x1b[?25h")
}

// write receives animation output and redraws, keeping the newest text in view.
func (o *overlay) write(chunk string) {
	if o.closed {
		return
	}
	o.text.WriteString(strings.ReplaceAll(chunk, "\r\n", "\n"))
	o.render()
}

func (o *overlay) render() {
	if o.closed {
		return
	}
	frame, row, col := o.frame(o.session.size)
	var b strings.Builder
	b.WriteString("\x1b[?25l\x1b[H\x1b[2J")
	b.WriteString(strings.ReplaceAll(frame, "\n", "\r\n"))
	fmt.Fprintf(&b, "\x1b[%d;%dH\x1b[?25h", row, col)
	_, _ = io.WriteString(o.out, b.String())
}

// frame renders the bordered view and the 1-based cursor position after
// the last typed character.
func (o *overlay) frame(size Size) (string, int, int) {
	width := max(size.Width, overlayMinWidth)
	height := max(size.Height, overlayMinHeight)
	inner := width - 4
	bodyRows := height - 4

	body := wrapText(o.text.String(), inner)
	if len(body) > bodyRows {
		body = body[len(body)-bodyRows:]
	}
	typed := len(body)
	lastWidth := 0
	if typed > 0 {
		lastWidth = runewidth.StringWidth(body[typed-1])
	}
	for len(body) < bodyRows {
		body = append(body, "")
	}

	titleStyle := o.renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrompt.hex()))
	bodyStyle := o.renderer.NewStyle().Foreground(lipgloss.Color(colorOutput.hex()))
	footerStyle := o.renderer.NewStyle().Faint(true)
	content := lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(runewidth.Truncate(o.name, inner, "…")),
		bodyStyle.Render(strings.Join(body, "\n")),
		footerStyle.Render(runewidth.Truncate(overlayFooter, inner, "…")),
	)
	box := o.renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorPrompt.hex())).
		Width(width-2).
		Height(height-2).
		Padding(0, 1).
		Render(content)

	row := 3
	if typed > 0 {
		row = 2 + typed
	}
	col := min(3+lastWidth, width-1)
	return box, row, col
}

func (o *overlay) handleKey(k key) bool {
	switch k.kind {
	case keyEscape, keyCtrlC:
		return true
	case keyRune:
		return k.r == 'q' || k.r == 'Q'
	}
	return false
}

// wrapText splits text into rows of at most width cells. A trailing
// newline yields an empty last row.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			rows = append(rows, "")
			continue
		}
		var cur strings.Builder
		cells := 0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if cells+w > width && cells > 0 {
				rows = append(rows, cur.String())
				cur.Reset()
				cells = 0
			}
			cur.WriteRune(r)
			cells += w
		}
		rows = append(rows, cur.String())
	}
	return rows
}
