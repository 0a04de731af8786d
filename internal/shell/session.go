// Package shell runs one interactive terminal session: it decodes keys,
// keeps the input line and history, and drives the animations that render
// command results onto a Surface.
package shell

import (
	"context"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/mattn/go-runewidth"

	"pkt.systems/pslog"
	"pkt.systems/rhinoterm/internal/anim"
	"pkt.systems/rhinoterm/internal/command"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/internal/logx"
	"pkt.systems/rhinoterm/schema"
)

// Size is a surface size in cells.
type Size struct {
	Width  int
	Height int
}

// Options configures a Session.
type Options struct {
	ID      schema.SessionID
	Surface schema.SurfaceKind
	Remote  string
	Audio   AudioPlayer
	Config  Config
	Size    Size
	// Clock replaces the loop clock. Run delivers no timer callbacks when
	// it is set; the caller drives the clock.
	Clock anim.Clock
}

// Session is one visitor's terminal. All methods run on the goroutine
// that calls Run.
type Session struct {
	id     schema.SessionID
	kind   schema.SurfaceKind
	remote string
	out    Surface
	audio  AudioPlayer
	cfg    Config
	clock  anim.Clock
	ctx    context.Context

	interp  *command.Interpreter
	sched   *anim.Scheduler
	line    inputLine
	history history
	pending *command.Pending
	overlay *overlay
	size    Size
	ended   bool
}

// NewSession builds a session over a catalog snapshot.
func NewSession(cat *content.Catalog, out Surface, opts Options) *Session {
	cfg := opts.Config.withDefaults()
	id := opts.ID
	if id == "" {
		id = schema.NewSessionID()
	}
	audio := opts.Audio
	if audio == nil {
		audio = Bell{W: out}
	}
	s := &Session{
		id:     id,
		kind:   opts.Surface,
		remote: opts.Remote,
		out:    out,
		audio:  audio,
		cfg:    cfg,
		clock:  opts.Clock,
		ctx:    context.Background(),
		interp: command.New(cat, command.Config{DisableAuditLogging: cfg.DisableAuditLogging}),
		sched:  anim.NewScheduler(),
	}
	s.SetSize(opts.Size)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() schema.SessionID { return s.id }

// Ended reports whether the visitor left.
func (s *Session) Ended() bool { return s.ended }

// SetSize records the surface size, falling back to 80x24.
func (s *Session) SetSize(size Size) {
	if size.Width <= 0 {
		size.Width = 80
	}
	if size.Height <= 0 {
		size.Height = 24
	}
	s.size = size
}

func (s *Session) log() pslog.Logger {
	return pslog.Ctx(s.ctx)
}

// Run draws the banner and serves keys from input until the visitor
// leaves, input ends, or ctx is done.
func (s *Session) Run(ctx context.Context, input io.Reader, resize <-chan Size) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logx.WithRemote(logx.WithSessionSurface(ctx, s.id, s.kind), s.remote)
	s.ctx = logx.ContextWithSessionLogger(ctx, log, s.id, s.kind)

	done := make(chan struct{})
	defer close(done)
	var tick <-chan func()
	if s.clock == nil {
		loop := anim.NewLoopClock(done)
		s.clock = loop
		tick = loop.C()
	}

	keys := make(chan key, 16)
	go readKeys(input, keys, done)

	started := time.Now()
	log.Info("shell session start", "width", s.size.Width, "height", s.size.Height)
	s.Start()
	reason := "exit"
	for !s.ended {
		select {
		case <-ctx.Done():
			reason = "context"
			s.stop()
		case k, ok := <-keys:
			if !ok {
				reason = "eof"
				s.stop()
				break
			}
			s.handleKey(k)
		case size, ok := <-resize:
			if !ok {
				resize = nil
				break
			}
			s.Resize(size)
		case f := <-tick:
			f()
		}
	}
	log.Info("shell session end", "reason", reason, "duration", time.Since(started).Round(time.Millisecond))
	return nil
}

// Start draws the banner and the first prompt.
func (s *Session) Start() {
	s.writeBanner()
	s.prompt()
}

// Resize updates the size and redraws an open overlay.
func (s *Session) Resize(size Size) {
	s.SetSize(size)
	s.log().Debug("shell resize", "width", s.size.Width, "height", s.size.Height)
	if s.overlay != nil {
		s.overlay.render()
	}
}

func (s *Session) stop() {
	s.ended = true
	s.sched.Interrupt()
	s.pending = nil
	if s.overlay != nil {
		s.overlay.close()
		s.overlay = nil
	}
}

func (s *Session) write(text string) {
	_, _ = s.out.Write([]byte(text))
}

func (s *Session) prompt() {
	s.write(ansiFgRGB(colorPrompt) + s.interp.Prompt() + ansiReset)
}

func (s *Session) writeBanner() {
	var b strings.Builder
	for _, line := range bannerLines(s.interp.Catalog().Banner, s.size.Width, s.interp.ASCII()) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	s.write(b.String())
}

func (s *Session) redraw() {
	s.out.Clear()
	s.writeBanner()
	s.prompt()
}

func (s *Session) handleKey(k key) {
	if s.overlay != nil {
		if s.overlay.handleKey(k) {
			s.closeOverlay()
		}
		return
	}
	if s.sched.Animating() {
		if k.kind == keyCtrlC && s.sched.Mode().Interruptible() {
			mode := s.sched.Interrupt()
			s.log().Debug("shell animation interrupted", "mode", mode)
			s.write(ansiReset + "\r\n")
			s.prompt()
		}
		return
	}
	switch k.kind {
	case keyRune:
		if !unicode.IsPrint(k.r) {
			return
		}
		s.line.Append(k.r)
		s.write(string(k.r))
		s.out.ScrollToBottom()
	case keyBackspace:
		if r, ok := s.line.Backspace(); ok {
			s.write(eraseCells(runewidth.RuneWidth(r)))
		}
	case keyEnter:
		s.submit()
	case keyUp:
		if entry, ok := s.history.Up(); ok {
			s.replaceLine(entry)
		}
	case keyDown:
		if entry, ok := s.history.Down(); ok {
			s.replaceLine(entry)
		}
	case keyCtrlC:
		s.write("^C\r\n")
		s.line.Clear()
		s.history.Reset()
		s.prompt()
	case keyCtrlD:
		if s.line.Len() == 0 {
			s.log().Info("shell exit", "reason", "ctrl-d")
			s.write("\r\nlogout\r\n")
			s.stop()
		}
	}
}

func (s *Session) replaceLine(text string) {
	s.write(eraseCells(s.line.Width()))
	s.line.Set(text)
	s.write(text)
}

func (s *Session) submit() {
	raw := s.line.String()
	s.line.Clear()
	s.write("\r\n")
	if strings.TrimSpace(raw) != "" {
		s.history.Add(raw)
	} else {
		s.history.Reset()
	}
	res := s.interp.Interpret(s.ctx, raw)
	if res.Action != command.ActionPrompt || res.Err != nil {
		s.log().Info("shell command", "action", res.Action, "error", res.Err != nil)
	}
	s.apply(res)
}

func (s *Session) apply(res command.Result) {
	switch res.Action {
	case command.ActionPrompt:
		s.prompt()
	case command.ActionType:
		s.typeOutput(res.Output)
	case command.ActionClear:
		opts := anim.ClearingOptions()
		opts.Duration, opts.Interval = s.cfg.ClearDuration, s.cfg.ClearInterval
		s.start(anim.NewSpinner(s.clock, s.write, opts), s.redraw)
	case command.ActionRedraw:
		s.redraw()
	case command.ActionFetch:
		s.pending = res.Pending
		opts := anim.FetchOptions()
		opts.Duration, opts.Interval = s.cfg.FetchDuration, s.cfg.FetchInterval
		s.start(anim.NewSpinner(s.clock, s.write, opts), s.runPending)
	case command.ActionShare:
		s.share()
	case command.ActionExit:
		s.log().Info("shell exit", "reason", "exit")
		s.write("logout\r\n")
		s.stop()
	}
}

// runPending executes the command that waited for the fetch spinner. The
// slot is cleared before anything else so it fires once.
func (s *Session) runPending() {
	p := s.pending
	s.pending = nil
	if p == nil {
		s.prompt()
		return
	}
	switch p.Kind {
	case command.PendingCommand:
		s.typeOutput(p.Output)
	case command.PendingRun:
		s.prompt()
		s.openOverlay(p.Name, p.File)
	}
}

func (s *Session) typeOutput(out command.Output) {
	lines := styledLines(out)
	if out.Effect == schema.EffectPackageInstall {
		s.start(anim.NewInstall(s.clock, s.write, lines), func() {
			s.audio.Play()
			s.write("\r\n")
			s.prompt()
		})
		return
	}
	tw := anim.NewTypewriter(s.clock, s.write, lines, anim.TypewriterOptions{
		CharDelay: s.cfg.CharDelay,
		LineDelay: s.cfg.LineDelay,
		LinkStyle: linkStyle,
		Width:     func() int { return s.size.Width },
		Trailer:   "\r\n",
	})
	s.start(tw, s.prompt)
}

func (s *Session) start(a anim.Animation, done func()) {
	if err := s.sched.Start(a, done); err != nil {
		s.log().Warn("shell animation rejected", "mode", a.Mode(), "err", err)
	}
}

func (s *Session) openOverlay(name string, file content.File) {
	s.log().Info("shell overlay open", "file", name)
	s.overlay = newOverlay(s, name)
	s.overlay.open(file)
}

func (s *Session) closeOverlay() {
	s.log().Info("shell overlay close", "file", s.overlay.name)
	s.overlay.close()
	s.overlay = nil
}

func styledLines(out command.Output) []anim.Line {
	style := styleANSI(out.Style)
	lines := make([]anim.Line, 0, len(out.Lines))
	for _, text := range out.Lines {
		line := anim.Line{Text: text, Style: style}
		for _, span := range content.Spans(text, out.Links) {
			line.Links = append(line.Links, anim.Link{Start: span.Start, End: span.End, URL: span.URL})
		}
		lines = append(lines, line)
	}
	return lines
}
