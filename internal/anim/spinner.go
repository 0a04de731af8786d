package anim

import (
	"strings"
	"time"
)

// SpinnerFrames is the glyph cycle shared by the fetch and clearing spinners.
var SpinnerFrames = []rune{'|', '/', '-', '\\'}

var clearLine = "\r" + strings.Repeat(" ", 20) + "\r"

// SpinnerOptions tunes a Spinner.
type SpinnerOptions struct {
	Mode     Mode
	Label    string
	Duration time.Duration
	Interval time.Duration
}

// FetchOptions returns the fetch spinner defaults.
func FetchOptions() SpinnerOptions {
	return SpinnerOptions{Mode: ModeFetch, Label: "fetching ", Duration: 2000 * time.Millisecond, Interval: 300 * time.Millisecond}
}

// ClearingOptions returns the clearing spinner defaults.
func ClearingOptions() SpinnerOptions {
	return SpinnerOptions{Mode: ModeClearing, Label: "clearing ", Duration: 1500 * time.Millisecond, Interval: 300 * time.Millisecond}
}

// Spinner redraws a label and rotating glyph on the current line for a
// fixed duration.
type Spinner struct {
	clock Clock
	write WriteFunc
	opts  SpinnerOptions

	frame   int
	running bool
	tick    Timer
	done    Timer
	finish  func()
}

// NewSpinner prepares a spinner run.
func NewSpinner(clock Clock, write WriteFunc, opts SpinnerOptions) *Spinner {
	if opts.Mode == ModeNone {
		opts.Mode = ModeFetch
	}
	return &Spinner{clock: clock, write: write, opts: opts}
}

// SpinnerFrame renders one spinner frame.
func SpinnerFrame(label string, glyph rune) string {
	return "\x1b[38;2;207;207;207m" + label + "\x1b[38;2;221;165;32m" + string(glyph) + ansiReset
}

func (s *Spinner) Mode() Mode { return s.opts.Mode }

func (s *Spinner) Start(finish func()) {
	s.finish = finish
	s.running = true
	s.frame = 0
	s.done = s.clock.AfterFunc(s.opts.Duration, s.complete)
	s.redraw()
}

func (s *Spinner) Stop() {
	if !s.running {
		return
	}
	s.halt()
}

func (s *Spinner) redraw() {
	if !s.running {
		return
	}
	s.write(clearLine + SpinnerFrame(s.opts.Label, SpinnerFrames[s.frame]))
	s.frame = (s.frame + 1) % len(SpinnerFrames)
	s.tick = s.clock.AfterFunc(s.opts.Interval, s.redraw)
}

func (s *Spinner) complete() {
	if !s.running {
		return
	}
	s.halt()
	if s.finish != nil {
		s.finish()
	}
}

func (s *Spinner) halt() {
	s.running = false
	if s.tick != nil {
		s.tick.Stop()
		s.tick = nil
	}
	if s.done != nil {
		s.done.Stop()
		s.done = nil
	}
	s.write(clearLine)
}
