package anim

import (
	"pkt.systems/rhinoterm/schema"
)

// Mode identifies the kind of animation.
type Mode int

const (
	ModeNone Mode = iota
	ModeTypewriter
	ModeFetch
	ModeClearing
	ModeInstall
)

func (m Mode) String() string {
	switch m {
	case ModeTypewriter:
		return "typewriter"
	case ModeFetch:
		return "spinner-fetch"
	case ModeClearing:
		return "clearing"
	case ModeInstall:
		return "package-install"
	default:
		return "none"
	}
}

// Interruptible reports whether Ctrl+C may cut the mode short.
func (m Mode) Interruptible() bool {
	return m == ModeTypewriter || m == ModeInstall
}

// Animation is one timed output run.
type Animation interface {
	Mode() Mode
	// Start writes the first frame and arms timers. finish is called once
	// on natural completion and never after Stop.
	Start(finish func())
	// Stop cancels pending timers and cleans up partial output.
	Stop()
}

// Scheduler owns the single active animation of one output surface.
type Scheduler struct {
	active Animation
	seq    uint64
}

// NewScheduler returns an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Animating reports whether an animation is in flight.
func (s *Scheduler) Animating() bool {
	return s.active != nil
}

// Mode returns the active mode, or ModeNone.
func (s *Scheduler) Mode() Mode {
	if s.active == nil {
		return ModeNone
	}
	return s.active.Mode()
}

// Start runs a. The active slot is released before done runs, so done may
// start the next animation.
func (s *Scheduler) Start(a Animation, done func()) error {
	if s.active != nil {
		return schema.ErrAnimationBusy
	}
	s.seq++
	seq := s.seq
	s.active = a
	a.Start(func() {
		if s.active != a || s.seq != seq {
			return
		}
		s.active = nil
		if done != nil {
			done()
		}
	})
	return nil
}

// Interrupt stops the active animation without running its completion.
func (s *Scheduler) Interrupt() Mode {
	a := s.active
	if a == nil {
		return ModeNone
	}
	s.active = nil
	a.Stop()
	return a.Mode()
}
