package shell

import (
	"io"
	"sync"
)

// Surface is the rendering sink of a session.
type Surface interface {
	// Write appends raw text, control sequences included.
	Write(p []byte) (int, error)
	// Clear wipes scrollback and the visible screen.
	Clear()
	// ScrollToBottom brings the newest output into view.
	ScrollToBottom()
}

// AudioPlayer plays the completion cue of the package-install effect.
type AudioPlayer interface {
	Play()
}

const clearScreen = "\x1b[3J\x1b[H\x1b[2J"

// TerminalSurface drives a VT100-style terminal through a byte stream.
type TerminalSurface struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminalSurface wraps w.
func NewTerminalSurface(w io.Writer) *TerminalSurface {
	return &TerminalSurface{w: w}
}

func (s *TerminalSurface) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *TerminalSurface) Clear() {
	_, _ = s.Write([]byte(clearScreen))
}

// ScrollToBottom is a no-op: terminals follow output on their own.
func (s *TerminalSurface) ScrollToBottom() {}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer
}

func (b Bell) Play() {
	if b.W == nil {
		return
	}
	_, _ = io.WriteString(b.W, "\a")
}
