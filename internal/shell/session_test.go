package shell

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"pkt.systems/rhinoterm/internal/anim/animtest"
	"pkt.systems/rhinoterm/internal/content"
	"pkt.systems/rhinoterm/schema"
)

type fakeSurface struct {
	mu      sync.Mutex
	buf     strings.Builder
	clears  int
	scrolls int
}

func (f *fakeSurface) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Write(p)
}

func (f *fakeSurface) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
}

func (f *fakeSurface) ScrollToBottom() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scrolls++
}

func (f *fakeSurface) String() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.String()
}

func (f *fakeSurface) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf.Reset()
}

type fakeAudio struct {
	plays int
}

func (a *fakeAudio) Play() { a.plays++ }

const homePrompt = "visitor@c0derhin0-wp.com:~$ "

func newTestSession(t *testing.T) (*Session, *fakeSurface, *animtest.Clock) {
	t.Helper()
	s, surface, clock, _ := newTestSessionWithAudio(t)
	return s, surface, clock
}

func newTestSessionWithAudio(t *testing.T) (*Session, *fakeSurface, *animtest.Clock, *fakeAudio) {
	t.Helper()
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	surface := &fakeSurface{}
	clock := animtest.New()
	audio := &fakeAudio{}
	s := NewSession(cat, surface, Options{
		ID:      "test",
		Surface: schema.SurfaceLocal,
		Audio:   audio,
		Clock:   clock,
		Size:    Size{Width: 80, Height: 24},
	})
	return s, surface, clock, audio
}

func typeText(s *Session, text string) {
	for _, r := range text {
		s.handleKey(key{kind: keyRune, r: r})
	}
}

func submit(s *Session, text string) {
	typeText(s, text)
	s.handleKey(key{kind: keyEnter})
}

func TestSessionStartDrawsBannerAndPrompt(t *testing.T) {
	s, surface, _ := newTestSession(t)
	s.Start()
	out := surface.String()
	if !strings.Contains(out, "Welcome to the CODERHINO Terminal Portfolio") {
		t.Fatalf("expected welcome line, got %q", out)
	}
	if !strings.Contains(out, ansiFgRGB(colorRhino)) {
		t.Fatalf("expected rhino art at 80 columns")
	}
	if !strings.HasSuffix(out, homePrompt+ansiReset) {
		t.Fatalf("expected prompt at the end, got %q", out)
	}
}

func TestSessionPwd(t *testing.T) {
	s, surface, clock := newTestSession(t)
	s.Start()
	submit(s, "cd c0derhin0-wp.com")
	submit(s, "PWD")
	clock.Drain()
	out := surface.String()
	if !strings.Contains(out, "/Users/c0derhin0/Internet/c0derhin0-wp.com\r\n\r\n") {
		t.Fatalf("expected typed pwd, got %q", out)
	}
	if !strings.HasSuffix(out, "visitor@c0derhin0-wp.com:~/c0derhin0-wp.com$ "+ansiReset) {
		t.Fatalf("expected prompt with directory, got %q", out)
	}
}

func TestSessionEchoAndBackspace(t *testing.T) {
	s, surface, _ := newTestSession(t)
	typeText(s, "a日")
	s.handleKey(key{kind: keyBackspace})
	if got := surface.String(); got != "a日\b \b\b \b" {
		t.Fatalf("unexpected echo %q", got)
	}
	if s.line.String() != "a" {
		t.Fatalf("expected buffer a, got %q", s.line.String())
	}
	if surface.scrolls != 2 {
		t.Fatalf("expected scroll per printable key, got %d", surface.scrolls)
	}
	s.handleKey(key{kind: keyRune, r: 0x07})
	if s.line.String() != "a" {
		t.Fatalf("non-printable rune changed the buffer")
	}
}

func TestSessionLockoutDuringSpinner(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "about")
	if !s.sched.Animating() {
		t.Fatalf("expected fetch spinner")
	}
	before := surface.String()
	typeText(s, "xyz")
	s.handleKey(key{kind: keyBackspace})
	s.handleKey(key{kind: keyCtrlC})
	s.handleKey(key{kind: keyUp})
	if surface.String() != before {
		t.Fatalf("keys during spinner changed the surface")
	}
	if s.line.Len() != 0 {
		t.Fatalf("keys during spinner changed the buffer")
	}
	clock.Drain()
	out := surface.String()
	if !strings.Contains(out, "Paulo 'C0DERHIN0' Perez") {
		t.Fatalf("expected about output after spinner, got %q", out)
	}
	if s.pending != nil {
		t.Fatalf("expected pending slot cleared")
	}
}

func TestSessionLockoutDuringTypewriter(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "pwd")
	clock.Advance(15 * time.Millisecond)
	before := surface.String()
	typeText(s, "q")
	if surface.String() != before || s.line.Len() != 0 {
		t.Fatalf("keys during typewriter must be discarded")
	}
}

func TestSessionCtrlCInterruptsTypewriter(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "pwd")
	clock.Advance(25 * time.Millisecond)
	s.handleKey(key{kind: keyCtrlC})
	if s.sched.Animating() {
		t.Fatalf("expected typewriter interrupted")
	}
	out := surface.String()
	if !strings.HasSuffix(out, "\r\n"+ansiFgRGB(colorPrompt)+homePrompt+ansiReset) {
		t.Fatalf("expected newline and prompt, got %q", out)
	}
	if strings.Contains(out, "Internet") {
		t.Fatalf("expected the rest of the line abandoned, got %q", out)
	}
	clock.Drain()
	if surface.String() != out {
		t.Fatalf("output changed after interrupt")
	}
}

func TestSessionCtrlCIdle(t *testing.T) {
	s, surface, _ := newTestSession(t)
	typeText(s, "abc")
	s.handleKey(key{kind: keyCtrlC})
	if s.line.Len() != 0 {
		t.Fatalf("expected line cleared")
	}
	if !strings.Contains(surface.String(), "abc^C\r\n") {
		t.Fatalf("expected ^C echo, got %q", surface.String())
	}
}

func TestSessionHistory(t *testing.T) {
	s, surface, clock := newTestSession(t)
	for _, line := range []string{"a", "b", "c"} {
		submit(s, line)
		clock.Drain()
	}
	for i := 0; i < 3; i++ {
		s.handleKey(key{kind: keyUp})
	}
	if s.line.String() != "a" {
		t.Fatalf("expected a, got %q", s.line.String())
	}
	s.handleKey(key{kind: keyUp})
	if s.line.String() != "a" {
		t.Fatalf("expected clamp at a, got %q", s.line.String())
	}
	surface.Reset()
	for i := 0; i < 3; i++ {
		s.handleKey(key{kind: keyDown})
	}
	if s.line.String() != "" {
		t.Fatalf("expected empty line, got %q", s.line.String())
	}
	if got := surface.String(); got != "\b \bb\b \bc\b \b" {
		t.Fatalf("unexpected history redraw %q", got)
	}
}

func TestSessionHistoryKeepsUntrimmedLine(t *testing.T) {
	s, _, clock := newTestSession(t)
	submit(s, "  help  ")
	clock.Drain()
	submit(s, "   ")
	s.handleKey(key{kind: keyUp})
	if s.line.String() != "  help  " {
		t.Fatalf("expected untrimmed entry, got %q", s.line.String())
	}
}

func TestSessionRunUnknownFile(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "run hello.sh")
	clock.Drain()
	if s.overlay != nil {
		t.Fatalf("overlay must not open")
	}
	if !strings.Contains(surface.String(), "No file found with name hello.sh") {
		t.Fatalf("expected error line, got %q", surface.String())
	}
}

func TestSessionOverlayOpenAndClose(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "cd c0derhin0-wp.com")
	submit(s, "run hello.sh")
	clock.Advance(2000 * time.Millisecond)
	if s.overlay == nil {
		t.Fatalf("expected overlay open after fetch")
	}
	out := surface.String()
	if !strings.Contains(out, "c0derhin0-wp.com$ "+ansiReset+"\x1b[?1049h") {
		t.Fatalf("expected prompt before alternate screen, got %q", out)
	}
	clock.Advance(200 * time.Millisecond)
	if !strings.Contains(surface.String(), "#!/bi") {
		t.Fatalf("expected overlay typing, got %q", surface.String())
	}
	typeText(s, "x")
	if s.overlay == nil {
		t.Fatalf("other keys must not close the overlay")
	}
	s.handleKey(key{kind: keyRune, r: 'q'})
	if s.overlay != nil {
		t.Fatalf("expected overlay closed")
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected overlay timers cancelled, %d pending", clock.Pending())
	}
	closed := surface.String()
	if !strings.HasSuffix(closed, "\x1b[?1049l\x1b[?25h") {
		t.Fatalf("expected alternate screen exit, got %q", closed)
	}
	clock.Drain()
	if surface.String() != closed {
		t.Fatalf("overlay wrote after close")
	}
	submit(s, "pwd")
	if s.line.Len() != 0 || !s.sched.Animating() {
		t.Fatalf("expected input back on the main line")
	}
}

func TestSessionOverlayEscape(t *testing.T) {
	s, _, clock := newTestSession(t)
	submit(s, "cd secret")
	submit(s, "run secret.sh")
	clock.Advance(2000 * time.Millisecond)
	if s.overlay == nil {
		t.Fatalf("expected overlay open")
	}
	s.handleKey(key{kind: keyEscape})
	if s.overlay != nil {
		t.Fatalf("expected escape to close the overlay")
	}
}

func TestSessionASCIIToggleRedraws(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "ascii off")
	if surface.clears != 1 {
		t.Fatalf("expected immediate clear, got %d", surface.clears)
	}
	surface.Reset()
	submit(s, "ascii off")
	clock.Drain()
	if surface.clears != 1 {
		t.Fatalf("redundant toggle must not redraw")
	}
	if !strings.Contains(surface.String(), "ASCII art is already disabled.") {
		t.Fatalf("expected redundant toggle error, got %q", surface.String())
	}
	surface.Reset()
	submit(s, "clear")
	clock.Drain()
	if surface.clears != 2 {
		t.Fatalf("expected clear after clearing spinner, got %d", surface.clears)
	}
	out := surface.String()
	if !strings.Contains(out, "clearing ") {
		t.Fatalf("expected clearing spinner, got %q", out)
	}
	if strings.Contains(out, ansiFgRGB(colorRhino)) {
		t.Fatalf("expected no art while ascii is off")
	}
}

func TestSessionClearWaitsForSpinner(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "clear")
	clock.Advance(1499 * time.Millisecond)
	if surface.clears != 0 {
		t.Fatalf("cleared before the spinner finished")
	}
	clock.Advance(time.Millisecond)
	if surface.clears != 1 {
		t.Fatalf("expected clear at 1500ms")
	}
}

func TestSessionPackageInstallPlaysCue(t *testing.T) {
	s, surface, clock, audio := newTestSessionWithAudio(t)
	submit(s, "sudo apt install coffee")
	clock.Drain()
	if audio.plays != 1 {
		t.Fatalf("expected one audio cue, got %d", audio.plays)
	}
	if !strings.Contains(surface.String(), "Installation done. Productivity restored.") {
		t.Fatalf("expected install output")
	}
}

func TestSessionCtrlCInterruptsInstall(t *testing.T) {
	s, _, clock, audio := newTestSessionWithAudio(t)
	submit(s, "sudo apt install coffee")
	clock.Advance(2100 * time.Millisecond)
	s.handleKey(key{kind: keyCtrlC})
	clock.Drain()
	if audio.plays != 0 {
		t.Fatalf("interrupted install must not play the cue")
	}
}

func TestSessionLinksBecomeHyperlinks(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "contact")
	clock.Drain()
	if !strings.Contains(surface.String(), "\x1b]8;;https://github.com/c0derhin0\x1b\\github.com/c0derhin0\x1b]8;;\x1b\\") {
		t.Fatalf("expected OSC 8 link, got %q", surface.String())
	}
}

func TestSessionShare(t *testing.T) {
	s, surface, clock := newTestSession(t)
	submit(s, "share")
	clock.Drain()
	out := surface.String()
	if !strings.Contains(out, "▀") && !strings.Contains(out, "▄") && !strings.Contains(out, "█") {
		t.Fatalf("expected QR blocks, got %q", out)
	}
	if !strings.Contains(out, "https://c0derhin0.github.io/Web-Portfolio") {
		t.Fatalf("expected URL line")
	}
}

func TestSessionExit(t *testing.T) {
	s, _, _ := newTestSession(t)
	submit(s, "exit")
	if !s.Ended() {
		t.Fatalf("expected session ended")
	}

	s, _, _ = newTestSession(t)
	typeText(s, "x")
	s.handleKey(key{kind: keyCtrlD})
	if s.Ended() {
		t.Fatalf("ctrl-d with input must not end the session")
	}
	s.handleKey(key{kind: keyBackspace})
	s.handleKey(key{kind: keyCtrlD})
	if !s.Ended() {
		t.Fatalf("expected ctrl-d on empty line to end the session")
	}
}

func TestSessionRunWithLoopClock(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	surface := &fakeSurface{}
	s := NewSession(cat, surface, Options{Surface: schema.SurfaceLocal})
	pr, pw := io.Pipe()
	resize := make(chan Size, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(context.Background(), pr, resize)
	}()
	resize <- Size{Width: 100, Height: 30}
	if _, err := io.WriteString(pw, "pwd\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(surface.String(), "/Users/c0derhin0/Internet/default\r\n\r\n"+ansiFgRGB(colorPrompt)) {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for pwd, got %q", surface.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, err := io.WriteString(pw, "exit\r"); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for Run")
	}
	_ = pw.Close()
}

func TestSessionRunEndsOnEOF(t *testing.T) {
	cat, err := content.Default()
	if err != nil {
		t.Fatalf("content.Default: %v", err)
	}
	s := NewSession(cat, &fakeSurface{}, Options{})
	pr, pw := io.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(context.Background(), pr, nil)
	}()
	_ = pw.Close()
	select {
	case <-errCh:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for Run")
	}
	if !s.Ended() {
		t.Fatalf("expected ended session")
	}
}
