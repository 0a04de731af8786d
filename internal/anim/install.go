package anim

import (
	"strings"
	"time"
)

// Install reveals whole lines with delays that depend on what each line
// says, in the manner of a package manager.
type Install struct {
	clock Clock
	write WriteFunc
	lines []Line

	next    int
	running bool
	timer   Timer
	finish  func()
}

// NewInstall prepares a package-install run.
func NewInstall(clock Clock, write WriteFunc, lines []Line) *Install {
	return &Install{clock: clock, write: write, lines: lines}
}

// InstallDelay returns the pause after line is shown.
func InstallDelay(line string) time.Duration {
	switch {
	case strings.Contains(line, "Reading package lists"), strings.Contains(line, "Building dependency tree"):
		return 100 * time.Millisecond
	case strings.Contains(line, "Get:"):
		return 50 * time.Millisecond
	case strings.Contains(line, "Fetched"):
		return 200 * time.Millisecond
	case strings.Contains(line, "Selecting"), strings.Contains(line, "Preparing"):
		return 80 * time.Millisecond
	case strings.Contains(line, "Unpacking"):
		return 120 * time.Millisecond
	case strings.Contains(line, "Setting up"):
		return 150 * time.Millisecond
	case strings.Contains(line, "Processing triggers"):
		return 100 * time.Millisecond
	case strings.Contains(line, "Installation done"):
		return 500 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

func (i *Install) Mode() Mode { return ModeInstall }

func (i *Install) Start(finish func()) {
	i.finish = finish
	i.running = true
	i.next = 0
	i.step()
}

func (i *Install) Stop() {
	if !i.running {
		return
	}
	i.running = false
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

func (i *Install) step() {
	i.timer = nil
	if !i.running {
		return
	}
	if i.next >= len(i.lines) {
		i.running = false
		if i.finish != nil {
			i.finish()
		}
		return
	}
	ln := i.lines[i.next]
	i.next++
	if ln.Style != "" {
		i.write(ln.Style + ln.Text + ansiReset + "\r\n")
	} else {
		i.write(ln.Text + "\r\n")
	}
	i.timer = i.clock.AfterFunc(InstallDelay(ln.Text), i.step)
}
