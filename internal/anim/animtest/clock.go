// Package animtest provides a manual clock for driving animations in tests.
package animtest

import (
	"time"

	"pkt.systems/rhinoterm/internal/anim"
)

// Clock is a fake anim.Clock. Timers fire only from Advance or Drain, in
// due order, ties broken by scheduling order.
type Clock struct {
	now    time.Duration
	seq    uint64
	timers []*timer
}

type timer struct {
	clock *Clock
	due   time.Duration
	seq   uint64
	f     func()
	done  bool
}

// New returns a clock at time zero.
func New() *Clock {
	return &Clock{}
}

// Now returns the elapsed fake time.
func (c *Clock) Now() time.Duration {
	return c.now
}

// AfterFunc implements anim.Clock.
func (c *Clock) AfterFunc(d time.Duration, f func()) anim.Timer {
	if d < 0 {
		d = 0
	}
	c.seq++
	t := &timer{clock: c, due: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.clock.remove(t)
	return true
}

// Pending returns the number of armed timers.
func (c *Clock) Pending() int {
	return len(c.timers)
}

// Advance moves time forward by d, firing every timer that comes due.
func (c *Clock) Advance(d time.Duration) {
	target := c.now + d
	for {
		t := c.next()
		if t == nil || t.due > target {
			break
		}
		c.fire(t)
	}
	c.now = target
}

// Drain fires timers until none remain and returns the elapsed time. It
// gives up after limit firings to avoid spinning on a self-rearming timer.
func (c *Clock) Drain() time.Duration {
	const limit = 100000
	start := c.now
	for i := 0; i < limit; i++ {
		t := c.next()
		if t == nil {
			break
		}
		c.fire(t)
	}
	return c.now - start
}

func (c *Clock) next() *timer {
	var best *timer
	for _, t := range c.timers {
		if best == nil || t.due < best.due || (t.due == best.due && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (c *Clock) fire(t *timer) {
	if t.due > c.now {
		c.now = t.due
	}
	t.done = true
	c.remove(t)
	t.f()
}

func (c *Clock) remove(t *timer) {
	for i, candidate := range c.timers {
		if candidate == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return
		}
	}
}
