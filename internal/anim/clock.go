// Package anim drives timed terminal output: typewriter text, spinners and
// the package-install effect. Animations never block; every step is a timer
// callback scheduled through a Clock.
package anim

import (
	"sync/atomic"
	"time"
)

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the
	// timer was still pending.
	Stop() bool
}

// LoopClock runs callbacks on the goroutine that drains C, so timer
// callbacks and key handling share one logical thread.
type LoopClock struct {
	post chan func()
	done <-chan struct{}
}

// NewLoopClock returns a clock whose callbacks are delivered on C until done closes.
func NewLoopClock(done <-chan struct{}) *LoopClock {
	return &LoopClock{post: make(chan func(), 64), done: done}
}

// C delivers due callbacks. The owner must call each one.
func (c *LoopClock) C() <-chan func() {
	return c.post
}

// AfterFunc schedules f to be delivered on C after d.
func (c *LoopClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{f: f}
	t.timer = time.AfterFunc(d, func() {
		select {
		case c.post <- t.fire:
		case <-c.done:
		}
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	f     func()
	spent atomic.Bool
}

// fire runs on the loop goroutine; a Stop that happened after the post
// but before the loop got here wins.
func (t *loopTimer) fire() {
	if t.spent.Swap(true) {
		return
	}
	t.f()
}

func (t *loopTimer) Stop() bool {
	pending := !t.spent.Swap(true)
	t.timer.Stop()
	return pending
}
