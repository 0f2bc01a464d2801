package app

import (
	"fmt"
	"io"
	"time"

	"learngl/internal/config"
)

// spinWindow is how close to the deadline Wait stops sleeping and spins.
const spinWindow = 200 * time.Microsecond

// FPSLimiter paces frames against a fixed schedule of deadlines so that
// sleep overshoot on one frame is absorbed by the next.
type FPSLimiter struct {
	deadline time.Time

	now   func() time.Time
	sleep func(time.Duration)
}

func NewFPSLimiter() *FPSLimiter {
	return &FPSLimiter{now: time.Now, sleep: time.Sleep}
}

// Wait blocks until the next frame is due under the live FPS limit. A limit of
// 0 returns immediately and drops the schedule.
func (f *FPSLimiter) Wait() {
	deadline, ok := f.advance(f.now(), config.GetFPSLimit())
	if !ok {
		return
	}
	for {
		left := deadline.Sub(f.now())
		if left <= 0 {
			return
		}
		if left > spinWindow {
			f.sleep(left - spinWindow)
		}
	}
}

// advance moves the schedule one frame forward from now and returns the new
// deadline. A frame that starts more than one period behind schedule restarts
// the schedule from now instead of trying to catch up.
func (f *FPSLimiter) advance(now time.Time, limit int) (time.Time, bool) {
	if limit <= 0 {
		f.deadline = time.Time{}
		return time.Time{}, false
	}
	period := time.Second / time.Duration(limit)
	switch {
	case f.deadline.IsZero(), now.Sub(f.deadline) > period:
		f.deadline = now.Add(period)
	default:
		f.deadline = f.deadline.Add(period)
	}
	return f.deadline, true
}

// FPSCounter prints "FPS: n" once per second of wall time.
type FPSCounter struct {
	out       io.Writer
	frames    int
	lastCheck time.Time
}

func NewFPSCounter(out io.Writer, now time.Time) *FPSCounter {
	return &FPSCounter{out: out, lastCheck: now}
}

// Frame counts one frame and reports the rate when a second has elapsed. It
// returns the reported value, or -1 when nothing was printed.
func (c *FPSCounter) Frame(now time.Time) int {
	c.frames++
	if now.Sub(c.lastCheck) < time.Second {
		return -1
	}
	n := c.frames
	if c.out != nil {
		fmt.Fprintln(c.out, "FPS: ", n)
	}
	c.frames = 0
	c.lastCheck = now
	return n
}
