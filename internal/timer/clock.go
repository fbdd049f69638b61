package timer

import "time"

// Clock reports elapsed engine time. The engine, timers and animations all
// read the same clock so tests can drive them with a ManualClock.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures wall time since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration { return time.Since(c.start) }

// ManualClock only moves when told to.
type ManualClock struct {
	now time.Duration
}

func (c *ManualClock) Now() time.Duration      { return c.now }
func (c *ManualClock) Advance(d time.Duration) { c.now += d }
func (c *ManualClock) Set(d time.Duration)     { c.now = d }
