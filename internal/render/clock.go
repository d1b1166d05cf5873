package render

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Clock measures frame deltas and elapsed playback time.
type Clock struct {
	now     func() time.Time
	last    time.Time
	elapsed time.Duration
	started bool
}

func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Tick advances the clock. The first tick after a reset reports a zero delta.
func (c *Clock) Tick() (delta, elapsed float32) {
	current := c.now()
	if !c.started {
		c.last = current
		c.started = true
	}
	d := current.Sub(c.last)
	if d < 0 {
		d = 0
	}
	c.last = current
	c.elapsed += d
	return float32(d.Seconds()), float32(c.elapsed.Seconds())
}

// Reset restarts playback time from zero.
func (c *Clock) Reset() {
	c.started = false
	c.elapsed = 0
}

// DateVec decomposes t into iDate: year, month (1-12), day of month and seconds since
// midnight including the millisecond fraction.
func DateVec(t time.Time) mgl32.Vec4 {
	hour, minute, second := t.Clock()
	millisecond := t.Nanosecond() / 1e6
	seconds := float64(hour*3600+minute*60+second) + float64(millisecond)/1000.0
	return mgl32.Vec4{float32(t.Year()), float32(t.Month()), float32(t.Day()), float32(seconds)}
}
