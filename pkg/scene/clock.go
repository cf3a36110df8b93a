// Package scene holds the state shared by the renderers: the animation clock,
// the per-frame context, the camera and the pointer-projected surface.
package scene

import (
	"math"
	"sync"
	"time"
)

// DefaultDayLength is one full sky cycle
const DefaultDayLength = 10 * time.Second

// Clock measures elapsed animation time in milliseconds
type Clock struct {
	mu        sync.Mutex
	dayLength time.Duration
	now       func() time.Time
	start     time.Time
	last      float64
}

// NewClock starts a clock on the wall clock
func NewClock(dayLength time.Duration) *Clock {
	return NewClockWithSource(dayLength, time.Now)
}

// NewClockWithSource starts a clock reading time from now
func NewClockWithSource(dayLength time.Duration, now func() time.Time) *Clock {
	return &Clock{
		dayLength: dayLength,
		now:       now,
		start:     now(),
	}
}

// Tick returns the milliseconds since the clock started. The result never
// decreases, even if the time source steps backwards.
func (c *Clock) Tick() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	elapsed := float64(c.now().Sub(c.start)) / float64(time.Millisecond)
	if elapsed > c.last {
		c.last = elapsed
	}
	return c.last
}

// DayLength returns the length of one sky cycle
func (c *Clock) DayLength() time.Duration {
	return c.dayLength
}

// TimeOfDay maps elapsed milliseconds to [0,1). A non-positive day length
// freezes the sky at 0.
func TimeOfDay(elapsedMs float64, dayLength time.Duration) float64 {
	day := float64(dayLength) / float64(time.Millisecond)
	if day <= 0 || elapsedMs <= 0 {
		return 0
	}
	t := math.Mod(elapsedMs, day) / day
	if t >= 1 {
		return 0
	}
	return t
}
