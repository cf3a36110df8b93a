package scene

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is what one rendered frame reads
type Frame struct {
	ElapsedMs float64
	TimeOfDay float64
	Pointer   mgl64.Vec2 // normalized surface coordinates, zero when off the surface
}

// Context is the single owner of the clock and the pointer position.
// Input callbacks write the pointer; the render loop reads frames.
type Context struct {
	clock *Clock

	mu      sync.RWMutex
	pointer mgl64.Vec2
}

// NewContext creates a context around clock
func NewContext(clock *Clock) *Context {
	return &Context{clock: clock}
}

// SetPointer stores the latest projected pointer position
func (c *Context) SetPointer(uv mgl64.Vec2) {
	c.mu.Lock()
	c.pointer = uv
	c.mu.Unlock()
}

// Pointer returns the latest projected pointer position
func (c *Context) Pointer() mgl64.Vec2 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pointer
}

// Frame ticks the clock and snapshots everything a frame needs
func (c *Context) Frame() Frame {
	elapsed := c.clock.Tick()
	return Frame{
		ElapsedMs: elapsed,
		TimeOfDay: TimeOfDay(elapsed, c.clock.DayLength()),
		Pointer:   c.Pointer(),
	}
}
