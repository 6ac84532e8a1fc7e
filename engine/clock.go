package engine

import (
	"sync"
	"time"
)

// maxDelta caps a single step so that a stalled frame (window drag, debugger) does not jump the animation.
const maxDelta = 0.25

// Clock is a monotonic frame clock. It is read once per frame by the render loop.
type Clock interface {
	// Start resets the clock to zero.
	Start()

	// Delta returns the seconds since the previous Delta call, or since Start, capped at a quarter second.
	Delta() float64

	// Elapsed returns the sum of every Delta returned since Start, so a capped stall is not made up later.
	Elapsed() float64
}

type clock struct {
	mu      *sync.Mutex
	now     func() time.Time
	last    time.Time
	elapsed float64
}

var _ Clock = &clock{}

// NewClock creates a started clock driven by time.Now.
//
// Returns:
//   - Clock: the clock
func NewClock() Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *clock {
	c := &clock{mu: &sync.Mutex{}, now: now}
	c.Start()
	return c
}

func (c *clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = c.now()
	c.elapsed = 0
}

func (c *clock) Delta() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	dt := now.Sub(c.last).Seconds()
	c.last = now
	dt = min(max(dt, 0), maxDelta)
	c.elapsed += dt
	return dt
}

func (c *clock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}
