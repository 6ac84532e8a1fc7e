package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClock(t *testing.T) {
	now := time.Unix(1000, 0)
	c := newClockAt(func() time.Time { return now })

	now = now.Add(16 * time.Millisecond)
	assert.InDelta(t, 0.016, c.Delta(), 1e-9)
	now = now.Add(10 * time.Millisecond)
	assert.InDelta(t, 0.010, c.Delta(), 1e-9)
	assert.InDelta(t, 0.026, c.Elapsed(), 1e-9)

	// Delta is consumed, Elapsed is not.
	assert.Zero(t, c.Delta())
	assert.InDelta(t, 0.026, c.Elapsed(), 1e-9)

	now = now.Add(3 * time.Second)
	assert.Equal(t, maxDelta, c.Delta())
	// a stall only advances elapsed time by the capped step
	assert.InDelta(t, 0.026+maxDelta, c.Elapsed(), 1e-9)

	// time passing without a Delta call is not counted yet
	now = now.Add(20 * time.Millisecond)
	assert.InDelta(t, 0.026+maxDelta, c.Elapsed(), 1e-9)
	assert.InDelta(t, 0.020, c.Delta(), 1e-9)
	assert.InDelta(t, 0.046+maxDelta, c.Elapsed(), 1e-9)

	c.Start()
	assert.Zero(t, c.Elapsed())
}
