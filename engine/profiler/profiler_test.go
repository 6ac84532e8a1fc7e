package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickLogsOncePerInterval(t *testing.T) {
	now := time.Unix(100, 0)
	p := NewProfiler()
	p.now = func() time.Time { return now }
	p.Reset()

	for i := 0; i < 10; i++ {
		now = now.Add(50 * time.Millisecond)
		assert.False(t, p.Tick(Sample{FrameTime: 16 * time.Millisecond, Speed: 1, Fov: 90}), "tick %d", i)
	}
	now = now.Add(500 * time.Millisecond)
	assert.True(t, p.Tick(Sample{FrameTime: 16 * time.Millisecond}))
	assert.Zero(t, p.frameCount)
	assert.Zero(t, p.frameTime)

	now = now.Add(10 * time.Millisecond)
	assert.False(t, p.Tick(Sample{}))
}

func TestResetDropsTheCurrentInterval(t *testing.T) {
	now := time.Unix(100, 0)
	p := NewProfiler()
	p.now = func() time.Time { return now }
	p.Reset()

	p.Tick(Sample{FrameTime: time.Millisecond})
	now = now.Add(5 * time.Second)
	p.Reset()
	assert.Zero(t, p.frameCount)
	assert.False(t, p.Tick(Sample{}))
}
