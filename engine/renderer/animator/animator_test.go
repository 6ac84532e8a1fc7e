package animator

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTimes() []float64 {
	return []float64{0, 0.016, 1, 2.5, 13.37, 59.99, 600, 3600.5, 86400, 1e6 + 0.25}
}

func sampleSeeds() []float64 {
	return []float64{0, 0.001, 0.1, 0.25, 0.5, 0.75, 0.9, 0.999999}
}

func TestOffsetStaysInRange(t *testing.T) {
	t.Parallel()

	for _, motion := range []struct{ speed, length float64 }{
		{60, 400}, {-120, 400}, {0.6, 100}, {15, 10},
	} {
		a := NewAnimator("test", nil, WithMotion(motion.speed, motion.length))
		half := motion.length / 2
		for _, tm := range sampleTimes() {
			a.SetTime(tm)
			for _, r := range sampleSeeds() {
				off := a.Offset(r)
				require.GreaterOrEqual(t, off, -half, "speed %v t %v r %v", motion.speed, tm, r)
				require.Less(t, off, half, "speed %v t %v r %v", motion.speed, tm, r)
			}
		}
	}
}

func TestDistinctSeedsAreOutOfPhase(t *testing.T) {
	t.Parallel()

	a := NewAnimator("test", nil, WithMotion(60, 400))
	seeds := []float64{0.05, 0.2, 0.35, 0.6, 0.85}
	for _, tm := range sampleTimes() {
		a.SetTime(tm)
		seen := map[float64]float64{}
		for _, r := range seeds {
			off := a.Offset(r)
			for other, prev := range seen {
				assert.NotEqual(t, prev, off, "seeds %v and %v collide at t=%v", other, r, tm)
			}
			seen[r] = off
		}
	}
}

func TestUniformPhaseMatchesCPUOffset(t *testing.T) {
	t.Parallel()

	a := NewAnimator("test", nil, WithMotion(-120, 400))
	for _, tm := range sampleTimes() {
		a.SetTime(tm)
		u := a.Uniform()
		require.GreaterOrEqual(t, u.Phase, float32(0))
		require.Less(t, u.Phase, float32(400))
		for _, r := range sampleSeeds() {
			// The shader folds the seed into the uploaded phase the same way.
			gpu := common.WrapPhase(float64(u.Phase), r, float64(u.Range))
			assert.InDelta(t, a.Offset(r), gpu, 1e-3, "t=%v r=%v", tm, r)
		}
	}
}

func TestWritesOnlyWhenDirty(t *testing.T) {
	t.Parallel()

	a := NewAnimator("test", nil, WithMotion(1, 10))
	first := a.Writes()
	require.Len(t, first, 1)
	assert.Len(t, first[0].Data, 48)
	assert.Same(t, a.Provider(), first[0].Provider)

	assert.Empty(t, a.Writes())
	a.SetTime(0)
	assert.Empty(t, a.Writes())
	a.SetTime(1)
	assert.Len(t, a.Writes(), 1)
}

func TestUniformLayout(t *testing.T) {
	t.Parallel()

	a := NewAnimator("test", nil,
		WithMotion(2, 8),
		WithTranslation(common.Vec3{-6, 0, 0}),
		WithFade(1, 0.4),
		WithTint(common.Vec3{0.5, 0.5, 0.5}),
		WithSeedWeight(1),
	)
	a.SetTime(3)
	u := a.Uniform()
	assert.Equal(t, 48, u.Size())
	assert.Equal(t, [3]float32{-6, 0, 0}, u.Translation)
	assert.Equal(t, float32(6), u.Phase)
	assert.Equal(t, [2]float32{1, 0.4}, u.Fade)
	assert.Equal(t, float32(1), u.FadeEnabled)
	assert.Equal(t, float32(1), u.SeedWeight)

	buf := u.Marshal()
	assert.Equal(t, float32(8), math.Float32frombits(uint32(buf[24])|uint32(buf[25])<<8|uint32(buf[26])<<16|uint32(buf[27])<<24))
}

func TestNoFadeByDefault(t *testing.T) {
	t.Parallel()

	u := NewAnimator("road", nil).Uniform()
	assert.Equal(t, float32(0), u.FadeEnabled)
	assert.Equal(t, [3]float32{1, 1, 1}, u.Tint)
}
