package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	for _, in := range []string{"#03b3c3", "0x03B3C3", "03b3c3", "  #03b3c3 "} {
		c, err := ParseColor(in)
		require.NoError(t, err, in)
		assert.Equal(t, Color(0x03b3c3), c)
	}
	for _, in := range []string{"", "#fff", "#gggggg", "0x1234567"} {
		_, err := ParseColor(in)
		assert.Error(t, err, in)
	}
}

func TestColor_RGBAndString(t *testing.T) {
	c := Color(0xff8000)
	rgb := c.RGB()
	assert.InDelta(t, 1.0, rgb[0], 1e-6)
	assert.InDelta(t, 128.0/255, rgb[1], 1e-6)
	assert.InDelta(t, 0.0, rgb[2], 1e-6)
	assert.Equal(t, "#ff8000", c.String())
}

func TestLerp_SnapsToTarget(t *testing.T) {
	assert.InDelta(t, 5.0, Lerp(0, 10, 0.5, 0.1), 1e-9)
	assert.InDelta(t, 0.05, Lerp(9.95, 10, 0.5, 0.1), 1e-9)

	v := 0.0
	for i := 0; i < 200 && v != 10; i++ {
		v += Lerp(v, 10, 0.1, 0.001)
	}
	assert.Equal(t, 10.0, v)
}

func TestEaseRate(t *testing.T) {
	r := EaseRate(60, 1.0/60)
	assert.Greater(t, r, 0.0)
	assert.LessOrEqual(t, r, 1.0)
	assert.Equal(t, 1.0, EaseRate(60, 0))
}

func TestMod(t *testing.T) {
	assert.Equal(t, 1.0, Mod(5, 4))
	assert.Equal(t, 3.0, Mod(-1, 4))
	assert.Equal(t, 0.0, Mod(-1e-18, 4))
}

func TestWrapOffset_StaysInRange(t *testing.T) {
	const length = 400.0
	for _, tm := range []float64{0, 0.5, 13, 1e6, -7} {
		for _, r := range []float64{0, 0.25, 0.999} {
			v := WrapOffset(tm, r, 120, length)
			assert.GreaterOrEqual(t, v, -length/2)
			assert.Less(t, v, length/2)
		}
	}
}

func TestFogFactor(t *testing.T) {
	assert.Equal(t, 1.0, FogFactor(0, 10, 100))
	assert.Equal(t, 0.5, FogFactor(55, 10, 100))
	assert.Equal(t, 0.0, FogFactor(200, 10, 100))
	assert.Equal(t, 1.0, FogFactor(5, 10, 10))
	assert.Equal(t, 0.0, FogFactor(11, 10, 10))
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0, 1, -1))
	assert.Equal(t, 0.5, Smoothstep(0, 1, 0.5))
	assert.Equal(t, 1.0, Smoothstep(0, 1, 2))
	assert.Equal(t, 1.0, Smoothstep(1, 1, 1))
}

func TestRand_Deterministic(t *testing.T) {
	a, b := NewRand(42), NewRand(42)
	for i := 0; i < 100; i++ {
		x := a.Float64()
		assert.Equal(t, x, b.Float64())
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
	assert.Equal(t, 3.0, a.RangeF(3, 3))
	assert.Equal(t, 0, a.Intn(0))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[Pick(a, []string{"a", "b", "c"})] = true
	}
	assert.Len(t, seen, 3)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3, Coalesce(0, 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestPerspective_MapsNearAndFar(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, float32(DegToRad(90)), 1, 0.1, 100)
	_, w := TransformPoint(m, Vec3{0, 0, -1})
	assert.InDelta(t, 1.0, w, 1e-6)
	assert.False(t, math.IsNaN(float64(m[0])))
}
