package camera

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistortionByName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"turbulent", "mountain", "xy"} {
		d, err := DistortionByName(name)
		require.NoError(t, err, name)
		require.NotNil(t, d, name)
		assert.Equal(t, name, d.Name())
	}

	d, err := DistortionByName("")
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = DistortionByName("wobble")
	assert.Error(t, err)
}

func TestPlanarDistortionsLookForward(t *testing.T) {
	t.Parallel()

	// The planar presets keep the look direction pointed down the road.
	for _, d := range []Distortion{Turbulent, XY} {
		for _, tm := range []float64{0, 0.5, 3, 17.25, 1000} {
			off := d.LookOffset(DistortionStrength, tm)
			for i := range 3 {
				assert.False(t, math.IsNaN(float64(off[i])), "%s at %v", d.Name(), tm)
			}
			assert.Less(t, off[2], float32(0), "%s at %v", d.Name(), tm)
		}
	}
}

func TestMountainDistortionIsFinite(t *testing.T) {
	t.Parallel()

	for _, tm := range []float64{0, 0.5, 3, 17.25, 1000} {
		off := Mountain.LookOffset(DistortionStrength, tm)
		for i := range 3 {
			assert.False(t, math.IsNaN(float64(off[i])))
			assert.LessOrEqual(t, math.Abs(float64(off[i])), 130.0)
		}
	}
}

func TestXYDistortionAtFixPoint(t *testing.T) {
	t.Parallel()

	// At the correction point the wave terms cancel and only the fixed offset remains.
	off := XY.LookOffset(0.02, 4.2)
	assert.InDelta(t, 0, off[0], 1e-4)
	assert.InDelta(t, 0, off[1], 1e-4)
	assert.InDelta(t, -3, off[2], 1e-6)
}

func TestDistortionIsContinuous(t *testing.T) {
	t.Parallel()

	a := Turbulent.LookOffset(DistortionStrength, 10)
	b := Turbulent.LookOffset(DistortionStrength, 10+1.0/600)
	for i := range 3 {
		assert.InDelta(t, a[i], b[i], 0.5)
	}
}
