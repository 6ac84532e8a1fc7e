package postprocess

import (
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/stretchr/testify/assert"
)

func TestScreenBlend(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.5, ScreenBlend(0.5, 0, 1), 1e-9)
	assert.InDelta(t, 1.0, ScreenBlend(0.2, 1, 1), 1e-9)
	assert.InDelta(t, 0.75, ScreenBlend(0.5, 0.5, 1), 1e-9)
	// Screening never darkens.
	for _, base := range []float64{0, 0.3, 0.9} {
		assert.GreaterOrEqual(t, ScreenBlend(base, 0.4, 0.5), base)
	}
	assert.InDelta(t, 1.0, ScreenBlend(2, 0, 1), 1e-9)
}

func TestBrightMask(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, BrightMask(0.19, 0.2, 0))
	assert.Equal(t, 1.0, BrightMask(0.2, 0.2, 0))
	assert.InDelta(t, 0.5, BrightMask(0.3, 0.2, 0.2), 1e-9)

	// The background color sits below the default threshold.
	bg := common.Color(0x000000)
	assert.Equal(t, 0.0, BrightMask(Luminance(bg.RGB()), DefaultBloomSettings().Threshold, 0))
}

func TestBloomSize(t *testing.T) {
	t.Parallel()

	w, h := DefaultBloomSettings().Size(1920, 1080)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)

	w, h = BloomSettings{ResolutionScale: 0.5}.Size(1920, 1080)
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)

	w, h = BloomSettings{ResolutionScale: 3}.Size(10, 1)
	assert.Equal(t, 10, w)
	assert.Equal(t, 1, h)

	w, h = BloomSettings{ResolutionScale: 0.01}.Size(10, 10)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestBlurUniformUsesBloomTexels(t *testing.T) {
	t.Parallel()

	b := BloomSettings{ResolutionScale: 0.5}
	u := b.blurUniform(200, 100, true)
	assert.Equal(t, [2]float32{0.01, 0.02}, u.Texel)
	assert.Equal(t, [2]float32{0, 1}, u.Direction)
	assert.Len(t, u.Marshal(), u.Size())
}

func TestSMAAPresetByName(t *testing.T) {
	t.Parallel()

	p, ok := SMAAPresetByName("medium")
	assert.True(t, ok)
	assert.Equal(t, 8, p.MaxSearchSteps)
	assert.True(t, p.Enabled())
	assert.False(t, SMAAPresetOff.Enabled())

	_, ok = SMAAPresetByName("ultra")
	assert.False(t, ok)

	u := p.uniform(100, 50)
	assert.Equal(t, [4]float32{0.01, 0.02, 100, 50}, u.RTMetrics)
}
