package animator

import (
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFogFromLength(t *testing.T) {
	t.Parallel()

	f := NewFog(0x112233, 400)
	assert.Equal(t, 80.0, f.Near())
	assert.Equal(t, 200000.0, f.Far())
	assert.Equal(t, common.Color(0x112233), f.Color())

	assert.Equal(t, 1.0, f.Factor(10))
	assert.Equal(t, 0.0, f.Factor(300000))
	assert.InDelta(t, 0.5, f.Factor((80+200000)/2.0), 1e-9)
}

func TestFogSharedReadOnly(t *testing.T) {
	t.Parallel()

	f := NewFog(0, 100)
	a := NewAnimator("streaks", f)
	b := NewAnimator("sticks", f)
	assert.Same(t, a.Fog(), b.Fog())

	f.Set(0xffffff, 1, 2)
	assert.Equal(t, 1.0, a.Fog().Near())

	// Releasing an animator leaves the shared fog intact.
	a.Release()
	assert.Equal(t, 2.0, b.Fog().Far())
}

func TestFogWrites(t *testing.T) {
	t.Parallel()

	f := NewFog(0xff0000, 100)
	w := f.Writes()
	require.Len(t, w, 1)
	assert.Len(t, w[0].Data, 32)
	assert.Empty(t, f.Writes())

	f.Set(0xff0000, 20, 50000)
	assert.Len(t, f.Writes(), 1)

	u := f.Uniform()
	assert.Equal(t, [3]float32{1, 0, 0}, u.Color)
}
