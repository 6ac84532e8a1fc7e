package camera

import (
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	t.Parallel()

	c := NewCamera()
	assert.Equal(t, float64(DefaultFov), c.Fov())
	assert.Equal(t, float32(DefaultNear), c.Near())
	assert.Equal(t, float32(DefaultFar), c.Far())

	ctrl := c.Controller()
	require.NotNil(t, ctrl)
	assert.Equal(t, common.Vec3{0, 8, -5}, ctrl.Position())
	assert.Equal(t, common.Vec3{0, 8, -6}, ctrl.Target())

	// The target sits one unit straight ahead in view space.
	view := c.ViewMatrix()
	p, w := common.TransformPoint(view[:], ctrl.Target())
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, -1, p[2], 1e-5)
	assert.Equal(t, float32(1), w)
}

func TestSetFovUnchangedIsNoop(t *testing.T) {
	t.Parallel()

	c := NewCamera(WithFov(90))
	before := c.ProjectionVersion()
	proj := c.ProjectionMatrix()

	assert.False(t, c.SetFov(90))
	assert.Equal(t, before, c.ProjectionVersion())
	assert.Equal(t, proj, c.ProjectionMatrix())

	assert.True(t, c.SetFov(120))
	assert.Equal(t, before+1, c.ProjectionVersion())
	assert.NotEqual(t, proj, c.ProjectionMatrix())
}

func TestSetAspect(t *testing.T) {
	t.Parallel()

	c := NewCamera()
	before := c.ProjectionVersion()

	assert.True(t, c.SetAspect(16.0/9.0))
	assert.False(t, c.SetAspect(16.0/9.0))
	assert.False(t, c.SetAspect(0))
	assert.Equal(t, before+1, c.ProjectionVersion())
	assert.InDelta(t, 16.0/9.0, c.Aspect(), 1e-6)
}

func TestCameraUniform(t *testing.T) {
	t.Parallel()

	c := NewCamera(WithAspect(2))
	u := c.Uniform()
	assert.Equal(t, 144, u.Size())
	assert.Len(t, u.Marshal(), 144)
	assert.Equal(t, [3]float32{0, 8, -5}, u.CameraPosition)
	assert.Equal(t, c.ViewProjectionMatrix(), u.ViewProj)

	writes := c.Writes()
	require.Len(t, writes, 1)
	assert.Equal(t, 0, writes[0].Binding)
	assert.Same(t, c.BindGroupProvider(), writes[0].Provider)
}

func TestControllerLookToward(t *testing.T) {
	t.Parallel()

	ctrl := NewCameraController()
	ctrl.LookToward(common.Vec3{1, 2, -10})
	assert.Equal(t, common.Vec3{1, 10, -15}, ctrl.Target())

	ctrl.SetPosition(common.Vec3{0, 0, 0})
	assert.Equal(t, common.Vec3{1, 2, -10}, ctrl.Target())

	ctrl.Reset()
	assert.Equal(t, DefaultPosition, ctrl.Position())
	assert.Equal(t, common.Vec3{0, 8, -6}, ctrl.Target())
}
