package camera

import (
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60.0

func newTestController(t *testing.T, options ...SpeedControllerOption) (SpeedController, Camera, *config.EffectConfig) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Distortion = ""
	cam := NewCamera(WithFov(cfg.Fov))
	sc, err := NewSpeedController(cam, cfg, options...)
	require.NoError(t, err)
	return sc, cam, cfg
}

func TestSpeedEasingConvergesWithoutOvershoot(t *testing.T) {
	t.Parallel()

	sc, _, cfg := newTestController(t)
	sc.SpeedUp(common.InputEvent{Kind: common.InputPointerDown})

	prev := 0.0
	steps := 0
	for ; steps < 500; steps++ {
		sc.Update(frame, float64(steps)*frame)
		speed := sc.Motion().Speed
		require.GreaterOrEqual(t, speed, prev, "speed decreased at step %d", steps)
		require.LessOrEqual(t, speed, cfg.SpeedUp, "speed overshot at step %d", steps)
		prev = speed
		if speed == cfg.SpeedUp {
			break
		}
	}
	assert.Equal(t, cfg.SpeedUp, sc.Motion().Speed)
	assert.Less(t, steps, 100)

	sc.SlowDown(common.InputEvent{Kind: common.InputPointerUp})
	for steps = 0; steps < 500 && sc.Motion().Speed != 0; steps++ {
		before := sc.Motion().Speed
		sc.Update(frame, 0)
		require.LessOrEqual(t, sc.Motion().Speed, before)
		require.GreaterOrEqual(t, sc.Motion().Speed, 0.0)
	}
	assert.Equal(t, 0.0, sc.Motion().Speed)
}

func TestFovTargets(t *testing.T) {
	t.Parallel()

	sc, cam, cfg := newTestController(t)
	assert.Equal(t, cfg.Fov, sc.Motion().TargetFov)
	assert.Equal(t, cfg.Fov, cam.Fov())

	sc.SpeedUp(common.InputEvent{Kind: common.InputPointerDown})
	assert.Equal(t, cfg.FovSpeedUp, sc.Motion().TargetFov)
	assert.Equal(t, StateBoosted, sc.State())

	for i := range 240 {
		sc.Update(frame, float64(i)*frame)
	}
	assert.InDelta(t, cfg.FovSpeedUp, sc.Motion().Fov, 0.01)
	assert.InDelta(t, cfg.FovSpeedUp, cam.Fov(), 0.01)

	sc.SlowDown(common.InputEvent{Kind: common.InputPointerUp})
	assert.Equal(t, cfg.Fov, sc.Motion().TargetFov)
	assert.Equal(t, 0.0, sc.Motion().TargetSpeed)
	assert.Equal(t, StateIdle, sc.State())
}

func TestFovStepNeverPassesTarget(t *testing.T) {
	t.Parallel()

	sc, _, cfg := newTestController(t)
	sc.SpeedUp(common.InputEvent{})

	// A stalled frame must not carry the field of view past its target.
	sc.Update(2, 0)
	assert.LessOrEqual(t, sc.Motion().Fov, cfg.FovSpeedUp)
}

func TestUnchangedFovLeavesProjection(t *testing.T) {
	t.Parallel()

	sc, cam, _ := newTestController(t)
	before := cam.ProjectionVersion()
	for range 10 {
		sc.Update(frame, 0)
	}
	assert.Equal(t, before, cam.ProjectionVersion())
}

func TestTimeOffsetAccumulates(t *testing.T) {
	t.Parallel()

	sc, _, _ := newTestController(t)
	assert.Equal(t, 5.0, sc.Update(frame, 5))

	sc.SpeedUp(common.InputEvent{})
	var sim float64
	for i := 1; i <= 120; i++ {
		sim = sc.Update(frame, 5+float64(i)*frame)
	}
	m := sc.Motion()
	assert.Greater(t, m.TimeOffset, 0.0)
	assert.InDelta(t, 5+120*frame+m.TimeOffset, sim, 1e-9)
}

func TestHooksFireOnTransitions(t *testing.T) {
	t.Parallel()

	var ups, downs []common.InputEvent
	sc, _, _ := newTestController(t,
		WithOnSpeedUp(func(ev common.InputEvent) { ups = append(ups, ev) }),
		WithOnSlowDown(func(ev common.InputEvent) { downs = append(downs, ev) }),
	)

	sc.HandleInput(common.InputEvent{Kind: common.InputPointerDown, X: 3, Y: 4})
	sc.HandleInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeySpace})
	sc.HandleInput(common.InputEvent{Kind: common.InputPointerLeave})
	sc.HandleInput(common.InputEvent{Kind: common.InputPointerUp})
	sc.HandleInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeyM})

	require.Len(t, ups, 1)
	assert.Equal(t, 3.0, ups[0].X)
	require.Len(t, downs, 1)
	assert.Equal(t, common.InputPointerLeave, downs[0].Kind)
	assert.Equal(t, StateIdle, sc.State())
}

func TestDistortionRetargetsCamera(t *testing.T) {
	t.Parallel()

	sc, cam, _ := newTestController(t, WithDistortion(XY))
	sim := sc.Update(frame, 1.5)

	want := cam.Controller().Position().Add(XY.LookOffset(DistortionStrength, sim))
	assert.Equal(t, want, cam.Controller().Target())
}

func TestUnknownDistortionFails(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Distortion = "wobble"
	_, err := NewSpeedController(NewCamera(), cfg)
	assert.Error(t, err)
}
