package camera

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
)

const (
	// speedSnap is the step size below which speed lands on its target.
	speedSnap = 0.00001
	// fovSnap is the step size below which the field of view lands on its target.
	fovSnap = 0.001
	// fovResponse scales the field of view step by the frame delta.
	fovResponse = 6
)

// SpeedState is the state of the boost state machine.
type SpeedState int

const (
	// StateIdle eases toward zero extra speed and the base field of view.
	StateIdle SpeedState = iota
	// StateBoosted eases toward the boost speed and the wide field of view.
	StateBoosted
)

func (s SpeedState) String() string {
	if s == StateBoosted {
		return "boosted"
	}
	return "idle"
}

// MotionState is the eased motion of the viewer.
type MotionState struct {
	Fov         float64
	TargetFov   float64
	Speed       float64
	TargetSpeed float64
	// TimeOffset is the extra simulation time accumulated while boosting.
	TimeOffset float64
}

// SpeedController turns press and release input into eased speed and field of view changes.
// It is driven from a single goroutine: input is replayed and Update is called by the render loop.
type SpeedController interface {
	// SpeedUp enters the boosted state and fires the speed up hook on the transition.
	//
	// Parameters:
	//   - ev: the input that triggered the boost
	SpeedUp(ev common.InputEvent)

	// SlowDown returns to idle and fires the slow down hook on the transition.
	//
	// Parameters:
	//   - ev: the input that ended the boost
	SlowDown(ev common.InputEvent)

	// HandleInput maps a raw input event onto SpeedUp or SlowDown.
	// Pointer down and space down boost; pointer up, pointer leave and space up release.
	//
	// Parameters:
	//   - ev: the input event
	HandleInput(ev common.InputEvent)

	// State returns the current state.
	State() SpeedState

	// Motion returns a copy of the eased motion.
	Motion() MotionState

	// Distortion returns the configured look distortion, or nil.
	Distortion() Distortion

	// Update advances the easing by one frame and returns the simulation time to animate with.
	//
	// Parameters:
	//   - delta: seconds since the previous frame
	//   - elapsed: seconds since the clock started
	//
	// Returns:
	//   - float64: elapsed plus the accumulated time offset
	Update(delta, elapsed float64) float64
}

type speedControllerImpl struct {
	mu *sync.Mutex

	camera     Camera
	distortion Distortion

	baseFov    float64
	boostFov   float64
	boostSpeed float64
	k          float64

	state  SpeedState
	motion MotionState

	onSpeedUp  func(ev common.InputEvent)
	onSlowDown func(ev common.InputEvent)
}

var _ SpeedController = &speedControllerImpl{}

// NewSpeedController creates a controller in the idle state driving cam.
// The distortion preset named by cfg is resolved here; WithDistortion overrides it.
//
// Parameters:
//   - cam: the camera whose field of view and look-at point are driven
//   - cfg: the validated effect config
//   - options: functional options
//
// Returns:
//   - SpeedController: the controller
//   - error: an unknown distortion name
func NewSpeedController(cam Camera, cfg *config.EffectConfig, options ...SpeedControllerOption) (SpeedController, error) {
	d, err := DistortionByName(cfg.Distortion)
	if err != nil {
		return nil, fmt.Errorf("failed to create speed controller: %w", err)
	}
	sc := &speedControllerImpl{
		mu:         &sync.Mutex{},
		camera:     cam,
		distortion: d,
		baseFov:    cfg.Fov,
		boostFov:   cfg.FovSpeedUp,
		boostSpeed: cfg.SpeedUp,
		k:          cfg.ReferenceFrameRate,
		state:      StateIdle,
		motion: MotionState{
			Fov:       cfg.Fov,
			TargetFov: cfg.Fov,
		},
	}
	for _, opt := range options {
		opt(sc)
	}
	if sc.k <= 0 {
		sc.k = 60
	}
	if cam != nil {
		cam.SetFov(sc.motion.Fov)
	}
	return sc, nil
}

func (sc *speedControllerImpl) SpeedUp(ev common.InputEvent) {
	sc.mu.Lock()
	sc.motion.TargetFov = sc.boostFov
	sc.motion.TargetSpeed = sc.boostSpeed
	changed := sc.state != StateBoosted
	sc.state = StateBoosted
	hook := sc.onSpeedUp
	sc.mu.Unlock()

	if changed && hook != nil {
		hook(ev)
	}
}

func (sc *speedControllerImpl) SlowDown(ev common.InputEvent) {
	sc.mu.Lock()
	sc.motion.TargetFov = sc.baseFov
	sc.motion.TargetSpeed = 0
	changed := sc.state != StateIdle
	sc.state = StateIdle
	hook := sc.onSlowDown
	sc.mu.Unlock()

	if changed && hook != nil {
		hook(ev)
	}
}

func (sc *speedControllerImpl) HandleInput(ev common.InputEvent) {
	switch ev.Kind {
	case common.InputPointerDown:
		sc.SpeedUp(ev)
	case common.InputPointerUp, common.InputPointerLeave:
		sc.SlowDown(ev)
	case common.InputKeyDown:
		if ev.Key == common.KeySpace {
			sc.SpeedUp(ev)
		}
	case common.InputKeyUp:
		if ev.Key == common.KeySpace {
			sc.SlowDown(ev)
		}
	}
}

func (sc *speedControllerImpl) State() SpeedState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.state
}

func (sc *speedControllerImpl) Motion() MotionState {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.motion
}

func (sc *speedControllerImpl) Distortion() Distortion {
	return sc.distortion
}

func (sc *speedControllerImpl) Update(delta, elapsed float64) float64 {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	p := common.EaseRate(sc.k, delta)
	m := &sc.motion

	m.Speed += common.Lerp(m.Speed, m.TargetSpeed, p, speedSnap)
	m.TimeOffset += m.Speed * delta
	simTime := elapsed + m.TimeOffset

	if change := common.Lerp(m.Fov, m.TargetFov, p, fovSnap); change != 0 {
		// A step factor above one would carry the field of view past its target on long frames.
		m.Fov += change * min(delta*fovResponse, 1)
		if sc.camera != nil {
			sc.camera.SetFov(m.Fov)
		}
	}

	if sc.distortion != nil && sc.camera != nil {
		if ctrl := sc.camera.Controller(); ctrl != nil {
			ctrl.LookToward(sc.distortion.LookOffset(DistortionStrength, simTime))
		}
	}
	return simTime
}
