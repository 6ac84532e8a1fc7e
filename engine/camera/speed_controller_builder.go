package camera

import "github.com/Carmen-Shannon/hyperspeed/common"

// SpeedControllerOption configures a SpeedController during NewSpeedController.
type SpeedControllerOption func(*speedControllerImpl)

// WithOnSpeedUp registers a hook fired when the controller enters the boosted state.
func WithOnSpeedUp(hook func(ev common.InputEvent)) SpeedControllerOption {
	return func(sc *speedControllerImpl) {
		sc.onSpeedUp = hook
	}
}

// WithOnSlowDown registers a hook fired when the controller returns to idle.
func WithOnSlowDown(hook func(ev common.InputEvent)) SpeedControllerOption {
	return func(sc *speedControllerImpl) {
		sc.onSlowDown = hook
	}
}

// WithDistortion replaces the configured distortion. Nil disables it.
func WithDistortion(d Distortion) SpeedControllerOption {
	return func(sc *speedControllerImpl) {
		sc.distortion = d
	}
}

// WithReferenceFrameRate overrides the easing constant taken from the config.
func WithReferenceFrameRate(k float64) SpeedControllerOption {
	return func(sc *speedControllerImpl) {
		sc.k = k
	}
}
