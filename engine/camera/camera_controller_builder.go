package camera

import "github.com/Carmen-Shannon/hyperspeed/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition places the rig. The target moves with it so the look direction is kept.
//
// Parameters:
//   - p: world-space position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(p common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		direction := cc.target.Sub(cc.position)
		cc.position = p
		cc.target = p.Add(direction)
	}
}

// WithTarget sets the initial look-at point.
//
// Parameters:
//   - t: world-space target
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithTarget(t common.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}
