package camera

import "github.com/Carmen-Shannon/hyperspeed/common"

// CameraController owns the positional state of the camera: where it sits and what it looks at.
// The camera reads from its controller each Update and computes view/projection matrices from it.
// The effect's rig never moves; only its look-at point is retargeted by the road distortion.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - common.Vec3: world-space camera position
	Position() common.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - common.Vec3: world-space target position
	Target() common.Vec3

	// SetPosition sets the camera's world-space position and keeps the current look direction.
	//
	// Parameters:
	//   - p: world-space coordinates
	SetPosition(p common.Vec3)

	// SetTarget sets the look-at point directly.
	//
	// Parameters:
	//   - t: world-space coordinates
	SetTarget(t common.Vec3)

	// LookToward aims the camera at Position()+direction.
	//
	// Parameters:
	//   - direction: offset from the position to the new target
	LookToward(direction common.Vec3)

	// Reset restores the position and target the controller was built with.
	Reset()
}
