package camera

import (
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
)

var (
	// DefaultPosition is where the rig sits: above the island, a few units behind the origin.
	DefaultPosition = common.Vec3{0, 8, -5}
	// DefaultDirection is the undistorted look direction, straight down the road.
	DefaultDirection = common.Vec3{0, 0, -1}
)

type cameraControllerImpl struct {
	mu *sync.Mutex

	position common.Vec3
	target   common.Vec3

	initialPosition common.Vec3
	initialTarget   common.Vec3
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates the fixed rig at DefaultPosition looking along DefaultDirection.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: DefaultPosition,
		target:   DefaultPosition.Add(DefaultDirection),
	}
	for _, option := range options {
		option(cc)
	}
	cc.initialPosition = cc.position
	cc.initialTarget = cc.target
	return cc
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetPosition(p common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	direction := cc.target.Sub(cc.position)
	cc.position = p
	cc.target = p.Add(direction)
}

func (cc *cameraControllerImpl) SetTarget(t common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
}

func (cc *cameraControllerImpl) LookToward(direction common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = cc.position.Add(direction)
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = cc.initialPosition
	cc.target = cc.initialTarget
}
