package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
)

// cameraCount is an atomic counter used to generate unique bind group provider names for each camera instance.
var cameraCount atomic.Uint64

const (
	// DefaultNear and DefaultFar bound the depth range. The far plane reaches well past the fog so nothing pops.
	DefaultNear = 0.1
	DefaultFar  = 10000
	// DefaultFov is the vertical field of view in degrees used when none is configured.
	DefaultFov = 90
)

type cameraImpl struct {
	mu *sync.Mutex

	up common.Vec3

	fov    float64 // degrees
	aspect float32
	near   float32
	far    float32

	viewMatrix           [16]float32
	projectionMatrix     [16]float32
	viewProjectionMatrix [16]float32

	// projectionVersion counts projection rebuilds so callers can observe that nothing changed.
	projectionVersion uint64

	controller        CameraController
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Camera holds the perspective settings of the effect and computes view/projection matrices
// from its CameraController each frame via Update().
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float64: field of view in degrees
	Fov() float64

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// ViewMatrix returns the current 4x4 view matrix as 16 floats (column-major).
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the current 4x4 projection matrix as 16 floats (column-major).
	ProjectionMatrix() [16]float32

	// ViewProjectionMatrix returns the current combined view-projection matrix as 16 floats (column-major).
	ViewProjectionMatrix() [16]float32

	// ProjectionVersion returns how many times the projection has been rebuilt.
	//
	// Returns:
	//   - uint64: the rebuild count
	ProjectionVersion() uint64

	// SetFov sets the field of view and rebuilds the projection. Setting the current value does nothing.
	//
	// Parameters:
	//   - fov: field of view in degrees
	//
	// Returns:
	//   - bool: true if the projection was rebuilt
	SetFov(fov float64) bool

	// SetAspect sets the aspect ratio and rebuilds the projection. Setting the current value does nothing.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - bool: true if the projection was rebuilt
	SetAspect(aspect float32) bool

	// Controller returns the attached CameraController, or nil.
	Controller() CameraController

	// SetController attaches a CameraController to the camera.
	SetController(ctrl CameraController)

	// Update reads position and target from the controller and recomputes the view matrices.
	// If no controller is attached, this method does nothing.
	Update()

	// Uniform returns the GPU representation of the camera's current state.
	//
	// Returns:
	//   - GPUCameraUniform: the uniform contents
	Uniform() GPUCameraUniform

	// BindGroupProvider returns the camera's bind group provider for GPU resources.
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Writes returns the buffer upload that brings the GPU uniform in line with Uniform().
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: a single write to binding 0
	Writes() []bind_group_provider.BufferWrite

	// Release frees the camera's GPU resources.
	Release()
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the effect's perspective defaults and a fixed rig controller.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     common.Vec3{0, 1, 0},
		fov:    DefaultFov,
		aspect: 1,
		near:   DefaultNear,
		far:    DefaultFar,
		bindGroupProvider: bind_group_provider.NewBindGroupProvider(
			"camera_" + strconv.FormatUint(cameraCount.Load(), 10),
		),
	}
	common.Identity(c.viewMatrix[:])
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateProjection()
	c.updateView()
	cameraCount.Add(1)
	return c
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) ProjectionVersion() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionVersion
}

func (c *cameraImpl) SetFov(fov float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fov == fov {
		return false
	}
	c.fov = fov
	c.updateProjection()
	return true
}

func (c *cameraImpl) SetAspect(aspect float32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aspect == aspect || aspect <= 0 {
		return false
	}
	c.aspect = aspect
	c.updateProjection()
	return true
}

func (c *cameraImpl) Controller() CameraController {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.controller
}

func (c *cameraImpl) SetController(ctrl CameraController) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.controller = ctrl
	c.updateView()
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateView()
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := GPUCameraUniform{
		ViewProj: c.viewProjectionMatrix,
		View:     c.viewMatrix,
	}
	if c.controller != nil {
		u.CameraPosition = c.controller.Position()
	}
	return u
}

func (c *cameraImpl) BindGroupProvider() bind_group_provider.BindGroupProvider {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bindGroupProvider
}

func (c *cameraImpl) Writes() []bind_group_provider.BufferWrite {
	u := c.Uniform()
	return []bind_group_provider.BufferWrite{{
		Provider: c.BindGroupProvider(),
		Binding:  0,
		Data:     u.Marshal(),
	}}
}

func (c *cameraImpl) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bindGroupProvider != nil {
		c.bindGroupProvider.Release()
	}
}

// updateProjection rebuilds the projection and the combined matrix. Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	common.Perspective(c.projectionMatrix[:], float32(common.DegToRad(c.fov)), c.aspect, c.near, c.far)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
	c.projectionVersion++
}

// updateView rebuilds the view and the combined matrix from the controller. Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	if c.controller == nil {
		return
	}
	common.LookAt(c.viewMatrix[:], c.controller.Position(), c.controller.Target(), c.up)
	common.Mul4(c.viewProjectionMatrix[:], c.projectionMatrix[:], c.viewMatrix[:])
}
