package scene

import (
	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithSeed makes the generated geometry reproducible.
//
// Parameters:
//   - seed: the seed of the scene's random stream
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSeed(seed uint64) SceneBuilderOption {
	return func(s *scene) {
		s.rng = common.NewRand(seed)
	}
}

// WithRand injects the random stream the per-object streams are drawn from.
func WithRand(rng *common.Rand) SceneBuilderOption {
	return func(s *scene) {
		s.rng = rng
	}
}

// WithCamera replaces the default camera.
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithFog replaces the default fog, which uses the background color and spans the road length.
func WithFog(fog *animator.Fog) SceneBuilderOption {
	return func(s *scene) {
		s.fog = fog
	}
}

// WithWorkers sets the number of goroutines used to generate meshes. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.workers = max(n, 1)
	}
}
