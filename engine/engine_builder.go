package engine

import (
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled.Store(enabled)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameLimit(fps)
	}
}

// WithChain replaces the default post chain.
func WithChain(c postprocess.Chain) EngineBuilderOption {
	return func(e *engine) {
		e.chain = c
	}
}

// WithController replaces the default speed controller, for example to attach speed up and slow down hooks.
func WithController(c camera.SpeedController) EngineBuilderOption {
	return func(e *engine) {
		e.controller = c
	}
}

// WithClock replaces the wall clock.
func WithClock(c Clock) EngineBuilderOption {
	return func(e *engine) {
		e.clock = c
	}
}

// WithFrameCallback registers a function called on the render goroutine after every frame's update.
//
// Parameters:
//   - callback: receives the simulation time the scene was advanced to
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameCallback(callback func(simTime float64)) EngineBuilderOption {
	return func(e *engine) {
		e.onFrame = callback
	}
}
