package animator

import (
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
)

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	label string
	fog   FogView

	time        float64
	speedFactor float64
	rangeLength float64

	translation common.Vec3
	fade        [2]float32
	fadeEnabled bool
	tint        common.Vec3
	seedWeight  float32

	// dirty marks uniform contents that have not been staged since the last change.
	dirty bool

	provider bind_group_provider.BindGroupProvider
}

// Animator owns the private motion uniform of one scene object.
//
// Every vertex of the object carries a seed r in [0, 1). The vertex stage offsets the vertex along the
// road by a looping track position derived from the animator's time, speed factor and range, so each
// element travels at the same speed but out of phase with its neighbours. The time dependent part is
// folded on the CPU in float64 before upload.
//
// Animators read the shared fog through a FogView; they never write it.
type Animator interface {
	// Label returns the debug label.
	Label() string

	// SetTime sets the simulation time and marks the uniform for upload.
	//
	// Parameters:
	//   - t: simulation time in seconds
	SetTime(t float64)

	// Time returns the last simulation time set.
	Time() float64

	// SpeedFactor returns the signed track speed in world units per second.
	SpeedFactor() float64

	// Range returns the loop length.
	Range() float64

	// Offset returns the track position of an element with seed r at the current time.
	// The result lies in [-Range()/2, Range()/2).
	//
	// Parameters:
	//   - r: the element seed in [0, 1)
	//
	// Returns:
	//   - float64: the wrapped offset
	Offset(r float64) float64

	// Uniform returns the GPU contents of the motion uniform.
	//
	// Returns:
	//   - GPUMotionUniform: the uniform at the current time
	Uniform() GPUMotionUniform

	// Writes stages the motion uniform for upload if it changed since the last call.
	//
	// Returns:
	//   - []bind_group_provider.BufferWrite: zero or one write to binding 0
	Writes() []bind_group_provider.BufferWrite

	// Provider returns the bind group provider that holds the motion uniform buffer.
	Provider() bind_group_provider.BindGroupProvider

	// Fog returns the shared fog this animator renders with.
	Fog() FogView

	// Release frees the motion uniform's GPU resources. The shared fog is left alone.
	Release()
}

var _ Animator = &animator{}

// NewAnimator creates an animator with a unit range, no motion, no fade and a white tint.
//
// Parameters:
//   - label: debug label for GPU objects
//   - fog: the shared fog, read only
//   - options: builder options
//
// Returns:
//   - Animator: the animator
func NewAnimator(label string, fog FogView, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:          &sync.Mutex{},
		label:       label,
		fog:         fog,
		rangeLength: 1,
		tint:        common.Vec3{1, 1, 1},
		dirty:       true,
		provider:    bind_group_provider.NewBindGroupProvider(label + " motion"),
	}
	for _, opt := range options {
		opt(a)
	}
	if a.rangeLength <= 0 {
		a.rangeLength = 1
	}
	return a
}

func (a *animator) Label() string {
	return a.label
}

func (a *animator) SetTime(t float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.time == t {
		return
	}
	a.time = t
	a.dirty = true
}

func (a *animator) Time() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.time
}

func (a *animator) SpeedFactor() float64 {
	return a.speedFactor
}

func (a *animator) Range() float64 {
	return a.rangeLength
}

func (a *animator) Offset(r float64) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return common.WrapOffset(a.time, r, a.speedFactor, a.rangeLength)
}

func (a *animator) Uniform() GPUMotionUniform {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uniform()
}

func (a *animator) Writes() []bind_group_provider.BufferWrite {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.dirty {
		return nil
	}
	a.dirty = false
	u := a.uniform()
	return []bind_group_provider.BufferWrite{{
		Provider: a.provider,
		Binding:  0,
		Data:     u.Marshal(),
	}}
}

func (a *animator) Provider() bind_group_provider.BindGroupProvider {
	return a.provider
}

func (a *animator) Fog() FogView {
	return a.fog
}

func (a *animator) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.provider.Release()
	// A re-initialized provider starts with an empty buffer.
	a.dirty = true
}

// uniform builds the GPU contents. Caller must hold the mutex.
func (a *animator) uniform() GPUMotionUniform {
	u := GPUMotionUniform{
		Translation: a.translation,
		Phase:       float32(common.Mod(a.time*a.speedFactor, a.rangeLength)),
		Fade:        a.fade,
		Range:       float32(a.rangeLength),
		Tint:        a.tint,
		SeedWeight:  a.seedWeight,
	}
	if a.fadeEnabled {
		u.FadeEnabled = 1
	}
	return u
}
