package animator

import (
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
)

const (
	// FogNearFactor and FogFarFactor place the fog planes relative to the road length.
	FogNearFactor = 0.2
	FogFarFactor  = 500
)

// FogView is the read-only face of the shared fog handed to animators.
type FogView interface {
	// Color returns the fog color.
	Color() common.Color

	// Near returns the view depth where fog begins.
	Near() float64

	// Far returns the view depth where fog is opaque.
	Far() float64

	// Factor returns the visibility of a fragment at depth, 1 for clear and 0 for fully fogged.
	Factor(depth float64) float64

	// Provider returns the bind group provider holding the fog uniform.
	Provider() bind_group_provider.BindGroupProvider
}

// Fog is the single fog uniform shared by every scene object. The render loop owns it.
type Fog struct {
	mu *sync.Mutex

	color     common.Color
	near, far float64
	dirty     bool

	provider bind_group_provider.BindGroupProvider
}

var _ FogView = &Fog{}

// NewFog creates the fog for a road of the given length.
//
// Parameters:
//   - color: the fog color, normally the background
//   - length: the road length
//
// Returns:
//   - *Fog: the fog
func NewFog(color common.Color, length float64) *Fog {
	return &Fog{
		mu:       &sync.Mutex{},
		color:    color,
		near:     length * FogNearFactor,
		far:      length * FogFarFactor,
		dirty:    true,
		provider: bind_group_provider.NewBindGroupProvider("fog"),
	}
}

func (f *Fog) Color() common.Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.color
}

func (f *Fog) Near() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.near
}

func (f *Fog) Far() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.far
}

func (f *Fog) Factor(depth float64) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return common.FogFactor(depth, f.near, f.far)
}

func (f *Fog) Provider() bind_group_provider.BindGroupProvider {
	return f.provider
}

// Set replaces the fog parameters and marks the uniform for upload.
func (f *Fog) Set(color common.Color, near, far float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.color, f.near, f.far = color, near, far
	f.dirty = true
}

// Uniform returns the GPU contents of the fog uniform.
func (f *Fog) Uniform() GPUFogUniform {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.uniform()
}

// Writes stages the fog uniform for upload if it changed since the last call.
func (f *Fog) Writes() []bind_group_provider.BufferWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}
	f.dirty = false
	u := f.uniform()
	return []bind_group_provider.BufferWrite{{Provider: f.provider, Binding: 0, Data: u.Marshal()}}
}

// Release frees the fog uniform's GPU resources.
func (f *Fog) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.provider.Release()
	f.dirty = true
}

func (f *Fog) uniform() GPUFogUniform {
	return GPUFogUniform{
		Color: f.color.RGB(),
		Near:  float32(f.near),
		Far:   float32(f.far),
	}
}
