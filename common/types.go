// package common holds the plain value types and math helpers shared by every package in the effect.
// Nothing here is interface-wrapped and nothing here touches the GPU directly.
package common

import "github.com/cogentcore/webgpu/wgpu"

// TextureStagingData holds pixel data for a texture binding waiting to be uploaded.
// The bind group provider turns it into a GPU texture the first time the bind group is built.
type TextureStagingData struct {
	// Pixels is the tightly packed, row-major pixel data.
	Pixels []byte
	// Width is the texture width in pixels.
	Width uint32
	// Height is the texture height in pixels.
	Height uint32
	// Format is the texel format. The zero value means RGBA8UnormSrgb.
	Format wgpu.TextureFormat
}

// BytesPerPixel reports the stride of a single texel of the staging data's format.
func (t *TextureStagingData) BytesPerPixel() uint32 {
	switch t.Format {
	case wgpu.TextureFormatR8Unorm:
		return 1
	case wgpu.TextureFormatRG8Unorm:
		return 2
	default:
		return 4
	}
}

// SamplerStagingData describes a sampler binding waiting to be created.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW control sampling outside [0, 1].
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter control filtering when magnifying or minifying.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter selects between mip levels.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the level of detail.
	LodMinClamp, LodMaxClamp float32
	// MaxAnisotropy is the anisotropic filtering limit.
	MaxAnisotropy uint16
}

// LinearClampSampler is the sampler used by every fullscreen pass.
func LinearClampSampler() *SamplerStagingData {
	return &SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		MipmapFilter: wgpu.MipmapFilterModeNearest,
		LodMaxClamp:  32,
	}
}

// Coalesce picks the first of values that is not the zero value. Staging data leaves fields zero to mean
// "use the default", so the backend reads every field as Coalesce(field, default).
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
