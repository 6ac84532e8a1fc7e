package postprocess

import "github.com/Carmen-Shannon/hyperspeed/common"

// BloomSettings controls the glow around bright streaks.
type BloomSettings struct {
	// Threshold is the luminance above which a pixel contributes to the glow.
	Threshold float64
	// Smoothing widens the threshold into a soft knee. Zero is a hard cut.
	Smoothing float64
	// ResolutionScale sizes the blur targets relative to the frame, in (0, 1].
	ResolutionScale float64
	// Intensity scales the glow before it is screened over the scene.
	Intensity float64
}

// DefaultBloomSettings is a full resolution glow over everything brighter than 0.2.
func DefaultBloomSettings() BloomSettings {
	return BloomSettings{Threshold: 0.2, Smoothing: 0, ResolutionScale: 1, Intensity: 1}
}

func (b BloomSettings) normalized() BloomSettings {
	if b.ResolutionScale <= 0 || b.ResolutionScale > 1 {
		b.ResolutionScale = 1
	}
	b.Smoothing = max(b.Smoothing, 0)
	b.Intensity = max(b.Intensity, 0)
	return b
}

// Size returns the size of the blur targets for a frame of width x height. Neither side drops below one pixel.
func (b BloomSettings) Size(width, height int) (int, int) {
	scale := b.normalized().ResolutionScale
	return max(1, int(float64(width)*scale)), max(1, int(float64(height)*scale))
}

// brightUniform samples the full resolution scene.
func (b BloomSettings) brightUniform(width, height int) GPUBloomUniform {
	return GPUBloomUniform{
		Texel:     texel(width, height),
		Threshold: float32(b.Threshold),
		Smoothing: float32(b.Smoothing),
	}
}

// blurUniform samples a blur target along one axis.
func (b BloomSettings) blurUniform(width, height int, vertical bool) GPUBloomUniform {
	bw, bh := b.Size(width, height)
	dir := [2]float32{1, 0}
	if vertical {
		dir = [2]float32{0, 1}
	}
	return GPUBloomUniform{Texel: texel(bw, bh), Direction: dir}
}

func (b BloomSettings) compositeUniform(width, height int) GPUBloomUniform {
	return GPUBloomUniform{Texel: texel(width, height), Intensity: float32(b.Intensity)}
}

// ScreenBlend is the CPU mirror of the composite: 1-(1-base)(1-glow*intensity), per channel, on clamped inputs.
func ScreenBlend(base, glow, intensity float64) float64 {
	a := common.Clamp(base, 0, 1)
	g := common.Clamp(glow*intensity, 0, 1)
	return 1 - (1-a)*(1-g)
}

// BrightMask is the CPU mirror of the bright pass mask for a pixel of the given luminance.
func BrightMask(luma, threshold, smoothing float64) float64 {
	if smoothing <= 0 {
		if luma >= threshold {
			return 1
		}
		return 0
	}
	return common.Smoothstep(threshold, threshold+smoothing, luma)
}

// Luminance weights linear RGB by the Rec. 709 coefficients.
func Luminance(rgb common.Vec3) float64 {
	return 0.2126*float64(rgb[0]) + 0.7152*float64(rgb[1]) + 0.0722*float64(rgb[2])
}

func texel(width, height int) [2]float32 {
	return [2]float32{1 / float32(max(width, 1)), 1 / float32(max(height, 1))}
}
