package animator

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
)

// GPUMotionUniformSource is the canonical WGSL definition of the MotionUniform struct.
// Matches GPUMotionUniform layout exactly (48 bytes).
//
//go:embed assets/motion_uniform.wgsl
var GPUMotionUniformSource string

// GPUFogUniformSource is the canonical WGSL definition of the FogUniform struct.
// Matches GPUFogUniform layout exactly (32 bytes).
//
//go:embed assets/fog_uniform.wgsl
var GPUFogUniformSource string

const (
	// MotionStructName is the name shaders use to include or bind the motion uniform.
	MotionStructName = "motion"
	// FogStructName is the name shaders use to include or bind the fog uniform.
	FogStructName = "fog"
)

func init() {
	shader.RegisterStruct(MotionStructName, "MotionUniform", GPUMotionUniformSource)
	shader.RegisterStruct(FogStructName, "FogUniform", GPUFogUniformSource)
}

// GPUMotionUniform is the per-object motion state read by the vertex and fragment stages.
// Size: 48 bytes.
type GPUMotionUniform struct {
	Translation [3]float32 // offset  0: mesh translation (vec3<f32>)
	Phase       float32    // offset 12: time*speed folded into [0, range)
	Fade        [2]float32 // offset 16: smoothstep edges along the streak (vec2<f32>)
	Range       float32    // offset 24: loop length
	FadeEnabled float32    // offset 28: 1 applies the along fade, 0 skips it
	Tint        [3]float32 // offset 32: color multiplier (vec3<f32>)
	SeedWeight  float32    // offset 44: how strongly the vertex seed dims the color, 0 to 1
}

// Size returns the size of the GPUMotionUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPUMotionUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMotionUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPUMotionUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i := range 3 {
		put(i*4, g.Translation[i])
		put(32+i*4, g.Tint[i])
	}
	put(12, g.Phase)
	put(16, g.Fade[0])
	put(20, g.Fade[1])
	put(24, g.Range)
	put(28, g.FadeEnabled)
	put(44, g.SeedWeight)
	return buf
}

// GPUFogUniform is the shared linear fog state. Size: 32 bytes.
type GPUFogUniform struct {
	Color [3]float32 // offset  0: fog color (vec3<f32>)
	Near  float32    // offset 12: depth where fog starts
	Far   float32    // offset 16: depth where fog is opaque
	_pad  [3]float32 // offset 20: padding to 32 bytes
}

// Size returns the size of the GPUFogUniform struct in bytes.
func (g *GPUFogUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUFogUniform struct into a byte buffer suitable for GPU upload.
func (g *GPUFogUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Color[i]))
	}
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(g.Near))
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Far))
	return buf
}
