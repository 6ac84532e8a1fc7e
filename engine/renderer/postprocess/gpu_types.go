package postprocess

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
)

// GPUBloomUniformSource is the canonical WGSL definition of BloomUniform (32 bytes).
//
//go:embed assets/bloom_uniform.wgsl
var GPUBloomUniformSource string

// GPUSMAAUniformSource is the canonical WGSL definition of SMAAUniform (32 bytes).
//
//go:embed assets/smaa_uniform.wgsl
var GPUSMAAUniformSource string

const (
	BloomStructName = "bloom"
	SMAAStructName  = "smaa"
)

func init() {
	shader.RegisterStruct(BloomStructName, "BloomUniform", GPUBloomUniformSource)
	shader.RegisterStruct(SMAAStructName, "SMAAUniform", GPUSMAAUniformSource)
}

// GPUBloomUniform parameterizes one bloom pass. Passes that do not need a field leave it zero.
type GPUBloomUniform struct {
	Texel     [2]float32 // offset  0: 1/width, 1/height of the pass source
	Direction [2]float32 // offset  8: blur axis, (1,0) or (0,1)
	Threshold float32    // offset 16
	Smoothing float32    // offset 20
	Intensity float32    // offset 24
	_pad      float32    // offset 28
}

// Size returns the size of the GPUBloomUniform struct in bytes.
func (g *GPUBloomUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUBloomUniform struct into a byte buffer suitable for GPU upload.
func (g *GPUBloomUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	put(0, g.Texel[0])
	put(4, g.Texel[1])
	put(8, g.Direction[0])
	put(12, g.Direction[1])
	put(16, g.Threshold)
	put(20, g.Smoothing)
	put(24, g.Intensity)
	return buf
}

// GPUSMAAUniform is shared by the three SMAA passes.
type GPUSMAAUniform struct {
	RTMetrics      [4]float32 // offset  0: 1/width, 1/height, width, height
	Threshold      float32    // offset 16: luma edge threshold
	MaxSearchSteps float32    // offset 20: two-pixel steps per orthogonal search
	ContrastFactor float32    // offset 24: local contrast adaptation
	_pad           float32    // offset 28
}

// Size returns the size of the GPUSMAAUniform struct in bytes.
func (g *GPUSMAAUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUSMAAUniform struct into a byte buffer suitable for GPU upload.
func (g *GPUSMAAUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.RTMetrics[i]))
	}
	binary.LittleEndian.PutUint32(buf[16:], math.Float32bits(g.Threshold))
	binary.LittleEndian.PutUint32(buf[20:], math.Float32bits(g.MaxSearchSteps))
	binary.LittleEndian.PutUint32(buf[24:], math.Float32bits(g.ContrastFactor))
	return buf
}
