package pipeline

import (
	"maps"
	"slices"

	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineType selects how the backend builds a pipeline.
type PipelineType int

const (
	// PipelineTypeScene draws meshes into the multisampled scene target with depth testing.
	PipelineTypeScene PipelineType = iota
	// PipelineTypeFullscreen draws a single generated triangle into a single-sampled target with no depth.
	PipelineTypeFullscreen
)

// AdditiveBlend accumulates color so that overlapping lights brighten each other.
var AdditiveBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOne,
		Operation: wgpu.BlendOperationAdd,
	},
}

// AlphaBlend is regular "over" compositing.
var AlphaBlend = &wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

type pipeline struct {
	pipelineType PipelineType
	key          string

	vertexShader, fragmentShader shader.Shader

	// Filled in by the renderer backend on registration.
	renderPipeline   *wgpu.RenderPipeline
	bindGroupLayouts []*wgpu.BindGroupLayout

	depthTestEnabled  bool
	depthWriteEnabled bool
	cullMode          wgpu.CullMode
	topology          wgpu.PrimitiveTopology
	frontFace         wgpu.FrontFace
	writeMask         wgpu.ColorWriteMask
	blendState        *wgpu.BlendState
	targetFormat      wgpu.TextureFormat
}

// Pipeline describes one GPU render pipeline: its shaders, fixed-function state and, once registered,
// the created pipeline together with the bind group layouts every bind group drawn with it must use.
type Pipeline interface {
	// Type returns how the pipeline is built.
	Type() PipelineType

	// Key returns the cache key of the pipeline.
	Key() string

	// Shader returns the shader for the given stage, or nil.
	//
	// Parameters:
	//   - t: the stage
	//
	// Returns:
	//   - shader.Shader: the stage's shader
	Shader(t shader.ShaderType) shader.Shader

	// RenderPipeline returns the created GPU pipeline, or nil before registration.
	RenderPipeline() *wgpu.RenderPipeline

	// BindGroupLayout returns the layout the backend created for group, or nil.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - *wgpu.BindGroupLayout: the layout, or nil when the group is unused
	BindGroupLayout(group int) *wgpu.BindGroupLayout

	// BindGroupLayoutDescriptors merges the vertex and fragment layouts, OR-ing the visibility of bindings
	// that appear in both stages.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts keyed by group
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	DepthTestEnabled() bool
	DepthWriteEnabled() bool
	CullMode() wgpu.CullMode
	Topology() wgpu.PrimitiveTopology
	FrontFace() wgpu.FrontFace
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, or nil for opaque output.
	BlendState() *wgpu.BlendState

	// TargetFormat returns the color target format. The zero value means the surface format.
	TargetFormat() wgpu.TextureFormat

	// SetRenderPipeline stores the created pipeline and its bind group layouts.
	SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout)

	// Release frees the GPU pipeline and its layouts.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates an unregistered pipeline description.
// Scene pipelines default to depth tested, depth writing, opaque triangle lists.
// Fullscreen pipelines default to opaque output with no depth.
//
// Parameters:
//   - key: the cache key
//   - pipelineType: how the backend builds it
//   - opts: builder options
//
// Returns:
//   - Pipeline: the description
func NewPipeline(key string, pipelineType PipelineType, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineType:      pipelineType,
		key:               key,
		depthTestEnabled:  pipelineType == PipelineTypeScene,
		depthWriteEnabled: pipelineType == PipelineTypeScene,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Type() PipelineType {
	return p.pipelineType
}

func (p *pipeline) Key() string {
	return p.key
}

func (p *pipeline) Shader(t shader.ShaderType) shader.Shader {
	switch t {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BindGroupLayout(group int) *wgpu.BindGroupLayout {
	if group < 0 || group >= len(p.bindGroupLayouts) {
		return nil
	}
	return p.bindGroupLayouts[group]
}

func (p *pipeline) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	var stages []map[int]wgpu.BindGroupLayoutDescriptor
	for _, s := range []shader.Shader{p.vertexShader, p.fragmentShader} {
		if s != nil {
			stages = append(stages, s.BindGroupLayoutDescriptors())
		}
	}
	return MergeBindGroupLayouts(stages...)
}

func (p *pipeline) DepthTestEnabled() bool {
	return p.depthTestEnabled
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	return p.blendState
}

func (p *pipeline) TargetFormat() wgpu.TextureFormat {
	return p.targetFormat
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline, layouts []*wgpu.BindGroupLayout) {
	p.renderPipeline = rp
	p.bindGroupLayouts = layouts
}

func (p *pipeline) Release() {
	for i, l := range p.bindGroupLayouts {
		if l != nil {
			l.Release()
			p.bindGroupLayouts[i] = nil
		}
	}
	p.bindGroupLayouts = nil
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}

// MergeBindGroupLayouts combines per-stage layouts. A binding present in several stages keeps the first
// stage's resource description and receives the union of all visibilities.
//
// Parameters:
//   - stages: reflected layouts, one map per stage
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: merged layouts with entries sorted by binding
func MergeBindGroupLayouts(stages ...map[int]wgpu.BindGroupLayoutDescriptor) map[int]wgpu.BindGroupLayoutDescriptor {
	byGroup := make(map[int]map[uint32]wgpu.BindGroupLayoutEntry)
	for _, stage := range stages {
		for g, desc := range stage {
			if byGroup[g] == nil {
				byGroup[g] = make(map[uint32]wgpu.BindGroupLayoutEntry)
			}
			for _, e := range desc.Entries {
				if existing, ok := byGroup[g][e.Binding]; ok {
					existing.Visibility |= e.Visibility
					byGroup[g][e.Binding] = existing
					continue
				}
				byGroup[g][e.Binding] = e
			}
		}
	}

	out := make(map[int]wgpu.BindGroupLayoutDescriptor, len(byGroup))
	for g, entries := range byGroup {
		bindings := slices.Sorted(maps.Keys(entries))
		desc := wgpu.BindGroupLayoutDescriptor{Entries: make([]wgpu.BindGroupLayoutEntry, 0, len(bindings))}
		for _, b := range bindings {
			desc.Entries = append(desc.Entries, entries[b])
		}
		out[g] = desc
	}
	return out
}
