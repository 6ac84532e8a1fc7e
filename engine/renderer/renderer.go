package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperspeed/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	forceFallbackAdapter bool
	presentMode          PresentMode
	msaa                 MSAASampleCount
}

// Renderer is the GPU facing half of the effect. It owns the pipelines and records each frame as
// one scene pass followed by the fullscreen post-processing passes.
type Renderer interface {
	// Pipeline returns the registered pipeline for key, or nil.
	//
	// Parameters:
	//   - key: the pipeline key
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates GPU pipelines for every description not yet registered.
	//
	// Parameters:
	//   - pipelines: the descriptions
	//
	// Returns:
	//   - error: the first creation failure
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// BindGroupLayout returns the layout that bind groups for group of pipelineKey must use.
	BindGroupLayout(pipelineKey string, group int) (*wgpu.BindGroupLayout, wgpu.BindGroupLayoutDescriptor, error)

	// Resize reconfigures the surface and the scene attachments.
	Resize(width, height int)

	// Size returns the last configured surface size.
	Size() (int, int)

	// SurfaceFormat returns the swapchain format.
	SurfaceFormat() wgpu.TextureFormat

	// SetClearColor sets the color the scene clears to.
	SetClearColor(c common.Color)

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the buffers and bind group of provider for group of pipelineKey.
	// Textures and samplers must have been staged or borrowed beforehand.
	//
	// Parameters:
	//   - pipelineKey: the pipeline whose layout is used
	//   - group: the bind group index
	//   - provider: the provider to fill
	//   - bufferSizeOverrides: optional buffer sizes keyed by binding
	//
	// Returns:
	//   - error: a missing pipeline or resource error
	InitBindGroup(pipelineKey string, group int, provider bind_group_provider.BindGroupProvider, bufferSizeOverrides map[int]uint64) error

	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*RenderTarget, error)
	SetSceneTarget(view *wgpu.TextureView)

	BeginFrame() error
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
	EndScenePass()
	FullscreenPass(pipelineKey string, target *wgpu.TextureView, bindGroups []bind_group_provider.BindGroupProvider) error
	EndFrame()
	Present()

	SetPresentMode(mode PresentMode)

	// Release frees every registered pipeline and then the device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer acquires a GPU device for the window's surface and configures it at the window's size.
//
// Parameters:
//   - backendType: the graphics backend
//   - win: the window providing the surface
//   - options: builder options
//
// Returns:
//   - Renderer: the ready renderer
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
		msaa:          MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, r.msaa)
	}
	r.backend.SetPresentMode(r.presentMode)

	w, h := win.FramebufferSize()
	r.backend.ConfigureSurface(w, h)
	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range pipelines {
		if _, exists := r.pipelineCache[p.Key()]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return err
		}
		r.pipelineCache[p.Key()] = p
	}
	return nil
}

func (r *renderer) BindGroupLayout(pipelineKey string, group int) (*wgpu.BindGroupLayout, wgpu.BindGroupLayoutDescriptor, error) {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return nil, wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("render pipeline %q not registered", pipelineKey)
	}
	layout := p.BindGroupLayout(group)
	if layout == nil {
		return nil, wgpu.BindGroupLayoutDescriptor{}, fmt.Errorf("render pipeline %q has no bind group %d", pipelineKey, group)
	}
	return layout, p.BindGroupLayoutDescriptors()[group], nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (int, int) {
	return r.backend.Size()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SetClearColor(c common.Color) {
	rgb := c.RGB()
	r.backend.SetClearColor(float64(rgb[0]), float64(rgb[1]), float64(rgb[2]))
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(pipelineKey string, group int, provider bind_group_provider.BindGroupProvider, bufferSizeOverrides map[int]uint64) error {
	layout, desc, err := r.BindGroupLayout(pipelineKey, group)
	if err != nil {
		return err
	}
	return r.backend.InitBindGroup(provider, layout, desc, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*RenderTarget, error) {
	return r.backend.CreateRenderTarget(label, width, height, format)
}

func (r *renderer) SetSceneTarget(view *wgpu.TextureView) {
	r.backend.SetSceneTarget(view)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	r.backend.DrawCall(p, meshProvider, bindGroups)
	return nil
}

func (r *renderer) EndScenePass() {
	r.backend.EndScenePass()
}

func (r *renderer) FullscreenPass(pipelineKey string, target *wgpu.TextureView, bindGroups []bind_group_provider.BindGroupProvider) error {
	p := r.Pipeline(pipelineKey)
	if p == nil {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.FullscreenPass(p, target, bindGroups)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
