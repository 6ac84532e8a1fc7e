package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// wgpuRendererBackendImpl is the WebGPU implementation of RendererBackend.
// A frame is recorded into a single command encoder: one scene pass followed by any number of fullscreen passes.
type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	clearColor    wgpu.Color
	width, height int

	// Size dependent attachments of the scene pass, recreated by ConfigureSurface.
	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	// sceneTarget receives the scene pass when set; the swapchain image is used otherwise.
	sceneTarget *wgpu.TextureView

	frameEncoder *wgpu.CommandEncoder
	scenePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and recreates the scene attachments for the new size.
	// Zero sizes, as reported for minimized windows, are ignored.
	ConfigureSurface(width, height int)

	// SetPresentMode applies on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the scene pass clears to.
	SetClearColor(r, g, b float64)

	// SurfaceFormat returns the swapchain format, which is also the format of the scene pass.
	SurfaceFormat() wgpu.TextureFormat

	// Size returns the last configured surface size.
	Size() (int, int)

	// RegisterRenderPipeline creates the GPU pipeline and bind group layouts for p.
	RegisterRenderPipeline(p pipeline.Pipeline) error

	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CreateRenderTarget allocates a sampled color attachment.
	CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*RenderTarget, error)

	// SetSceneTarget redirects the scene pass. Nil renders the scene straight to the swapchain.
	SetSceneTarget(view *wgpu.TextureView)

	BeginFrame() error
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)
	EndScenePass()

	// FullscreenPass records a pass that draws one generated triangle into target, or into the swapchain image when nil.
	FullscreenPass(p pipeline.Pipeline, target *wgpu.TextureView, bindGroups []bind_group_provider.BindGroupProvider) error

	EndFrame()
	Present()

	// Release frees the attachments, the device and the surface.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend acquires an adapter and device for the surface. Acquisition failures panic since
// nothing can be drawn without them.
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		sampleCount: sampleCount,
		clearColor:  wgpu.Color{A: 1},
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(fmt.Errorf("failed to acquire GPU adapter: %w", err))
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Hyperspeed Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(fmt.Errorf("failed to acquire GPU device: %w", err))
	}
	b.device = device
	b.queue = device.GetQueue()

	caps := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = caps.Formats[0]
	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if width <= 0 || height <= 0 {
		return
	}

	caps := b.surface.GetCapabilities(b.adapter)
	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   caps.AlphaModes[0],
	})
	b.width, b.height = width, height

	b.releaseAttachments()
	size := wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}

	if b.sampleCount > 1 {
		tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label:         "Scene MSAA Texture",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   uint32(b.sampleCount),
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = tex
		if b.msaaView, err = tex.CreateView(nil); err != nil {
			panic(err)
		}
	}

	depth, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Scene Depth Texture",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   uint32(b.sampleCount),
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depth
	if b.depthView, err = depth.CreateView(nil); err != nil {
		panic(err)
	}
}

// releaseAttachments must be called with mu held.
func (b *wgpuRendererBackendImpl) releaseAttachments() {
	for _, v := range []*wgpu.TextureView{b.msaaView, b.depthView} {
		if v != nil {
			v.Release()
		}
	}
	for _, t := range []*wgpu.Texture{b.msaaTexture, b.depthTexture} {
		if t != nil {
			t.Release()
		}
	}
	b.msaaView, b.depthView, b.msaaTexture, b.depthTexture = nil, nil, nil, nil
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if mode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
		return
	}
	b.presentMode = wgpu.PresentModeFifo
}

func (b *wgpuRendererBackendImpl) SetClearColor(r, g, bl float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearColor = wgpu.Color{R: r, G: g, B: bl, A: 1}
}

func (b *wgpuRendererBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	return b.surfaceFormat
}

func (b *wgpuRendererBackendImpl) Size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	vs := p.Shader(shader.ShaderTypeVertex)
	fs := p.Shader(shader.ShaderTypeFragment)
	if vs == nil || fs == nil {
		return errors.New("both vertex and fragment shaders must be set to create a render pipeline")
	}

	vsModule, err := b.device.CreateShaderModule(vs.Module())
	if err != nil {
		return fmt.Errorf("pipeline %s: vertex module: %w", p.Key(), err)
	}
	defer vsModule.Release()
	fsModule, err := b.device.CreateShaderModule(fs.Module())
	if err != nil {
		return fmt.Errorf("pipeline %s: fragment module: %w", p.Key(), err)
	}
	defer fsModule.Release()

	merged := p.BindGroupLayoutDescriptors()
	groupCount := 0
	for g := range merged {
		groupCount = max(groupCount, g+1)
	}
	layouts := make([]*wgpu.BindGroupLayout, groupCount)
	for g := 0; g < groupCount; g++ {
		desc := merged[g]
		desc.Label = fmt.Sprintf("%s group %d", p.Key(), g)
		if layouts[g], err = b.device.CreateBindGroupLayout(&desc); err != nil {
			return fmt.Errorf("pipeline %s: bind group layout %d: %w", p.Key(), g, err)
		}
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.Key(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return err
	}
	defer pipelineLayout.Release()

	target := wgpu.ColorTargetState{
		Format:    common.Coalesce(p.TargetFormat(), b.surfaceFormat),
		WriteMask: p.WriteMask(),
		Blend:     p.BlendState(),
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  p.Key() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vsModule,
			EntryPoint: vs.EntryPoint(),
			Buffers:    vs.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     fsModule,
			EntryPoint: fs.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	if p.Type() == pipeline.PipelineTypeScene {
		desc.Multisample.Count = uint32(b.sampleCount)
		compare := wgpu.CompareFunctionLess
		if !p.DepthTestEnabled() {
			compare = wgpu.CompareFunctionAlways
		}
		desc.DepthStencil = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      compare,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		}
	}

	created, err := b.device.CreateRenderPipeline(desc)
	if err != nil {
		return fmt.Errorf("pipeline %s: %w", p.Key(), err)
	}
	p.SetRenderPipeline(created, layouts)
	return nil
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	upload := func(suffix string, data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
		if len(data) == 0 {
			return nil, nil
		}
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + suffix,
			Size:  uint64(len(data)),
			Usage: usage | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, err
		}
		b.queue.WriteBuffer(buf, 0, data)
		return buf, nil
	}

	vb, err := upload(" Vertex Buffer", vertexData, wgpu.BufferUsageVertex)
	if err != nil {
		return err
	}
	ib, err := upload(" Index Buffer", indexData, wgpu.BufferUsageIndex)
	if err != nil {
		if vb != nil {
			vb.Release()
		}
		return err
	}
	provider.SetMesh(vb, ib, indexCount)
	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, layout *wgpu.BindGroupLayout, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if layout == nil {
		return fmt.Errorf("%s: bind group layout is nil, register the pipeline first", provider.Label())
	}
	if len(descriptor.Entries) == 0 {
		return nil
	}

	entries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, e := range descriptor.Entries {
		binding := int(e.Binding)
		switch {
		case e.Texture.SampleType != wgpu.TextureSampleTypeUndefined:
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("%s: texture binding %d has no view", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, TextureView: tv}
		case e.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			s := provider.Sampler(binding)
			if s == nil {
				return fmt.Errorf("%s: sampler binding %d has no sampler", provider.Label(), binding)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Sampler: s}
		default:
			buf := provider.Buffer(binding)
			if buf == nil {
				usage := wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
				if e.Buffer.Type != wgpu.BufferBindingTypeUniform {
					usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
				}
				size := e.Buffer.MinBindingSize
				if override, ok := bufferSizeOverrides[binding]; ok {
					size = override
				}
				var err error
				buf, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: fmt.Sprintf("%s Buffer %d", provider.Label(), binding),
					Size:  size,
					Usage: usage,
				})
				if err != nil {
					return err
				}
				provider.SetBuffer(binding, buf)
			}
			entries[i] = wgpu.BindGroupEntry{Binding: e.Binding, Buffer: buf, Size: wgpu.WholeSize}
		}
	}

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bg)
	return nil
}

func (b *wgpuRendererBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	format := common.Coalesce(stagingData.Format, wgpu.TextureFormatRGBA8UnormSrgb)
	size := wgpu.Extent3D{Width: stagingData.Width, Height: stagingData.Height, DepthOrArrayLayers: 1}
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         fmt.Sprintf("%s Texture %d", provider.Label(), bindingKey),
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          size,
		Format:        format,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}
	// the view keeps the texture alive
	defer tex.Release()

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{Texture: tex, Aspect: wgpu.TextureAspectAll},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			BytesPerRow:  stagingData.Width * stagingData.BytesPerPixel(),
			RowsPerImage: stagingData.Height,
		},
		&size,
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		return err
	}
	provider.SetTextureView(bindingKey, view)
	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, s common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         fmt.Sprintf("%s Sampler %d", provider.Label(), bindingKey),
		AddressModeU:  common.Coalesce(s.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(s.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(s.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(s.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(s.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(s.MipmapFilter, wgpu.MipmapFilterModeNearest),
		LodMinClamp:   s.LodMinClamp,
		LodMaxClamp:   common.Coalesce(s.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(s.MaxAnisotropy, 1),
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)
	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		if buf := w.Provider.Buffer(w.Binding); buf != nil {
			b.queue.WriteBuffer(buf, w.Offset, w.Data)
		}
	}
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	format = common.Coalesce(format, b.surfaceFormat)
	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: uint32(max(1, width)), Height: uint32(max(1, height)), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("render target %s: %w", label, err)
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("render target %s view: %w", label, err)
	}
	return &RenderTarget{Label: label, Width: width, Height: height, Format: format, Texture: tex, View: view}, nil
}

func (b *wgpuRendererBackendImpl) SetSceneTarget(view *wgpu.TextureView) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sceneTarget = view
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}
	if b.depthView == nil {
		return errors.New("surface is not configured")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	target := view
	if b.sceneTarget != nil {
		target = b.sceneTarget
	}
	color := wgpu.RenderPassColorAttachment{
		View:       target,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: b.clearColor,
	}
	if b.msaaView != nil {
		color.View = b.msaaView
		color.ResolveTarget = target
		color.StoreOp = wgpu.StoreOpDiscard
	}

	b.scenePass = encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            "Scene Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{color},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})
	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scenePass == nil || meshProvider.VertexBuffer() == nil {
		return
	}
	b.scenePass.SetPipeline(p.RenderPipeline())
	for i, bg := range bindGroups {
		b.scenePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	b.scenePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.scenePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.scenePass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndScenePass() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scenePass == nil {
		return
	}
	b.scenePass.End()
	b.scenePass.Release()
	b.scenePass = nil
}

func (b *wgpuRendererBackendImpl) FullscreenPass(p pipeline.Pipeline, target *wgpu.TextureView, bindGroups []bind_group_provider.BindGroupProvider) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return errors.New("fullscreen pass recorded outside of a frame")
	}
	if b.scenePass != nil {
		return errors.New("fullscreen pass recorded before the scene pass ended")
	}
	if target == nil {
		target = b.frameView
	}

	pass := b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: p.Key(),
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       target,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: wgpu.Color{A: 1},
		}},
	})
	pass.SetPipeline(p.RenderPipeline())
	for i, bg := range bindGroups {
		pass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}
	pass.Draw(3, 1, 0, 0)
	pass.End()
	pass.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}
	if b.scenePass != nil {
		b.scenePass.End()
		b.scenePass.Release()
		b.scenePass = nil
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	b.frameEncoder.Release()
	b.frameEncoder = nil
	if err != nil {
		b.releaseFrameSurface()
		return
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrameSurface()
}

// releaseFrameSurface must be called with mu held.
func (b *wgpuRendererBackendImpl) releaseFrameSurface() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrameSurface()
	b.releaseAttachments()
	b.sceneTarget = nil
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
