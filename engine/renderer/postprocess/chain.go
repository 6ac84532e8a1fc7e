// package postprocess turns the rendered scene into the presented frame: bloom over the bright streaks,
// then SMAA over the result.
package postprocess

import (
	"context"
	"embed"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/*.wgsl
var assets embed.FS

// Pipeline keys of the post-processing passes.
const (
	PipelineBright      = "post bright"
	PipelineBlur        = "post blur"
	PipelineComposite   = "post composite"
	PipelineSMAAEdges   = "post smaa edges"
	PipelineSMAAWeights = "post smaa weights"
	PipelineSMAABlend   = "post smaa blend"
)

// Render target names.
const (
	targetScene     = "scene"
	targetBright    = "bright"
	targetBlurH     = "blur h"
	targetBlurV     = "blur v"
	targetComposite = "composite"
	targetEdges     = "smaa edges"
	targetWeights   = "smaa weights"
)

const (
	// smaaTargetFormat holds edge flags and blend weights.
	smaaTargetFormat = wgpu.TextureFormatRGBA8Unorm

	samplerBinding = 1
	areaBinding    = 3
	searchBinding  = 4
)

// Renderer is the part of the GPU renderer the chain records its passes with.
type Renderer interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitBindGroup(pipelineKey string, group int, provider bind_group_provider.BindGroupProvider, bufferSizeOverrides map[int]uint64) error
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*renderer.RenderTarget, error)
	SetSceneTarget(view *wgpu.TextureView)
	FullscreenPass(pipelineKey string, target *wgpu.TextureView, bindGroups []bind_group_provider.BindGroupProvider) error
}

type passInput struct {
	binding int
	target  string
}

// pass is one fullscreen draw: a pipeline reading some targets and writing one. An empty output is the swapchain.
type pass struct {
	label    string
	pipeline string
	provider bind_group_provider.BindGroupProvider
	inputs   []passInput
	output   string
	uniform  func(width, height int) []byte
}

type targetSpec struct {
	name   string
	bloom  bool
	format wgpu.TextureFormat
}

type chain struct {
	mu *sync.Mutex

	r        Renderer
	bloom    BloomSettings
	smaa     SMAAPreset
	area     AssetSource
	search   AssetSource
	timeout  time.Duration
	workers  int
	aa       bool
	inited   bool
	released bool

	width, height int
	pipelines     []pipeline.Pipeline
	passes        []*pass
	targets       map[string]*renderer.RenderTarget
}

// Chain runs the fullscreen passes that follow the scene pass.
type Chain interface {
	// Init loads the SMAA tables, registers the pass pipelines and creates the targets for width x height.
	// A table that fails to load, or does not arrive within the asset timeout, turns anti-aliasing off;
	// it is logged and is not an error.
	//
	// Parameters:
	//   - ctx: bounds the table loading
	//   - width: the frame width in pixels
	//   - height: the frame height in pixels
	//
	// Returns:
	//   - error: a pipeline or GPU resource error
	Init(ctx context.Context, width, height int) error

	// Resize recreates the targets and bind groups. The same size again, or a zero size, does nothing.
	Resize(width, height int) error

	// Render records every pass. The scene pass must already have ended.
	Render() error

	// AAEnabled reports whether the SMAA passes run.
	AAEnabled() bool

	// Size returns the size the targets were last created for.
	Size() (int, int)

	// Release frees the targets, the tables and the pass resources. Later calls do nothing.
	Release()
}

var _ Chain = &chain{}

// NewChain creates an uninitialized chain with full resolution bloom and SMAA MEDIUM.
//
// Parameters:
//   - r: the renderer the passes are recorded with
//   - options: builder options
//
// Returns:
//   - Chain: the chain
func NewChain(r Renderer, options ...ChainBuilderOption) Chain {
	c := &chain{
		mu:      &sync.Mutex{},
		r:       r,
		bloom:   DefaultBloomSettings(),
		smaa:    SMAAPresetMedium,
		area:    GeneratedArea{},
		search:  GeneratedSearch{},
		timeout: 5 * time.Second,
		workers: 2,
		targets: make(map[string]*renderer.RenderTarget),
	}
	for _, opt := range options {
		opt(c)
	}
	c.bloom = c.bloom.normalized()
	return c
}

func (c *chain) Init(ctx context.Context, width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inited {
		return fmt.Errorf("post chain already initialized")
	}

	var area, search *LookupTexture
	if c.smaa.Enabled() {
		pool := worker.NewDynamicWorkerPool(c.workers, 16, 1*time.Second)
		var err error
		area, search, err = loadLookupTextures(ctx, pool, c.timeout, c.area, c.search)
		if err != nil {
			log.Printf("[PostProcess] SMAA disabled, lookup textures unavailable: %v", err)
		}
		c.aa = err == nil
	}

	if err := c.buildPasses(); err != nil {
		return err
	}
	if err := c.r.RegisterPipelines(c.pipelines...); err != nil {
		return fmt.Errorf("post chain: %w", err)
	}
	for _, p := range c.passes {
		if p.pipeline == PipelineSMAAEdges {
			continue
		}
		if err := c.r.InitSampler(p.provider, samplerBinding, *common.LinearClampSampler()); err != nil {
			return fmt.Errorf("post pass %s sampler: %w", p.label, err)
		}
		if p.pipeline == PipelineSMAAWeights {
			if err := c.r.InitTextureView(p.provider, areaBinding, area.Staging()); err != nil {
				return fmt.Errorf("post pass %s area table: %w", p.label, err)
			}
			if err := c.r.InitTextureView(p.provider, searchBinding, search.Staging()); err != nil {
				return fmt.Errorf("post pass %s search table: %w", p.label, err)
			}
		}
	}

	c.inited = true
	if err := c.resize(width, height); err != nil {
		return err
	}
	log.Printf("[PostProcess] ready at %dx%d: bloom scale %.2f, SMAA %s (enabled: %t)", width, height, c.bloom.ResolutionScale, c.smaa.Name, c.aa)
	return nil
}

// buildPasses must be called with mu held.
func (c *chain) buildPasses() error {
	bloomUniform := func(f func(w, h int) GPUBloomUniform) func(int, int) []byte {
		return func(w, h int) []byte {
			u := f(w, h)
			return u.Marshal()
		}
	}
	smaaUniform := func(w, h int) []byte {
		u := c.smaa.uniform(w, h)
		return u.Marshal()
	}

	compositeOut := ""
	if c.aa {
		compositeOut = targetComposite
	}
	c.passes = []*pass{
		{label: "bright", pipeline: PipelineBright, inputs: []passInput{{2, targetScene}}, output: targetBright, uniform: bloomUniform(c.bloom.brightUniform)},
		{label: "blur h", pipeline: PipelineBlur, inputs: []passInput{{2, targetBright}}, output: targetBlurH, uniform: bloomUniform(func(w, h int) GPUBloomUniform {
			return c.bloom.blurUniform(w, h, false)
		})},
		{label: "blur v", pipeline: PipelineBlur, inputs: []passInput{{2, targetBlurH}}, output: targetBlurV, uniform: bloomUniform(func(w, h int) GPUBloomUniform {
			return c.bloom.blurUniform(w, h, true)
		})},
		{label: "composite", pipeline: PipelineComposite, inputs: []passInput{{2, targetScene}, {3, targetBlurV}}, output: compositeOut, uniform: bloomUniform(c.bloom.compositeUniform)},
	}
	if c.aa {
		c.passes = append(c.passes,
			&pass{label: "smaa edges", pipeline: PipelineSMAAEdges, inputs: []passInput{{1, targetComposite}}, output: targetEdges, uniform: smaaUniform},
			&pass{label: "smaa weights", pipeline: PipelineSMAAWeights, inputs: []passInput{{2, targetEdges}}, output: targetWeights, uniform: smaaUniform},
			&pass{label: "smaa blend", pipeline: PipelineSMAABlend, inputs: []passInput{{2, targetComposite}, {3, targetWeights}}, uniform: smaaUniform},
		)
	}

	files := map[string]string{
		PipelineBright:      "bright.wgsl",
		PipelineBlur:        "blur.wgsl",
		PipelineComposite:   "composite.wgsl",
		PipelineSMAAEdges:   "smaa_edges.wgsl",
		PipelineSMAAWeights: "smaa_weights.wgsl",
		PipelineSMAABlend:   "smaa_blend.wgsl",
	}
	built := make(map[string]bool)
	for _, p := range c.passes {
		p.provider = bind_group_provider.NewBindGroupProvider("post " + p.label)
		if built[p.pipeline] {
			continue
		}
		var format wgpu.TextureFormat
		if p.pipeline == PipelineSMAAEdges || p.pipeline == PipelineSMAAWeights {
			format = smaaTargetFormat
		}
		pl, err := newPassPipeline(p.pipeline, files[p.pipeline], format)
		if err != nil {
			return err
		}
		c.pipelines = append(c.pipelines, pl)
		built[p.pipeline] = true
	}
	return nil
}

// newPassPipeline compiles a pass file behind the shared fullscreen vertex stage.
func newPassPipeline(key, file string, format wgpu.TextureFormat) (pipeline.Pipeline, error) {
	vert, err := assets.ReadFile("assets/fullscreen.wgsl")
	if err != nil {
		return nil, fmt.Errorf("post pipeline %s: %w", key, err)
	}
	frag, err := assets.ReadFile("assets/" + file)
	if err != nil {
		return nil, fmt.Errorf("post pipeline %s: %w", key, err)
	}
	src := string(vert) + "\n" + string(frag)

	vs, err := shader.NewShaderFromSource(key+" vs", shader.ShaderTypeVertex, src)
	if err != nil {
		return nil, err
	}
	fs, err := shader.NewShaderFromSource(key+" fs", shader.ShaderTypeFragment, src)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.PipelineBuilderOption{pipeline.WithShaders(vs, fs)}
	if format != wgpu.TextureFormatUndefined {
		opts = append(opts, pipeline.WithTargetFormat(format))
	}
	return pipeline.NewPipeline(key, pipeline.PipelineTypeFullscreen, opts...), nil
}

func (c *chain) targetSpecs() []targetSpec {
	specs := []targetSpec{
		{name: targetScene},
		{name: targetBright, bloom: true},
		{name: targetBlurH, bloom: true},
		{name: targetBlurV, bloom: true},
	}
	if c.aa {
		specs = append(specs,
			targetSpec{name: targetComposite},
			targetSpec{name: targetEdges, format: smaaTargetFormat},
			targetSpec{name: targetWeights, format: smaaTargetFormat},
		)
	}
	return specs
}

func (c *chain) Resize(width, height int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inited || c.released {
		return nil
	}
	return c.resize(width, height)
}

// resize must be called with mu held.
func (c *chain) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width == c.width && height == c.height && len(c.targets) > 0 {
		return nil
	}

	targets := make(map[string]*renderer.RenderTarget, len(c.targetSpecs()))
	for _, ts := range c.targetSpecs() {
		w, h := width, height
		if ts.bloom {
			w, h = c.bloom.Size(width, height)
		}
		t, err := c.r.CreateRenderTarget("post "+ts.name, w, h, ts.format)
		if err != nil {
			for _, created := range targets {
				created.Release()
			}
			c.invalidate()
			return fmt.Errorf("post chain resize: %w", err)
		}
		targets[ts.name] = t
	}
	c.releaseTargets()
	c.targets = targets
	c.r.SetSceneTarget(c.targets[targetScene].View)

	writes := make([]bind_group_provider.BufferWrite, 0, len(c.passes))
	for _, p := range c.passes {
		p.provider.ReleaseBindGroup()
		for _, in := range p.inputs {
			p.provider.BorrowTextureView(in.binding, c.targets[in.target].View)
		}
		if err := c.r.InitBindGroup(p.pipeline, 0, p.provider, nil); err != nil {
			c.invalidate()
			return fmt.Errorf("post pass %s: %w", p.label, err)
		}
		writes = append(writes, bind_group_provider.BufferWrite{Provider: p.provider, Binding: 0, Data: p.uniform(width, height)})
	}
	c.r.WriteBuffers(writes)

	c.width, c.height = width, height
	return nil
}

// invalidate drops every target after a failed resize. The scene pass falls back to the swapchain and
// Render refuses to run until a later resize succeeds. Must be called with mu held.
func (c *chain) invalidate() {
	c.r.SetSceneTarget(nil)
	c.releaseTargets()
	c.width, c.height = 0, 0
}

// releaseTargets must be called with mu held.
func (c *chain) releaseTargets() {
	for name, t := range c.targets {
		t.Release()
		delete(c.targets, name)
	}
}

func (c *chain) Render() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.inited || c.released {
		return fmt.Errorf("post chain rendered before Init or after Release")
	}
	if c.width == 0 || c.height == 0 {
		return fmt.Errorf("post chain has no render targets, waiting for a successful resize")
	}
	for _, p := range c.passes {
		var target *wgpu.TextureView
		if p.output != "" {
			t, ok := c.targets[p.output]
			if !ok {
				return fmt.Errorf("post pass %s: missing target %q", p.label, p.output)
			}
			target = t.View
		}
		if err := c.r.FullscreenPass(p.pipeline, target, []bind_group_provider.BindGroupProvider{p.provider}); err != nil {
			return fmt.Errorf("post pass %s: %w", p.label, err)
		}
	}
	return nil
}

func (c *chain) AAEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aa
}

func (c *chain) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *chain) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return
	}
	c.released = true
	if c.inited {
		c.r.SetSceneTarget(nil)
	}
	c.releaseTargets()
	for _, p := range c.passes {
		p.provider.Release()
	}
}
