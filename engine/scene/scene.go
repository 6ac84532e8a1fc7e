package scene

import (
	"embed"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

//go:embed assets/*.wgsl
var assets embed.FS

// Pipeline keys of the scene shaders.
const (
	PipelineRoad    = "scene road"
	PipelineSticks  = "scene sticks"
	PipelineStreaks = "scene streaks"
)

var pipelineSources = map[string]string{
	PipelineRoad:    "assets/road.wgsl",
	PipelineSticks:  "assets/sticks.wgsl",
	PipelineStreaks: "assets/streaks.wgsl",
}

// Renderer is the part of the GPU renderer the scene needs to upload and draw itself.
type Renderer interface {
	RegisterPipelines(pipelines ...pipeline.Pipeline) error
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error
	InitBindGroup(pipelineKey string, group int, provider bind_group_provider.BindGroupProvider, bufferSizeOverrides map[int]uint64) error
	WriteBuffers(writes []bind_group_provider.BufferWrite)
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error
}

type scene struct {
	mu *sync.Mutex

	cfg     *config.EffectConfig
	cam     camera.Camera
	fog     *animator.Fog
	rng     *common.Rand
	workers int

	objects   map[ObjectKind]*sceneObject
	pipelines map[string]pipeline.Pipeline
	// bindings maps a pipeline key to the registry struct bound at each group index.
	bindings map[string][]string

	r    Renderer
	time float64
}

// Scene is the highway: a road, two groups of light sticks and two groups of car light streaks,
// all viewed through one camera and faded into one fog.
type Scene interface {
	// Objects returns every scene object in draw order.
	Objects() []SceneObject

	// Object returns the object of the given kind.
	Object(kind ObjectKind) SceneObject

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Fog returns the fog shared by every object.
	Fog() animator.FogView

	// Config returns the configuration the scene was built from.
	Config() *config.EffectConfig

	// Pipelines returns the pipeline descriptions in draw order.
	Pipelines() []pipeline.Pipeline

	// Init registers the pipelines, uploads every mesh and creates the bind groups.
	//
	// Parameters:
	//   - r: the renderer to upload into
	//
	// Returns:
	//   - error: the first registration or upload failure
	Init(r Renderer) error

	// SetTime advances every animator to the simulation time t.
	SetTime(t float64)

	// Time returns the last simulation time given to SetTime.
	Time() float64

	// Update refreshes the camera and uploads every uniform that changed since the last call.
	Update()

	// DrawCalls records one draw per object into the current scene pass, in draw order.
	DrawCalls() error

	// Release frees the GPU resources of the objects, the fog and the camera.
	Release()
}

var _ Scene = &scene{}

// NewScene validates cfg and builds every mesh. Meshes are generated in parallel, each from its own
// random stream, so the result depends only on the seed.
//
// Parameters:
//   - cfg: the effect configuration
//   - options: builder options
//
// Returns:
//   - Scene: the built scene, not yet uploaded
//   - error: a validation or shader error
func NewScene(cfg *config.EffectConfig, options ...SceneBuilderOption) (Scene, error) {
	if cfg == nil {
		return nil, fmt.Errorf("new scene: %w", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new scene: %w", err)
	}

	s := &scene{
		mu:        &sync.Mutex{},
		cfg:       cfg,
		workers:   max(runtime.NumCPU()-1, 1),
		objects:   make(map[ObjectKind]*sceneObject, len(drawOrder)),
		pipelines: make(map[string]pipeline.Pipeline, len(pipelineSources)),
		bindings:  make(map[string][]string, len(pipelineSources)),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.rng == nil {
		s.rng = common.NewRand(0)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera(camera.WithFov(cfg.Fov))
	}
	if s.fog == nil {
		s.fog = animator.NewFog(cfg.Colors.Background, cfg.Length)
	}

	if err := s.buildPipelines(); err != nil {
		return nil, err
	}
	s.buildObjects()
	return s, nil
}

func (s *scene) buildPipelines() error {
	for key, path := range pipelineSources {
		vs, fs, err := shader.NewStagePair(key, assets, path)
		if err != nil {
			return fmt.Errorf("new scene: %w", err)
		}

		opts := []pipeline.PipelineBuilderOption{pipeline.WithShaders(vs, fs), pipeline.WithCullMode(wgpu.CullModeNone)}
		if key == PipelineRoad {
			opts = append(opts, pipeline.WithDepth(false, true))
		} else {
			opts = append(opts,
				pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
				pipeline.WithDepth(true, false),
				pipeline.WithBlendState(pipeline.AdditiveBlend),
			)
		}
		s.pipelines[key] = pipeline.NewPipeline(key, pipeline.PipelineTypeScene, opts...)

		var groups []string
		for _, decl := range vs.Declarations() {
			if decl.Type != shader.AnnotationTypeGroup {
				continue
			}
			for len(groups) <= decl.Group {
				groups = append(groups, "")
			}
			groups[decl.Group] = decl.Struct
		}
		s.bindings[key] = groups
	}
	return nil
}

// buildObjects draws one child seed per object up front, in draw order, then builds the meshes on a worker pool.
func (s *scene) buildObjects() {
	type job struct {
		kind  ObjectKind
		rng   *common.Rand
		build func(*common.Rand) *Mesh
	}
	jobs := make([]job, 0, len(drawOrder))
	for _, kind := range drawOrder {
		jobs = append(jobs, job{kind: kind, rng: common.NewRand(s.rng.Uint64()), build: s.meshBuilder(kind)})
	}

	meshes := make([]*Mesh, len(jobs))
	pool := worker.NewDynamicWorkerPool(min(s.workers, len(jobs)), 256, 1*time.Second)
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		idx, jCap := i, j
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (any, error) {
				defer wg.Done()
				meshes[idx] = jCap.build(jCap.rng)
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, j := range jobs {
		anim := animator.NewAnimator(j.kind.String(), s.fog, s.animatorOptions(j.kind)...)
		s.objects[j.kind] = newSceneObject(j.kind, meshes[i], pipelineFor(j.kind), anim)
	}
	log.Printf("[Scene] built %d objects with %d workers", len(jobs), s.workers)
}

func (s *scene) meshBuilder(kind ObjectKind) func(*common.Rand) *Mesh {
	cfg := s.cfg
	switch kind {
	case KindRoad:
		return func(*common.Rand) *Mesh { return buildRoad(cfg) }
	case KindLeftSticks, KindRightSticks:
		return func(rng *common.Rand) *Mesh { return buildSticks(cfg, rng) }
	case KindLeftCarLights:
		return func(rng *common.Rand) *Mesh { return buildCarLights(cfg, rng, cfg.Colors.LeftCars) }
	default:
		return func(rng *common.Rand) *Mesh { return buildCarLights(cfg, rng, cfg.Colors.RightCars) }
	}
}

func (s *scene) animatorOptions(kind ObjectKind) []animator.AnimatorBuilderOption {
	switch kind {
	case KindRoad:
		return roadAnimatorOptions(s.cfg)
	case KindLeftSticks:
		return sticksAnimatorOptions(s.cfg, sideLeft)
	case KindRightSticks:
		return sticksAnimatorOptions(s.cfg, sideRight)
	case KindLeftCarLights:
		return carLightsAnimatorOptions(s.cfg, sideLeft)
	default:
		return carLightsAnimatorOptions(s.cfg, sideRight)
	}
}

func pipelineFor(kind ObjectKind) string {
	switch kind {
	case KindRoad:
		return PipelineRoad
	case KindLeftSticks, KindRightSticks:
		return PipelineSticks
	default:
		return PipelineStreaks
	}
}

func (s *scene) Objects() []SceneObject {
	out := make([]SceneObject, 0, len(drawOrder))
	for _, kind := range drawOrder {
		out = append(out, s.objects[kind])
	}
	return out
}

func (s *scene) Object(kind ObjectKind) SceneObject {
	o, ok := s.objects[kind]
	if !ok {
		return nil
	}
	return o
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Fog() animator.FogView {
	return s.fog
}

func (s *scene) Config() *config.EffectConfig {
	return s.cfg
}

func (s *scene) Pipelines() []pipeline.Pipeline {
	return []pipeline.Pipeline{s.pipelines[PipelineRoad], s.pipelines[PipelineSticks], s.pipelines[PipelineStreaks]}
}

func (s *scene) Init(r Renderer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := r.RegisterPipelines(s.Pipelines()...); err != nil {
		return fmt.Errorf("scene init: %w", err)
	}

	// The camera and the fog are shared; their layouts are identical in every scene pipeline.
	shared := map[string]bind_group_provider.BindGroupProvider{
		camera.StructName:      s.cam.BindGroupProvider(),
		animator.FogStructName: s.fog.Provider(),
	}
	initialized := make(map[string]bool, len(shared))

	for _, kind := range drawOrder {
		obj := s.objects[kind]
		if err := r.InitMeshBuffers(obj.MeshProvider(), obj.mesh.VertexBytes(), obj.mesh.IndexBytes(), len(obj.mesh.Indices)); err != nil {
			return fmt.Errorf("scene init %s mesh: %w", kind, err)
		}
		for group, name := range s.bindings[obj.pipelineKey] {
			if name == animator.MotionStructName {
				if err := r.InitBindGroup(obj.pipelineKey, group, obj.anim.Provider(), nil); err != nil {
					return fmt.Errorf("scene init %s motion: %w", kind, err)
				}
				continue
			}
			provider, ok := shared[name]
			if !ok {
				return fmt.Errorf("scene init %s: no provider for group %d (%q)", kind, group, name)
			}
			if initialized[name] {
				continue
			}
			if err := r.InitBindGroup(obj.pipelineKey, group, provider, nil); err != nil {
				return fmt.Errorf("scene init %s %s: %w", kind, name, err)
			}
			initialized[name] = true
		}
	}
	s.r = r
	return nil
}

func (s *scene) SetTime(t float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.time = t
	for _, obj := range s.objects {
		obj.anim.SetTime(t)
	}
}

func (s *scene) Time() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.time
}

func (s *scene) Update() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cam.Update()
	writes := s.cam.Writes()
	writes = append(writes, s.fog.Writes()...)
	for _, kind := range drawOrder {
		writes = append(writes, s.objects[kind].anim.Writes()...)
	}
	if s.r != nil && len(writes) > 0 {
		s.r.WriteBuffers(writes)
	}
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return fmt.Errorf("scene drawn before Init")
	}
	for _, kind := range drawOrder {
		obj := s.objects[kind]
		if err := s.r.DrawCall(obj.pipelineKey, obj.meshBGP, s.bindGroupsFor(obj)); err != nil {
			return fmt.Errorf("draw %s: %w", kind, err)
		}
	}
	return nil
}

// bindGroupsFor must be called with mu held.
func (s *scene) bindGroupsFor(obj *sceneObject) []bind_group_provider.BindGroupProvider {
	names := s.bindings[obj.pipelineKey]
	out := make([]bind_group_provider.BindGroupProvider, len(names))
	for group, name := range names {
		switch name {
		case camera.StructName:
			out[group] = s.cam.BindGroupProvider()
		case animator.FogStructName:
			out[group] = s.fog.Provider()
		case animator.MotionStructName:
			out[group] = obj.anim.Provider()
		}
	}
	return out
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range s.objects {
		obj.Release()
	}
	s.fog.Release()
	s.cam.Release()
	s.r = nil
}
