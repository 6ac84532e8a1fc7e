package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/hyperspeed/engine/scene"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	mu     sync.Mutex
	width  int
	height int
	closed chan struct{}
	once   sync.Once

	onResize      func(int, int)
	onKeyDown     func(uint32)
	onKeyUp       func(uint32)
	onPointerDown func(float64, float64)
	onPointerUp   func(float64, float64)
	onLeave       func()
}

func newFakeWindow(w, h int) *fakeWindow {
	return &fakeWindow{width: w, height: h, closed: make(chan struct{})}
}

func (f *fakeWindow) SetUpdateCallback(func()) {}

func (f *fakeWindow) SetResizeCallback(cb func(int, int)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onResize = cb
}

func (f *fakeWindow) SetKeyDownCallback(cb func(uint32)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onKeyDown = cb
}

func (f *fakeWindow) SetKeyUpCallback(cb func(uint32)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onKeyUp = cb
}

func (f *fakeWindow) SetPointerDownCallback(cb func(float64, float64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPointerDown = cb
}

func (f *fakeWindow) SetPointerUpCallback(cb func(float64, float64)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPointerUp = cb
}

func (f *fakeWindow) SetPointerLeaveCallback(cb func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onLeave = cb
}

func (f *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return nil }

func (f *fakeWindow) IsRunning() bool {
	select {
	case <-f.closed:
		return false
	default:
		return true
	}
}

func (f *fakeWindow) RequestClose() {
	f.once.Do(func() { close(f.closed) })
}

func (f *fakeWindow) Close() error {
	f.RequestClose()
	return nil
}

func (f *fakeWindow) ProcessMessages() {
	<-f.closed
}

func (f *fakeWindow) FramebufferSize() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.width, f.height
}

func (f *fakeWindow) subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.onResize != nil || f.onKeyDown != nil || f.onKeyUp != nil ||
		f.onPointerDown != nil || f.onPointerUp != nil || f.onLeave != nil
}

type fakeRenderer struct {
	mu          sync.Mutex
	ops         []string
	resizes     int
	targets     int
	releases    int
	beginErr    error
	panicOnDraw bool
}

func (f *fakeRenderer) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
}

func (f *fakeRenderer) takeOps() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := f.ops
	f.ops = nil
	return ops
}

func (f *fakeRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }

func (f *fakeRenderer) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, []byte, int) error {
	return nil
}

func (f *fakeRenderer) InitBindGroup(string, int, bind_group_provider.BindGroupProvider, map[int]uint64) error {
	return nil
}

func (f *fakeRenderer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData) error {
	return nil
}

func (f *fakeRenderer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeRenderer) WriteBuffers([]bind_group_provider.BufferWrite) {}

func (f *fakeRenderer) CreateRenderTarget(label string, width, height int, format wgpu.TextureFormat) (*renderer.RenderTarget, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.targets++
	return &renderer.RenderTarget{Label: label, Width: width, Height: height, Format: format}, nil
}

func (f *fakeRenderer) SetSceneTarget(*wgpu.TextureView) {}

func (f *fakeRenderer) DrawCall(string, bind_group_provider.BindGroupProvider, []bind_group_provider.BindGroupProvider) error {
	if f.panicOnDraw {
		panic("device lost")
	}
	f.record("draw")
	return nil
}

func (f *fakeRenderer) FullscreenPass(string, *wgpu.TextureView, []bind_group_provider.BindGroupProvider) error {
	f.record("post")
	return nil
}

func (f *fakeRenderer) BeginFrame() error {
	if f.beginErr != nil {
		return f.beginErr
	}
	f.record("begin")
	return nil
}

func (f *fakeRenderer) EndScenePass() { f.record("end scene") }
func (f *fakeRenderer) EndFrame()     { f.record("end frame") }
func (f *fakeRenderer) Present()      { f.record("present") }

func (f *fakeRenderer) Resize(int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes++
}

func (f *fakeRenderer) SetClearColor(common.Color) {}

func (f *fakeRenderer) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
}

// stepClock advances by a fixed step on every Delta.
type stepClock struct {
	mu      sync.Mutex
	step    float64
	elapsed float64
}

func (c *stepClock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
}

func (c *stepClock) Delta() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed += c.step
	return c.step
}

func (c *stepClock) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

type harness struct {
	engine   *engine
	window   *fakeWindow
	renderer *fakeRenderer
	clock    *stepClock
}

func newHarness(t *testing.T, options ...EngineBuilderOption) harness {
	t.Helper()

	cfg := config.DefaultConfig()
	s, err := scene.NewScene(cfg, scene.WithSeed(3), scene.WithWorkers(2))
	require.NoError(t, err)

	h := harness{
		window:   newFakeWindow(800, 600),
		renderer: &fakeRenderer{},
		clock:    &stepClock{step: 1.0 / 60},
	}
	e, err := NewEngine(h.window, h.renderer, s, append([]EngineBuilderOption{WithClock(h.clock)}, options...)...)
	require.NoError(t, err)
	h.engine = e.(*engine)
	require.NoError(t, h.engine.Init(context.Background()))
	return h
}

func TestFrameRendersThenUpdates(t *testing.T) {
	h := newHarness(t)
	t.Cleanup(h.engine.Dispose)
	h.renderer.takeOps()

	h.engine.frame()

	want := []string{"begin", "draw", "draw", "draw", "draw", "draw", "end scene"}
	for i := 0; i < 7; i++ {
		want = append(want, "post")
	}
	want = append(want, "end frame", "present")
	assert.Equal(t, want, h.renderer.takeOps())
	assert.InDelta(t, 1.0/60, h.engine.Scene().Time(), 1e-12)
	assert.Equal(t, uint64(1), h.engine.Frames())
}

func TestResizeIsIdempotent(t *testing.T) {
	h := newHarness(t)
	t.Cleanup(h.engine.Dispose)
	targets := h.renderer.targets

	// The initial size is already configured.
	h.engine.frame()
	assert.Zero(t, h.renderer.resizes)

	h.engine.Resize(1024, 512)
	h.engine.frame()
	assert.Equal(t, 1, h.renderer.resizes)
	assert.Equal(t, 2*targets, h.renderer.targets)
	assert.Equal(t, float32(2), h.engine.Scene().Camera().Aspect())

	h.engine.Resize(1024, 512)
	h.engine.frame()
	h.engine.Resize(0, 0)
	h.engine.frame()
	assert.Equal(t, 1, h.renderer.resizes)
	assert.Equal(t, 2*targets, h.renderer.targets)
	w, ht := h.engine.Chain().Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 512, ht)
}

func TestInputIsReplayedOnTheRenderLoop(t *testing.T) {
	var seen []common.InputEvent
	h := newHarness(t)
	t.Cleanup(h.engine.Dispose)
	h.engine.AddInputListener(func(ev common.InputEvent) { seen = append(seen, ev) })

	h.window.onPointerDown(10, 20)
	assert.Equal(t, camera.StateIdle, h.engine.Controller().State(), "input waits for the next frame")

	h.engine.frame()
	assert.Equal(t, camera.StateBoosted, h.engine.Controller().State())
	require.Len(t, seen, 1)
	assert.Equal(t, common.InputEvent{Kind: common.InputPointerDown, X: 10, Y: 20}, seen[0])

	h.window.onLeave()
	h.engine.frame()
	assert.Equal(t, camera.StateIdle, h.engine.Controller().State())
}

func TestBoostAdvancesSimulationTimeFaster(t *testing.T) {
	h := newHarness(t)
	t.Cleanup(h.engine.Dispose)

	h.engine.PostInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeySpace})
	for i := 0; i < 120; i++ {
		h.engine.frame()
	}
	assert.Greater(t, h.engine.Scene().Time(), h.clock.Elapsed())
	assert.Greater(t, h.engine.Controller().Motion().Fov, config.DefaultConfig().Fov)
}

func TestSkippedFrameStillAdvances(t *testing.T) {
	h := newHarness(t)
	t.Cleanup(h.engine.Dispose)
	h.renderer.beginErr = errors.New("surface outdated")
	h.renderer.takeOps()

	h.engine.frame()
	assert.Empty(t, h.renderer.takeOps())
	assert.InDelta(t, 1.0/60, h.engine.Scene().Time(), 1e-12)
}

func TestDispose(t *testing.T) {
	h := newHarness(t)
	require.True(t, h.window.subscribed())

	h.engine.Dispose()
	h.engine.Dispose()

	assert.Equal(t, StateDisposed, h.engine.State())
	assert.False(t, h.window.subscribed())
	assert.Equal(t, 1, h.renderer.releases)
	assert.False(t, h.window.IsRunning())

	h.engine.Resize(1920, 1080)
	h.engine.PostInput(common.InputEvent{Kind: common.InputPointerDown})
	h.engine.frame()
	assert.Zero(t, h.renderer.resizes)
	assert.Zero(t, h.engine.Frames())
	assert.Equal(t, camera.StateIdle, h.engine.Controller().State())

	assert.ErrorIs(t, h.engine.Init(context.Background()), ErrDisposed)
	assert.ErrorIs(t, h.engine.Run(), ErrDisposed)
}

func TestRunUntilDisposed(t *testing.T) {
	h := newHarness(t, WithRenderFrameLimit(500))

	done := make(chan error, 1)
	go func() { done <- h.engine.Run() }()

	require.Eventually(t, func() bool { return h.engine.Frames() >= 3 }, 2*time.Second, 5*time.Millisecond)
	h.engine.Dispose()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Dispose")
	}
	assert.Equal(t, 1, h.renderer.releases)
	assert.False(t, h.window.subscribed())
}

func TestRunRecoversFromPanic(t *testing.T) {
	h := newHarness(t)
	h.renderer.panicOnDraw = true

	done := make(chan error, 1)
	go func() { done <- h.engine.Run() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the render goroutine panicked")
	}
	assert.Equal(t, StateDisposed, h.engine.State())
	assert.Equal(t, 1, h.renderer.releases)
}

func TestRunBeforeInit(t *testing.T) {
	s, err := scene.NewScene(config.DefaultConfig(), scene.WithSeed(1))
	require.NoError(t, err)
	e, err := NewEngine(newFakeWindow(10, 10), &fakeRenderer{}, s)
	require.NoError(t, err)
	assert.Error(t, e.Run())
}
