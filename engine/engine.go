package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/engine/camera"
	"github.com/Carmen-Shannon/hyperspeed/engine/profiler"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/hyperspeed/engine/scene"
	"github.com/Carmen-Shannon/hyperspeed/engine/window"
)

// ErrDisposed is returned by Init and Run once the engine has been disposed.
var ErrDisposed = errors.New("engine disposed")

// State is the lifecycle state of the engine.
type State int32

const (
	// StateRunning accepts input and renders frames.
	StateRunning State = iota
	// StateDisposed is terminal: no further frames, input or resizes are processed.
	StateDisposed
)

func (s State) String() string {
	if s == StateDisposed {
		return "disposed"
	}
	return "running"
}

// Renderer is everything the engine, its scene and its post chain record with.
type Renderer interface {
	scene.Renderer
	postprocess.Renderer

	BeginFrame() error
	EndScenePass()
	EndFrame()
	Present()
	Resize(width, height int)
	SetClearColor(c common.Color)
	Release()
}

type engine struct {
	mu *sync.Mutex

	window     window.Window
	renderer   Renderer
	scene      scene.Scene
	chain      postprocess.Chain
	controller camera.SpeedController
	clock      Clock

	state       atomic.Int32
	initialized bool
	started     bool
	frames      atomic.Uint64

	inputMu *sync.Mutex
	input   []common.InputEvent
	onInput []func(ev common.InputEvent)
	onFrame func(simTime float64)

	// pendingW and pendingH are the most recent size reported by the window; width and height the configured one.
	pendingW, pendingH int
	width, height      int

	profiler         *profiler.Profiler
	profilingEnabled atomic.Bool
	renderFrameLimit time.Duration

	wg          sync.WaitGroup
	quitChannel chan struct{}
	disposeOnce sync.Once
	releaseOnce sync.Once
}

// Engine drives the effect: it owns the clock, replays window input into the speed controller and runs
// the render loop on its own goroutine, one frame in flight at a time.
type Engine interface {
	// Init uploads the scene, prepares the post chain and subscribes to the window. The SMAA lookup
	// tables are loaded here, so the first frame waits on them.
	//
	// Parameters:
	//   - ctx: bounds the asset loading
	//
	// Returns:
	//   - error: an upload or pipeline error, or ErrDisposed
	Init(ctx context.Context) error

	// Run starts the render goroutine and pumps window messages on the calling (main) thread until the
	// window closes or Dispose is called. Resources are released before it returns.
	//
	// Returns:
	//   - error: Run before Init, or ErrDisposed
	Run() error

	// Dispose stops the render loop and unsubscribes from the window. Safe to call multiple times and
	// from any goroutine.
	Dispose()

	// State returns the lifecycle state.
	State() State

	// Resize records a new framebuffer size. The next frame applies it; it is ignored once disposed.
	Resize(width, height int)

	// PostInput queues a window input event for the render goroutine. Ignored once disposed.
	PostInput(ev common.InputEvent)

	// AddInputListener registers a function called on the render goroutine for every replayed input event,
	// after the speed controller has seen it.
	AddInputListener(listener func(ev common.InputEvent))

	// Frames returns the number of frames rendered so far.
	Frames() uint64

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	SetRenderFrameLimit(fps float64)

	Scene() scene.Scene
	Chain() postprocess.Chain
	Controller() camera.SpeedController
	Window() window.Window
}

var _ Engine = &engine{}

// NewEngine wires a window, a renderer and a built scene into an engine in the Running state.
// Unless overridden by options, it creates the speed controller for the scene's camera and config and a
// post chain with bloom and SMAA MEDIUM.
//
// Parameters:
//   - win: the window to render into and take input from
//   - r: the renderer created for win
//   - s: the scene, built but not yet initialized
//   - options: builder options
//
// Returns:
//   - Engine: the engine
//   - error: the speed controller could not be created
func NewEngine(win window.Window, r Renderer, s scene.Scene, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:          &sync.Mutex{},
		inputMu:     &sync.Mutex{},
		window:      win,
		renderer:    r,
		scene:       s,
		profiler:    profiler.NewProfiler(),
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.controller == nil {
		ctrl, err := camera.NewSpeedController(s.Camera(), s.Config())
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.controller = ctrl
	}
	if e.chain == nil {
		e.chain = postprocess.NewChain(r)
	}
	if e.clock == nil {
		e.clock = NewClock()
	}
	return e, nil
}

func (e *engine) Init(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.State() == StateDisposed {
		return ErrDisposed
	}
	if e.initialized {
		return nil
	}

	if err := e.scene.Init(e.renderer); err != nil {
		return fmt.Errorf("engine init: %w", err)
	}

	w, h := e.window.FramebufferSize()
	if err := e.chain.Init(ctx, w, h); err != nil {
		return fmt.Errorf("engine init: %w", err)
	}
	e.width, e.height = w, h
	e.pendingW, e.pendingH = w, h
	if h > 0 {
		e.scene.Camera().SetAspect(float32(w) / float32(h))
	}
	e.renderer.SetClearColor(e.scene.Config().Colors.Background)
	e.subscribe()

	e.initialized = true
	log.Printf("[Engine] initialized at %dx%d (SMAA: %t)", w, h, e.chain.AAEnabled())
	return nil
}

// subscribe must be called with mu held.
func (e *engine) subscribe() {
	e.window.SetResizeCallback(e.Resize)
	e.window.SetPointerDownCallback(func(x, y float64) {
		e.PostInput(common.InputEvent{Kind: common.InputPointerDown, X: x, Y: y})
	})
	e.window.SetPointerUpCallback(func(x, y float64) {
		e.PostInput(common.InputEvent{Kind: common.InputPointerUp, X: x, Y: y})
	})
	e.window.SetPointerLeaveCallback(func() {
		e.PostInput(common.InputEvent{Kind: common.InputPointerLeave})
	})
	e.window.SetKeyDownCallback(func(key uint32) {
		e.PostInput(common.InputEvent{Kind: common.InputKeyDown, Key: key})
	})
	e.window.SetKeyUpCallback(func(key uint32) {
		e.PostInput(common.InputEvent{Kind: common.InputKeyUp, Key: key})
	})
}

func (e *engine) unsubscribe() {
	e.window.SetResizeCallback(nil)
	e.window.SetPointerDownCallback(nil)
	e.window.SetPointerUpCallback(nil)
	e.window.SetPointerLeaveCallback(nil)
	e.window.SetKeyDownCallback(nil)
	e.window.SetKeyUpCallback(nil)
	e.window.SetUpdateCallback(nil)
}

func (e *engine) Run() error {
	e.mu.Lock()
	if e.State() == StateDisposed {
		e.mu.Unlock()
		return ErrDisposed
	}
	if !e.initialized {
		e.mu.Unlock()
		return fmt.Errorf("engine run before Init")
	}
	e.started = true
	e.mu.Unlock()

	e.clock.Start()
	e.wg.Add(1)
	go e.handleRender()

	e.window.ProcessMessages()

	e.Dispose()
	e.wg.Wait()
	e.release()
	return nil
}

func (e *engine) Dispose() {
	e.stop()

	e.mu.Lock()
	started := e.started
	e.mu.Unlock()
	if !started {
		e.release()
	}
}

// release frees the post chain, the scene and the renderer, in that order, exactly once.
func (e *engine) release() {
	e.releaseOnce.Do(func() {
		e.chain.Release()
		e.scene.Release()
		e.renderer.Release()
	})
}

func (e *engine) State() State {
	return State(e.state.Load())
}

func (e *engine) Resize(width, height int) {
	if e.State() == StateDisposed {
		return
	}
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.pendingW, e.pendingH = width, height
}

func (e *engine) PostInput(ev common.InputEvent) {
	if e.State() == StateDisposed {
		return
	}
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.input = append(e.input, ev)
}

func (e *engine) AddInputListener(listener func(ev common.InputEvent)) {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	e.onInput = append(e.onInput, listener)
}

func (e *engine) Frames() uint64 {
	return e.frames.Load()
}

func (e *engine) EnableProfiler() {
	if !e.profilingEnabled.Swap(true) {
		e.profiler.Reset()
	}
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled.Store(false)
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renderFrameLimit = frameLimit(fps)
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Chain() postprocess.Chain {
	return e.chain
}

func (e *engine) Controller() camera.SpeedController {
	return e.controller
}

func (e *engine) Window() window.Window {
	return e.window
}

func frameLimit(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}

// handleRender runs the render loop in its own goroutine until the engine is disposed.
// Recovers from panics to avoid crashing the process and disposes on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.stop()
		}
	}()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		start := time.Now()
		e.frame()

		if e.profilingEnabled.Load() {
			m := e.controller.Motion()
			e.profiler.Tick(profiler.Sample{FrameTime: time.Since(start), Speed: m.Speed, Fov: m.Fov})
		}

		e.mu.Lock()
		limit := e.renderFrameLimit
		e.mu.Unlock()
		if limit > 0 {
			if remaining := limit - time.Since(start); remaining > 0 {
				select {
				case <-e.quitChannel:
					return
				case <-time.After(remaining):
				}
			}
		}
	}
}

// stop moves to Disposed, signals the render goroutine and drops the window subscriptions. It does not wait,
// so the render goroutine may call it.
func (e *engine) stop() {
	e.disposeOnce.Do(func() {
		e.state.Store(int32(StateDisposed))
		close(e.quitChannel)
		e.unsubscribe()
		e.window.RequestClose()
		log.Printf("[Engine] disposed after %d frames", e.frames.Load())
	})
}

// frame renders one frame with the uniforms of the previous update, then advances the simulation.
// Only the render goroutine calls it.
func (e *engine) frame() {
	if e.State() == StateDisposed {
		return
	}

	e.drainInput()
	e.applyResize()

	delta := e.clock.Delta()
	e.render()

	simTime := e.controller.Update(delta, e.clock.Elapsed())
	e.scene.SetTime(simTime)
	e.scene.Update()

	e.frames.Add(1)
	if e.onFrame != nil {
		e.onFrame(simTime)
	}
}

// drainInput replays queued input into the controller, so the controller only ever sees the render goroutine.
func (e *engine) drainInput() {
	e.inputMu.Lock()
	events := e.input
	e.input = nil
	listeners := e.onInput
	e.inputMu.Unlock()

	for _, ev := range events {
		e.controller.HandleInput(ev)
		if ev.Kind == common.InputKeyDown && ev.Key == common.KeyP {
			e.toggleProfiler()
		}
		for _, l := range listeners {
			l(ev)
		}
	}
}

func (e *engine) toggleProfiler() {
	if e.profilingEnabled.Load() {
		e.DisableProfiler()
		log.Printf("[Engine] profiler disabled")
		return
	}
	e.EnableProfiler()
	log.Printf("[Engine] profiler enabled")
}

// applyResize reconfigures the surface, the post targets and the camera aspect when the size changed.
// A repeated size, or a zero size from a minimized window, changes nothing.
//
// Returns:
//   - bool: whether anything was resized
func (e *engine) applyResize() bool {
	e.inputMu.Lock()
	w, h := e.pendingW, e.pendingH
	e.inputMu.Unlock()

	if w <= 0 || h <= 0 || (w == e.width && h == e.height) {
		return false
	}

	e.renderer.Resize(w, h)
	if err := e.chain.Resize(w, h); err != nil {
		log.Printf("[Engine] resize to %dx%d: %v", w, h, err)
		return false
	}
	e.scene.Camera().SetAspect(float32(w) / float32(h))
	e.width, e.height = w, h
	return true
}

// render records the scene pass, the post chain and presents. Failures are logged and the frame is dropped.
func (e *engine) render() {
	if err := e.renderer.BeginFrame(); err != nil {
		log.Printf("[Engine] frame skipped: %v", err)
		return
	}
	if err := e.scene.DrawCalls(); err != nil {
		log.Printf("[Engine] scene pass: %v", err)
	}
	e.renderer.EndScenePass()
	if err := e.chain.Render(); err != nil {
		log.Printf("[Engine] post chain: %v", err)
	}
	e.renderer.EndFrame()
	e.renderer.Present()
}
