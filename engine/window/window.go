package window

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the platform window the effect renders into. Input callbacks are delivered on the thread that
// runs ProcessMessages; passing nil to any setter removes the callback.
type Window interface {
	// SetUpdateCallback registers a function called once per message pump iteration.
	SetUpdateCallback(callback func())

	// SetResizeCallback registers a function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: receives the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback registers a function called on key press and key repeat.
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback registers a function called on key release.
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetPointerDownCallback registers a function called when the primary mouse button is pressed.
	//
	// Parameters:
	//   - callback: receives the cursor position in window coordinates
	SetPointerDownCallback(callback func(x, y float64))

	// SetPointerUpCallback registers a function called when the primary mouse button is released.
	SetPointerUpCallback(callback func(x, y float64))

	// SetPointerLeaveCallback registers a function called when the cursor leaves the window.
	SetPointerLeaveCallback(callback func())

	// SurfaceDescriptor returns the descriptor used to create a GPU surface for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning reports whether the window is open and has not been asked to close.
	IsRunning() bool

	// RequestClose asks the message pump to stop. Safe to call from any goroutine.
	RequestClose()

	// Close destroys the window and terminates the platform layer. Must be called on the main thread.
	Close() error

	// ProcessMessages pumps platform events until the window closes. It blocks the calling (main) thread.
	ProcessMessages()

	// FramebufferSize returns the current framebuffer size in pixels. Safe to call from any goroutine.
	//
	// Returns:
	//   - int: width
	//   - int: height
	FramebufferSize() (int, int)
}

type engineWindow struct {
	mu *sync.Mutex

	title         string
	width, height int
	minW, minH    int
	closeRequest  bool

	internalWindow any

	onUpdate       func()
	onResize       func(width, height int)
	onKeyDown      func(keyCode uint32)
	onKeyUp        func(keyCode uint32)
	onPointerDown  func(x, y float64)
	onPointerUp    func(x, y float64)
	onPointerLeave func()
}

var _ Window = &engineWindow{}

// NewWindow opens a window. Failing to create it panics since nothing else can run without one.
//
// Parameters:
//   - options: builder options
//
// Returns:
//   - Window: the open window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		mu:     &sync.Mutex{},
		title:  "hyperspeed",
		width:  1280,
		height: 720,
		minW:   320,
		minH:   180,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onKeyUp = callback
}

func (w *engineWindow) SetPointerDownCallback(callback func(x, y float64)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPointerDown = callback
}

func (w *engineWindow) SetPointerUpCallback(callback func(x, y float64)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPointerUp = callback
}

func (w *engineWindow) SetPointerLeaveCallback(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onPointerLeave = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	w.mu.Lock()
	requested := w.closeRequest
	w.mu.Unlock()
	return !requested && platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequest = true
}

func (w *engineWindow) Close() error {
	w.RequestClose()
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		platformProcessMessages(w)

		w.mu.Lock()
		update := w.onUpdate
		w.mu.Unlock()
		if update != nil {
			update()
		}
	}
}

func (w *engineWindow) FramebufferSize() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// setFramebufferSize records a new size and returns the resize callback to invoke outside the lock.
func (w *engineWindow) setFramebufferSize(width, height int) func(int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
	return w.onResize
}

// callbacks returns a consistent snapshot of the input callbacks.
func (w *engineWindow) callbacks() (keyDown, keyUp func(uint32), down, up func(float64, float64), leave func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onKeyDown, w.onKeyUp, w.onPointerDown, w.onPointerUp, w.onPointerLeave
}
