package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// eventWait bounds how long the pump blocks waiting for input before running the update callback.
const eventWait = 1.0 / 120.0

type glfwWindow struct {
	window *glfw.Window
}

func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minW, w.minH, glfw.DontCare, glfw.DontCare)
	w.internalWindow = &glfwWindow{window: win}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.RequestClose()
			win.SetShouldClose(true)
			return
		}
		keyDown, keyUp, _, _, _ := w.callbacks()
		switch action {
		case glfw.Press, glfw.Repeat:
			if keyDown != nil {
				keyDown(uint32(key))
			}
		case glfw.Release:
			if keyUp != nil {
				keyUp(uint32(key))
			}
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonLeft {
			return
		}
		_, _, down, up, _ := w.callbacks()
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if down != nil {
				down(x, y)
			}
		case glfw.Release:
			if up != nil {
				up(x, y)
			}
		}
	})

	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		if entered {
			return
		}
		if _, _, _, _, leave := w.callbacks(); leave != nil {
			leave()
		}
	})

	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if resize := w.setFramebufferSize(width, height); resize != nil {
			resize(width, height)
		}
	})

	fbWidth, fbHeight := win.GetFramebufferSize()
	w.setFramebufferSize(fbWidth, fbHeight)
	return nil
}

func platformWindow(w *engineWindow) *glfwWindow {
	gw, _ := w.internalWindow.(*glfwWindow)
	return gw
}

func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw := platformWindow(w)
	if gw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformIsRunningCheck(w *engineWindow) bool {
	gw := platformWindow(w)
	return gw != nil && !gw.window.ShouldClose()
}

func platformCloseWindow(w *engineWindow) error {
	gw := platformWindow(w)
	if gw == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw.window.SetShouldClose(true)
	gw.window.Destroy()
	w.internalWindow = nil
	glfw.Terminate()
	return nil
}

func platformProcessMessages(w *engineWindow) {
	glfw.WaitEventsTimeout(eventWait)
}
