package renderer

// RendererBackendType selects the graphics API implementation.
type RendererBackendType int

const (
	// BackendTypeWGPU renders through WebGPU.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how frames are handed to the display.
type PresentMode int

const (
	// PresentModeVSync waits for vertical blank.
	PresentModeVSync PresentMode = iota
	// PresentModeUncapped presents immediately.
	PresentModeUncapped
)

// MSAASampleCount is the sample count of the scene pass.
type MSAASampleCount uint32

const (
	MSAAOff MSAASampleCount = 1
	MSAA4x  MSAASampleCount = 4
)

// RendererBackend is the API-specific half of the Renderer.
type RendererBackend interface {
	wgpuRendererBackend
}
