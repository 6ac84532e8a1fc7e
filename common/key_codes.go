package common

// Key codes understood by the input handlers. They mirror GLFW's values, which use ASCII for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // boost while held
	KeyB     = 66  // previous track
	KeyM     = 77  // mute toggle
	KeyN     = 78  // next track
	KeyP     = 80  // profiler toggle
	KeyEsc   = 256 // quit
)
