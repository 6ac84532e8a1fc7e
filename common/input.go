package common

// InputKind identifies what produced an InputEvent.
type InputKind int

const (
	InputPointerDown InputKind = iota
	InputPointerUp
	InputPointerLeave
	InputKeyDown
	InputKeyUp
)

// String returns the kind's name for logging.
func (k InputKind) String() string {
	switch k {
	case InputPointerDown:
		return "pointer-down"
	case InputPointerUp:
		return "pointer-up"
	case InputPointerLeave:
		return "pointer-leave"
	case InputKeyDown:
		return "key-down"
	case InputKeyUp:
		return "key-up"
	default:
		return "unknown"
	}
}

// InputEvent is a window input captured on the main thread and replayed on the render goroutine.
// X and Y are set for pointer events, Key for key events.
type InputEvent struct {
	Kind InputKind
	X, Y float64
	Key  uint32
}
