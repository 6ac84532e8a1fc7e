package animator

import "github.com/Carmen-Shannon/hyperspeed/common"

// AnimatorBuilderOption is a functional option for configuring an Animator during construction.
type AnimatorBuilderOption func(*animator)

// WithMotion sets how fast the object's elements travel and how long their loop is.
//
// Parameters:
//   - speedFactor: signed world units per second of simulation time; negative moves toward the camera
//   - rangeLength: loop length in world units
//
// Returns:
//   - AnimatorBuilderOption: a function that applies the motion to an animator
func WithMotion(speedFactor, rangeLength float64) AnimatorBuilderOption {
	return func(a *animator) {
		a.speedFactor = speedFactor
		a.rangeLength = rangeLength
	}
}

// WithTranslation places the object's mesh in the world.
func WithTranslation(t common.Vec3) AnimatorBuilderOption {
	return func(a *animator) {
		a.translation = t
	}
}

// WithFade enables the along-streak alpha fade with the given smoothstep edges.
// The edge order is kept, so a descending pair fades out toward the tail.
func WithFade(edge0, edge1 float64) AnimatorBuilderOption {
	return func(a *animator) {
		a.fade = [2]float32{float32(edge0), float32(edge1)}
		a.fadeEnabled = true
	}
}

// WithTint multiplies every vertex color.
func WithTint(tint common.Vec3) AnimatorBuilderOption {
	return func(a *animator) {
		a.tint = tint
	}
}

// WithSeedWeight sets how strongly the per-element seed dims the color. One scales the color by the seed.
func WithSeedWeight(w float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.seedWeight = w
	}
}
