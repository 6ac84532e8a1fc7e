package common

import "math"

// Lerp returns the step that moves current toward target by rate.
// When the step is smaller in magnitude than minStep the full remaining distance is returned,
// so repeated application lands on target exactly instead of approaching it forever.
//
// Parameters:
//   - current: the present value
//   - target: the value being approached
//   - rate: the fraction of the remaining distance to cover, in (0, 1]
//   - minStep: the snapping threshold
//
// Returns:
//   - float64: the amount to add to current
func Lerp(current, target, rate, minStep float64) float64 {
	step := (target - current) * rate
	if math.Abs(step) < minStep {
		step = target - current
	}
	return step
}

// EaseRate converts a frame delta into a frame-rate independent easing rate in (0, 1].
// The reference frame rate k describes how many 10% steps would be taken per second.
//
// Parameters:
//   - k: reference frame rate
//   - delta: elapsed seconds since the previous frame
//
// Returns:
//   - float64: the rate to feed Lerp
func EaseRate(k, delta float64) float64 {
	coefficient := -k * math.Log2(1-0.1)
	return math.Exp(-coefficient * delta)
}

// Mod is the euclidean modulo, always returning a value in [0, m) for m > 0.
func Mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	// math.Mod of a tiny negative value can round up to m after the shift.
	if r >= m {
		r = 0
	}
	return r
}

// WrapOffset returns the position of an element on a looping track.
// The result lies in [-rangeLength/2, rangeLength/2) for every time and seed.
//
// Parameters:
//   - time: simulation time in seconds
//   - r: per-element seed in [0, 1)
//   - speedFactor: track units per second
//   - rangeLength: length of the loop
//
// Returns:
//   - float64: the wrapped offset
func WrapOffset(time, r, speedFactor, rangeLength float64) float64 {
	return WrapPhase(Mod(time*speedFactor, rangeLength), r, rangeLength)
}

// WrapPhase applies a per-element seed to an already folded phase in [0, rangeLength).
func WrapPhase(phase, r, rangeLength float64) float64 {
	return Mod(phase+r*rangeLength, rangeLength) - rangeLength/2
}

// FogFactor returns the linear fog visibility for a fragment at the given view depth.
// One means fully visible, zero means fully fogged.
func FogFactor(depth, near, far float64) float64 {
	if far <= near {
		if depth <= near {
			return 1
		}
		return 0
	}
	return Clamp((far-depth)/(far-near), 0, 1)
}

// Smoothstep is the hermite step between edge0 and edge1. Equal edges degrade to a hard step.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := Clamp((x-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
