package camera

import (
	"fmt"
	"math"

	"github.com/Carmen-Shannon/hyperspeed/common"
)

// DistortionStrength is the progress value the look-at offset is sampled at each frame.
const DistortionStrength = 0.025

// Distortion bends where the camera looks as simulation time advances.
type Distortion interface {
	// Name returns the preset name.
	Name() string

	// LookOffset returns the direction from the camera position to its look-at point.
	//
	// Parameters:
	//   - progress: how far along the road the sample is taken
	//   - time: simulation time in seconds
	//
	// Returns:
	//   - common.Vec3: the offset added to the camera position
	LookOffset(progress, time float64) common.Vec3
}

// DistortionFunc adapts a plain function to the Distortion interface.
type DistortionFunc struct {
	Label string
	Fn    func(progress, time float64) common.Vec3
}

var _ Distortion = DistortionFunc{}

func (d DistortionFunc) Name() string {
	return d.Label
}

func (d DistortionFunc) LookOffset(progress, time float64) common.Vec3 {
	return d.Fn(progress, time)
}

// nsin is sin remapped to [0, 1].
func nsin(v float64) float64 {
	return math.Sin(v)*0.5 + 0.5
}

func vec(x, y, z float64) common.Vec3 {
	return common.Vec3{float32(x), float32(y), float32(z)}
}

// Turbulent sways the view with two stacked waves per axis.
var Turbulent Distortion = DistortionFunc{Label: "turbulent", Fn: func(progress, t float64) common.Vec3 {
	freq := [4]float64{4, 8, 8, 1}
	amp := [4]float64{25, 5, 10, 10}
	getX := func(p float64) float64 {
		return math.Cos(math.Pi*p*freq[0]+t)*amp[0] +
			math.Pow(math.Cos(math.Pi*p*freq[1]+t*(freq[1]/freq[0])), 2)*amp[1]
	}
	getY := func(p float64) float64 {
		return -nsin(math.Pi*p*freq[2]+t)*amp[2] -
			math.Pow(nsin(math.Pi*p*freq[3]+t/(freq[2]/freq[3])), 5)*amp[3]
	}
	dx := getX(progress) - getX(progress+0.007)
	dy := getY(progress) - getY(progress+0.007)
	return vec(dx*-2, dy*-5, -10)
}}

// Mountain rolls the view over hills on all three axes.
var Mountain Distortion = DistortionFunc{Label: "mountain", Fn: func(progress, t float64) common.Vec3 {
	const fix = 0.02
	freq := [3]float64{3, 6, 10}
	amp := [3]float64{30, 30, 20}
	x := math.Cos(progress*math.Pi*freq[0]+t)*amp[0] - math.Cos(fix*math.Pi*freq[0]+t)*amp[0]
	y := nsin(progress*math.Pi*freq[1]+t)*amp[1] - nsin(fix*math.Pi*freq[1]+t)*amp[1]
	z := nsin(progress*math.Pi*freq[2]+t)*amp[2] - nsin(fix*math.Pi*freq[2]+t)*amp[2]
	return vec(x*2, y*2, z*2-5)
}}

// XY weaves the view sideways and vertically out of phase.
var XY Distortion = DistortionFunc{Label: "xy", Fn: func(progress, t float64) common.Vec3 {
	const fix = 0.02
	freq := [2]float64{5, 2}
	amp := [2]float64{25, 15}
	x := math.Cos(progress*math.Pi*freq[0]+t)*amp[0] - math.Cos(fix*math.Pi*freq[0]+t)*amp[0]
	y := math.Sin(progress*math.Pi*freq[1]+t+math.Pi/2)*amp[1] - math.Sin(fix*math.Pi*freq[1]+t+math.Pi/2)*amp[1]
	return vec(x*2, y*0.4, -3)
}}

var distortions = map[string]Distortion{
	Turbulent.Name(): Turbulent,
	Mountain.Name():  Mountain,
	XY.Name():        XY,
}

// DistortionByName resolves a preset. The empty name means no distortion and returns nil, nil.
//
// Parameters:
//   - name: the preset name
//
// Returns:
//   - Distortion: the preset, or nil for the empty name
//   - error: an unknown name
func DistortionByName(name string) (Distortion, error) {
	if name == "" {
		return nil, nil
	}
	d, ok := distortions[name]
	if !ok {
		return nil, fmt.Errorf("unknown distortion %q", name)
	}
	return d, nil
}
