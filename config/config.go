// package config describes the tunables of the highway effect and loads them from embedded presets,
// optional user files and the environment.
package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/hyperspeed/common"
)

// ErrInvalidConfig is wrapped by every ValidationError.
var ErrInvalidConfig = errors.New("invalid effect config")

// Palette holds every color the effect draws with.
type Palette struct {
	Background common.Color
	LeftCars   []common.Color
	RightCars  []common.Color
	Road       common.Color
	RoadLine   common.Color
	Island     common.Color
	Sticks     common.Color
}

// EffectConfig is the immutable description of a highway scene.
// Distances are world units, speeds are world units per second and angles are degrees.
type EffectConfig struct {
	Fov        float64
	FovSpeedUp float64
	SpeedUp    float64

	RoadWidth    float64
	IslandWidth  float64
	Length       float64
	LanesPerRoad int

	CarLightsFade     float64
	MovingAwaySpeed   float64
	MovingCloserSpeed float64

	LightPairsPerRoadWay int
	TotalSideLightSticks int

	// ReferenceFrameRate scales the easing so that motion feels the same at any refresh rate.
	ReferenceFrameRate float64

	// Distortion names the look-direction wobble. Empty disables it.
	Distortion string

	Colors Palette
}

// DefaultConfig returns the stock look: purple traffic leaving, cyan traffic arriving, on a near black road.
func DefaultConfig() *EffectConfig {
	return &EffectConfig{
		Fov:                  90,
		FovSpeedUp:           150,
		SpeedUp:              2,
		RoadWidth:            10,
		IslandWidth:          2,
		Length:               400,
		LanesPerRoad:         4,
		CarLightsFade:        0.4,
		MovingAwaySpeed:      60,
		MovingCloserSpeed:    120,
		LightPairsPerRoadWay: 40,
		TotalSideLightSticks: 15,
		ReferenceFrameRate:   60,
		Distortion:           "turbulent",
		Colors: Palette{
			Background: 0x000000,
			LeftCars:   []common.Color{0xd856bf, 0x6750a2, 0xc247ac},
			RightCars:  []common.Color{0x03b3c3, 0x0e5ea5, 0x324555},
			Road:       0x080808,
			RoadLine:   0xffffff,
			Island:     0x0a0a0a,
			Sticks:     0x03b3c3,
		},
	}
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}

// Validate checks the invariants the scene builder depends on.
//
// Returns:
//   - error: a *ValidationError describing all problems, or nil
func (c *EffectConfig) Validate() error {
	var problems []string
	positive := func(name string, v float64) {
		if !(v > 0) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must be finite and > 0, got %v", name, v))
		}
	}
	atLeastOne := func(name string, v int) {
		if v < 1 {
			problems = append(problems, fmt.Sprintf("%s must be >= 1, got %d", name, v))
		}
	}
	angle := func(name string, v float64) {
		if !(v > 0 && v < 180) {
			problems = append(problems, fmt.Sprintf("%s must be within (0, 180) degrees, got %v", name, v))
		}
	}

	angle("fov", c.Fov)
	angle("fov_speed_up", c.FovSpeedUp)
	positive("speed_up", c.SpeedUp)
	positive("road_width", c.RoadWidth)
	positive("island_width", c.IslandWidth)
	positive("length", c.Length)
	positive("moving_away_speed", c.MovingAwaySpeed)
	positive("moving_closer_speed", c.MovingCloserSpeed)
	positive("reference_frame_rate", c.ReferenceFrameRate)
	atLeastOne("lanes_per_road", c.LanesPerRoad)
	atLeastOne("light_pairs_per_road_way", c.LightPairsPerRoadWay)
	atLeastOne("total_side_light_sticks", c.TotalSideLightSticks)

	if !(c.CarLightsFade >= 0 && c.CarLightsFade <= 1) {
		problems = append(problems, fmt.Sprintf("car_lights_fade must be within [0, 1], got %v", c.CarLightsFade))
	}
	if len(c.Colors.LeftCars) == 0 {
		problems = append(problems, "colors.left_cars must not be empty")
	}
	if len(c.Colors.RightCars) == 0 {
		problems = append(problems, "colors.right_cars must not be empty")
	}
	if c.Distortion != "" && !IsDistortionName(c.Distortion) {
		problems = append(problems, fmt.Sprintf("distortion %q is unknown (want one of %s)", c.Distortion, strings.Join(DistortionNames, ", ")))
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// DistortionNames lists the look-direction presets the camera understands.
var DistortionNames = []string{"turbulent", "mountain", "xy"}

// IsDistortionName reports whether name is a known distortion preset.
func IsDistortionName(name string) bool {
	return slices.Contains(DistortionNames, name)
}

// Clone returns a deep copy so callers can tweak a config without touching a shared one.
func (c *EffectConfig) Clone() *EffectConfig {
	out := *c
	out.Colors.LeftCars = append([]common.Color(nil), c.Colors.LeftCars...)
	out.Colors.RightCars = append([]common.Color(nil), c.Colors.RightCars...)
	return &out
}
