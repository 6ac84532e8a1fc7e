package scene

import (
	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// streakHeight lifts the streaks off the road surface.
	streakHeight = 0.5
	// streak lengths are drawn from this fraction range of the road length.
	minStreakFraction = 0.03
	maxStreakFraction = 0.2
)

// side selects the carriageway a group of objects belongs to.
type side int

const (
	sideLeft side = iota
	sideRight
)

// sign is -1 on the left and +1 on the right.
func (s side) sign() float64 {
	if s == sideLeft {
		return -1
	}
	return 1
}

// CarLightsX is where a car light group's mesh is centred: the middle of its carriageway.
func CarLightsX(cfg *config.EffectConfig, left bool) float64 {
	x := cfg.RoadWidth/2 + cfg.IslandWidth/2
	if left {
		return -x
	}
	return x
}

// buildCarLights creates one streak per light pair, spread over the lanes of one carriageway.
// Coordinates are relative to the carriageway centre.
func buildCarLights(cfg *config.EffectConfig, rng *common.Rand, palette []common.Color) *Mesh {
	m := &Mesh{Topology: wgpu.PrimitiveTopologyLineList}

	laneWidth := cfg.RoadWidth / float64(cfg.LanesPerRoad)
	for i := 0; i < cfg.LightPairsPerRoadWay; i++ {
		r := float32(rng.Float64())
		lane := i % cfg.LanesPerRoad
		centre := -cfg.RoadWidth/2 + laneWidth*(float64(lane)+0.5)
		x := float32(centre + (rng.Float64()-0.5)*laneWidth*0.5)

		head := -rng.Float64() * cfg.Length
		tail := head - rng.RangeF(cfg.Length*minStreakFraction, cfg.Length*maxStreakFraction)
		color := common.Pick(rng, palette).RGB()

		m.addLine(
			Vertex{Position: common.Vec3{x, streakHeight, float32(head)}, Seed: r, Color: color, Along: 0},
			Vertex{Position: common.Vec3{x, streakHeight, float32(tail)}, Seed: r, Color: color, Along: 1},
		)
	}
	return m
}

// carLightsAnimatorOptions move the left group away from the viewer and the right group toward it.
// The fade keeps the bright end of each streak at the front of the car.
func carLightsAnimatorOptions(cfg *config.EffectConfig, s side) []animator.AnimatorBuilderOption {
	x := float32(CarLightsX(cfg, s == sideLeft))
	opts := []animator.AnimatorBuilderOption{
		animator.WithTranslation(common.Vec3{x, 0, 0}),
		animator.WithSeedWeight(1),
	}
	if s == sideLeft {
		return append(opts,
			animator.WithMotion(cfg.MovingAwaySpeed, cfg.Length),
			animator.WithFade(0, 1-cfg.CarLightsFade),
		)
	}
	return append(opts,
		animator.WithMotion(-cfg.MovingCloserSpeed, cfg.Length),
		animator.WithFade(1, cfg.CarLightsFade),
	)
}
