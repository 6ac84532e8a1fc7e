package scene

import (
	"math"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// StickSpeedFactor and StickRange drive the sticks' drift.
	StickSpeedFactor = 0.6
	StickRange       = 100
)

// SticksX is where a stick group's mesh is centred: the outer edge of its carriageway.
func SticksX(cfg *config.EffectConfig, left bool) float64 {
	x := cfg.RoadWidth + cfg.IslandWidth/2
	if left {
		return -x
	}
	return x
}

// buildSticks scatters short segments beside one carriageway. Each endpoint gets its own height and depth.
func buildSticks(cfg *config.EffectConfig, rng *common.Rand) *Mesh {
	m := &Mesh{Topology: wgpu.PrimitiveTopologyLineList}
	color := cfg.Colors.Sticks.RGB()

	depth := func() float32 {
		return float32(-rng.Float64()*cfg.RoadWidth*2 - cfg.RoadWidth - cfg.IslandWidth)
	}
	for i := 0; i < cfg.TotalSideLightSticks; i++ {
		r := float32(rng.Float64())
		width := float32(math.Max(0.1, rng.Float64()) * 0.1)

		a := Vertex{Position: common.Vec3{-width, float32(rng.Float64() * 0.5), depth()}, Seed: r, Color: color}
		b := Vertex{Position: common.Vec3{width, float32(rng.Float64() * 0.5), depth()}, Seed: r, Color: color}
		m.addLine(a, b)
	}
	return m
}

func sticksAnimatorOptions(cfg *config.EffectConfig, s side) []animator.AnimatorBuilderOption {
	return []animator.AnimatorBuilderOption{
		animator.WithTranslation(common.Vec3{float32(SticksX(cfg, s == sideLeft)), 0, 0}),
		animator.WithMotion(StickSpeedFactor, StickRange),
		animator.WithSeedWeight(1),
	}
}
