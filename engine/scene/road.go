package scene

import (
	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/animator"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// dashesPerLength is how many lane dash periods fit the road length.
	dashesPerLength = 40
	// markingWidthFactor scales the road width into the painted line width.
	markingWidthFactor = 0.01
)

// DashPeriod is the length of one dash plus its gap.
func DashPeriod(cfg *config.EffectConfig) float64 {
	return cfg.Length / dashesPerLength
}

// RoadScrollSpeed is the ground speed implied by the two traffic speeds: oncoming cars close at
// their speed plus ours, cars ahead recede at their speed minus ours.
func RoadScrollSpeed(cfg *config.EffectConfig) float64 {
	v := (cfg.MovingCloserSpeed - cfg.MovingAwaySpeed) / 2
	if v <= 0 {
		v = cfg.MovingCloserSpeed / 2
	}
	return v
}

// buildRoad lays out both carriageways, the island between them and the markings as one triangle list.
// Surfaces come first in the index buffer so the markings are painted over them.
func buildRoad(cfg *config.EffectConfig) *Mesh {
	m := &Mesh{Topology: wgpu.PrimitiveTopologyTriangleList}

	halfIsland := float32(cfg.IslandWidth / 2)
	roadWidth := float32(cfg.RoadWidth)
	length := float32(cfg.Length)
	roadColor := cfg.Colors.Road.RGB()
	lineColor := cfg.Colors.RoadLine.RGB()

	// Carriageways span [-Length, 0] and sit either side of the island.
	m.addQuad(-halfIsland-roadWidth, -halfIsland, -length, 0, 0, roadColor, 0)
	m.addQuad(halfIsland, halfIsland+roadWidth, -length, 0, 0, roadColor, 0)
	m.addQuad(-halfIsland, halfIsland, -length, 0, 0, cfg.Colors.Island.RGB(), 0)

	lineWidth := roadWidth * markingWidthFactor
	solid := func(x float32) {
		m.addQuad(x-lineWidth/2, x+lineWidth/2, -length, 0, 0, lineColor, 0)
	}
	for _, edge := range []float32{-halfIsland - roadWidth, -halfIsland, halfIsland, halfIsland + roadWidth} {
		solid(edge)
	}

	laneWidth := roadWidth / float32(cfg.LanesPerRoad)
	period := float32(DashPeriod(cfg))
	for _, start := range []float32{-halfIsland - roadWidth, halfIsland} {
		for lane := 1; lane < cfg.LanesPerRoad; lane++ {
			x := start + laneWidth*float32(lane)
			// One extra dash at each end keeps the ends covered while the pattern scrolls.
			for j := -1; j <= dashesPerLength; j++ {
				z0 := -float32(j) * period
				m.addQuad(x-lineWidth/2, x+lineWidth/2, z0-period/2, z0, 0, lineColor, 1)
			}
		}
	}
	return m
}

// roadAnimatorOptions scroll the lane dashes by one period. The road itself never moves.
func roadAnimatorOptions(cfg *config.EffectConfig) []animator.AnimatorBuilderOption {
	return []animator.AnimatorBuilderOption{
		animator.WithMotion(RoadScrollSpeed(cfg), DashPeriod(cfg)),
		animator.WithTranslation(common.Vec3{}),
	}
}
