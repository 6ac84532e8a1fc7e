package postprocess

import "time"

// ChainBuilderOption is a functional option for configuring a Chain.
type ChainBuilderOption func(*chain)

// WithBloom replaces the default bloom settings.
func WithBloom(settings BloomSettings) ChainBuilderOption {
	return func(c *chain) {
		c.bloom = settings
	}
}

// WithSMAA selects the anti-aliasing preset. SMAAPresetOff skips the tables and the SMAA passes.
func WithSMAA(preset SMAAPreset) ChainBuilderOption {
	return func(c *chain) {
		c.smaa = preset
	}
}

// WithAssetSources replaces where the SMAA tables come from. Nil keeps the generated default.
//
// Parameters:
//   - area: the area table source
//   - search: the search table source
//
// Returns:
//   - ChainBuilderOption: option function to apply
func WithAssetSources(area, search AssetSource) ChainBuilderOption {
	return func(c *chain) {
		if area != nil {
			c.area = area
		}
		if search != nil {
			c.search = search
		}
	}
}

// WithAssetTimeout bounds how long Init waits for the SMAA tables.
func WithAssetTimeout(d time.Duration) ChainBuilderOption {
	return func(c *chain) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithWorkers sets how many goroutines load the SMAA tables.
func WithWorkers(n int) ChainBuilderOption {
	return func(c *chain) {
		c.workers = max(n, 1)
	}
}
