package config

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/spf13/viper"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// EnvPrefix is prepended to every environment override, e.g. HYPERSPEED_ROAD_WIDTH or HYPERSPEED_COLORS_BACKGROUND.
const EnvPrefix = "HYPERSPEED"

// DefaultPreset is always loaded first; named presets only override what they change.
const DefaultPreset = "default"

// LoadOptions selects where an EffectConfig comes from.
type LoadOptions struct {
	// Preset names an embedded preset layered over the default one. Empty means the default alone.
	Preset string
	// File is an optional YAML, JSON or TOML file merged over the preset.
	File string
	// Viper lets a caller pre-bind command line flags. A fresh instance is used when nil.
	Viper *viper.Viper
}

type fileColors struct {
	Background string   `mapstructure:"background"`
	Road       string   `mapstructure:"road"`
	RoadLine   string   `mapstructure:"road_line"`
	Island     string   `mapstructure:"island"`
	Sticks     string   `mapstructure:"sticks"`
	LeftCars   []string `mapstructure:"left_cars"`
	RightCars  []string `mapstructure:"right_cars"`
}

type fileConfig struct {
	Fov                  float64    `mapstructure:"fov"`
	FovSpeedUp           float64    `mapstructure:"fov_speed_up"`
	SpeedUp              float64    `mapstructure:"speed_up"`
	RoadWidth            float64    `mapstructure:"road_width"`
	IslandWidth          float64    `mapstructure:"island_width"`
	Length               float64    `mapstructure:"length"`
	LanesPerRoad         int        `mapstructure:"lanes_per_road"`
	CarLightsFade        float64    `mapstructure:"car_lights_fade"`
	MovingAwaySpeed      float64    `mapstructure:"moving_away_speed"`
	MovingCloserSpeed    float64    `mapstructure:"moving_closer_speed"`
	LightPairsPerRoadWay int        `mapstructure:"light_pairs_per_road_way"`
	TotalSideLightSticks int        `mapstructure:"total_side_light_sticks"`
	ReferenceFrameRate   float64    `mapstructure:"reference_frame_rate"`
	Distortion           string     `mapstructure:"distortion"`
	Colors               fileColors `mapstructure:"colors"`
}

// Presets lists the embedded preset names.
func Presets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// Load resolves an EffectConfig in increasing precedence: default preset, named preset, user file,
// bound flags and environment variables. The result is validated before it is returned.
//
// Parameters:
//   - opts: the preset, file and viper instance to read from
//
// Returns:
//   - *EffectConfig: the validated configuration
//   - error: a read, decode or validation error
func Load(opts LoadOptions) (*EffectConfig, error) {
	v := opts.Viper
	if v == nil {
		v = viper.New()
	}
	v.SetConfigType("yaml")

	if err := mergePreset(v, DefaultPreset); err != nil {
		return nil, err
	}
	if opts.Preset != "" && opts.Preset != DefaultPreset {
		if err := mergePreset(v, opts.Preset); err != nil {
			return nil, err
		}
	}
	if opts.File != "" {
		if err := mergeFile(v, opts.File); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode effect config: %w", err)
	}

	cfg, err := fc.toEffectConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergePreset(v *viper.Viper, name string) error {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return fmt.Errorf("unknown preset %q (want one of %s)", name, strings.Join(Presets(), ", "))
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse preset %q: %w", name, err)
	}
	return nil
}

// mergeFile merges a user file, picking the decoder from its extension.
func mergeFile(v *viper.Viper, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch ext {
	case "yaml", "yml", "json", "toml":
	default:
		return fmt.Errorf("config file %s: unsupported extension %q", path, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	v.SetConfigType(ext)
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (fc *fileConfig) toEffectConfig() (*EffectConfig, error) {
	cfg := &EffectConfig{
		Fov:                  fc.Fov,
		FovSpeedUp:           fc.FovSpeedUp,
		SpeedUp:              fc.SpeedUp,
		RoadWidth:            fc.RoadWidth,
		IslandWidth:          fc.IslandWidth,
		Length:               fc.Length,
		LanesPerRoad:         fc.LanesPerRoad,
		CarLightsFade:        fc.CarLightsFade,
		MovingAwaySpeed:      fc.MovingAwaySpeed,
		MovingCloserSpeed:    fc.MovingCloserSpeed,
		LightPairsPerRoadWay: fc.LightPairsPerRoadWay,
		TotalSideLightSticks: fc.TotalSideLightSticks,
		ReferenceFrameRate:   fc.ReferenceFrameRate,
		Distortion:           strings.ToLower(strings.TrimSpace(fc.Distortion)),
	}
	if cfg.Distortion == "none" {
		cfg.Distortion = ""
	}

	singles := []struct {
		name string
		raw  string
		dst  *common.Color
	}{
		{"colors.background", fc.Colors.Background, &cfg.Colors.Background},
		{"colors.road", fc.Colors.Road, &cfg.Colors.Road},
		{"colors.road_line", fc.Colors.RoadLine, &cfg.Colors.RoadLine},
		{"colors.island", fc.Colors.Island, &cfg.Colors.Island},
		{"colors.sticks", fc.Colors.Sticks, &cfg.Colors.Sticks},
	}
	for _, s := range singles {
		c, err := common.ParseColor(s.raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = c
	}

	var err error
	if cfg.Colors.LeftCars, err = parseColorList("colors.left_cars", fc.Colors.LeftCars); err != nil {
		return nil, err
	}
	if cfg.Colors.RightCars, err = parseColorList("colors.right_cars", fc.Colors.RightCars); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseColorList(name string, raw []string) ([]common.Color, error) {
	out := make([]common.Color, 0, len(raw))
	for i, r := range raw {
		c, err := common.ParseColor(r)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", name, i, err)
		}
		out = append(out, c)
	}
	return out, nil
}
