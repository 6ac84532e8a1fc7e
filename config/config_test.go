package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultMatchesDefaultConfig(t *testing.T) {
	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_PresetLayersOverDefault(t *testing.T) {
	cfg, err := Load(LoadOptions{Preset: "mountain"})
	require.NoError(t, err)

	assert.Equal(t, "mountain", cfg.Distortion)
	assert.Equal(t, 3, cfg.LanesPerRoad)
	assert.Equal(t, 50, cfg.LightPairsPerRoadWay)
	assert.Equal(t, common.Color(0xc5e8eb), cfg.Colors.Sticks)
	assert.Equal(t, common.Color(0xff102a), cfg.Colors.LeftCars[0])

	// untouched keys keep the default
	assert.Equal(t, 90.0, cfg.Fov)
	assert.Equal(t, common.Color(0x080808), cfg.Colors.Road)
}

func TestLoad_EveryPresetValidates(t *testing.T) {
	names := Presets()
	assert.ElementsMatch(t, []string{"default", "mountain", "xy"}, names)
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := Load(LoadOptions{Preset: name})
			assert.NoError(t, err)
		})
	}
}

func TestLoad_UnknownPreset(t *testing.T) {
	_, err := Load(LoadOptions{Preset: "moon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "moon")
}

func TestLoad_FileMergesOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fov: 70\ndistortion: none\ncolors:\n  road: \"0x101010\"\n"), 0o644))

	cfg, err := Load(LoadOptions{Preset: "xy", File: path})
	require.NoError(t, err)

	assert.Equal(t, 70.0, cfg.Fov)
	assert.Empty(t, cfg.Distortion)
	assert.Equal(t, common.Color(0x101010), cfg.Colors.Road)
	assert.Equal(t, 3, cfg.LanesPerRoad)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"speed_up": 4, "length": 250}`), 0o644))

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, 4.0, cfg.SpeedUp)
	assert.Equal(t, 250.0, cfg.Length)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("HYPERSPEED_ROAD_WIDTH", "14")
	t.Setenv("HYPERSPEED_COLORS_BACKGROUND", "#112233")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, 14.0, cfg.RoadWidth)
	assert.Equal(t, common.Color(0x112233), cfg.Colors.Background)
}

func TestLoad_ExplicitViperValueWins(t *testing.T) {
	v := viper.New()
	v.Set("lanes_per_road", 6)

	cfg, err := Load(LoadOptions{Preset: "mountain", Viper: v})
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.LanesPerRoad)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "fov", body: "fov: 180\n"},
		{name: "lanes", body: "lanes_per_road: 0\n"},
		{name: "fade", body: "car_lights_fade: 1.5\n"},
		{name: "distortion", body: "distortion: spiral\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o644))

			_, err := Load(LoadOptions{File: path})
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MalformedColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colors:\n  left_cars: [\"#12\"]\n"), 0o644))

	_, err := Load(LoadOptions{File: path})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colors.left_cars[0]")
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Length = 0
	cfg.TotalSideLightSticks = 0
	cfg.Colors.RightCars = nil

	err := cfg.Validate()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClone_IsDeep(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Colors.LeftCars[0] = 0x123456
	clone.Fov = 10

	assert.Equal(t, common.Color(0xd856bf), cfg.Colors.LeftCars[0])
	assert.Equal(t, 90.0, cfg.Fov)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.toml")
	require.NoError(t, os.WriteFile(path, []byte("island_width = 3.5\n[colors]\nsticks = \"#ffffff\"\n"), 0o644))

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.IslandWidth)
	assert.Equal(t, common.Color(0xffffff), cfg.Colors.Sticks)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "effect.ini")
	require.NoError(t, os.WriteFile(path, []byte("fov=70"), 0o644))

	_, err := Load(LoadOptions{File: path})
	assert.Error(t, err)
}

func TestValidate_RejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *EffectConfig)
	}{
		{name: "infinite length", mutate: func(c *EffectConfig) { c.Length = math.Inf(1) }},
		{name: "infinite road width", mutate: func(c *EffectConfig) { c.RoadWidth = math.Inf(1) }},
		{name: "infinite speed", mutate: func(c *EffectConfig) { c.MovingCloserSpeed = math.Inf(1) }},
		{name: "nan island", mutate: func(c *EffectConfig) { c.IslandWidth = math.NaN() }},
		{name: "nan fade", mutate: func(c *EffectConfig) { c.CarLightsFade = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoad_RejectsInfiniteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inf.yaml")
	require.NoError(t, os.WriteFile(path, []byte("length: .inf\n"), 0o644))

	_, err := Load(LoadOptions{File: path})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
