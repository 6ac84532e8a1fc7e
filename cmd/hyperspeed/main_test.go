package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *viper.Viper {
	t.Helper()
	v := viper.New()
	root := newRootCommand(v)
	require.NoError(t, root.ParseFlags(args))
	return v
}

func TestExportCommand_WritesLookupTextures(t *testing.T) {
	dir := t.TempDir()
	root := newRootCommand(viper.New())
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"export-smaa", dir})

	require.NoError(t, root.Execute())

	for _, name := range []string{postprocess.AreaFileName, postprocess.SearchFileName} {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		require.NoError(t, err)
		assert.Contains(t, out.String(), path)
	}
}

func TestExportCommand_RequiresDirectory(t *testing.T) {
	root := newRootCommand(viper.New())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"export-smaa"})

	assert.Error(t, root.Execute())
}

func TestDefaults(t *testing.T) {
	v := parse(t)
	cfg, err := loadEffectConfig(v)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Fov, cfg.Fov)

	s, err := readSettings(v)
	require.NoError(t, err)
	assert.Equal(t, 1280, s.Width)
	assert.Equal(t, 720, s.Height)
	assert.Equal(t, renderer.PresentModeVSync, s.PresentMode)
	assert.Equal(t, renderer.MSAA4x, s.MSAA)
	assert.Equal(t, postprocess.SMAAPresetMedium, s.SMAA)
	assert.Equal(t, postprocess.DefaultBloomSettings(), s.Bloom)
	assert.Empty(t, s.MusicDir)
}

func TestEffectFlags_OverridePreset(t *testing.T) {
	v := parse(t, "--preset", "xy", "--fov", "75", "--speed-up", "3", "--lanes", "4", "--distortion", "mountain")
	cfg, err := loadEffectConfig(v)
	require.NoError(t, err)

	assert.Equal(t, 75.0, cfg.Fov)
	assert.Equal(t, 3.0, cfg.SpeedUp)
	assert.Equal(t, 4, cfg.LanesPerRoad)
	assert.Equal(t, "mountain", cfg.Distortion)
}

func TestEffectFlags_UnsetKeepPreset(t *testing.T) {
	v := parse(t, "--preset", "xy")
	cfg, err := loadEffectConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "xy", cfg.Distortion)
	assert.Equal(t, 3, cfg.LanesPerRoad)
}

func TestEnvironment_OverridesRunSettings(t *testing.T) {
	t.Setenv("HYPERSPEED_FPS_LIMIT", "30")
	v := parse(t)
	_, err := loadEffectConfig(v)
	require.NoError(t, err)

	s, err := readSettings(v)
	require.NoError(t, err)
	assert.Equal(t, 30.0, s.FrameLimit)
}

func TestReadSettings_Flags(t *testing.T) {
	v := parse(t, "--vsync=false", "--msaa", "1", "--smaa", "HIGH", "--bloom-intensity", "2", "--music-dir", "/tmp/music", "--mute")
	s, err := readSettings(v)
	require.NoError(t, err)

	assert.Equal(t, renderer.PresentModeUncapped, s.PresentMode)
	assert.Equal(t, renderer.MSAAOff, s.MSAA)
	assert.Equal(t, postprocess.SMAAPresetHigh, s.SMAA)
	assert.Equal(t, 2.0, s.Bloom.Intensity)
	assert.Equal(t, "/tmp/music", s.MusicDir)
	assert.True(t, s.Mute)
}

func TestReadSettings_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "msaa", args: []string{"--msaa", "2"}},
		{name: "smaa", args: []string{"--smaa", "ultra"}},
		{name: "width", args: []string{"--width", "0"}},
		{name: "volume", args: []string{"--volume", "1.5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readSettings(parse(t, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestLoadEffectConfig_UnknownPreset(t *testing.T) {
	_, err := loadEffectConfig(parse(t, "--preset", "moon"))
	assert.Error(t, err)
}

func TestChainOptions_FileSources(t *testing.T) {
	s, err := readSettings(parse(t))
	require.NoError(t, err)
	assert.Len(t, chainOptions(s), 3)

	s.SMAADir = t.TempDir()
	assert.Len(t, chainOptions(s), 4)
}
