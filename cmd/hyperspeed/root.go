package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/config"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer"
	"github.com/Carmen-Shannon/hyperspeed/engine/renderer/postprocess"
	"github.com/Carmen-Shannon/hyperspeed/engine/soundtrack"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// effectFlags are command line flags that override keys of the effect config directly.
var effectFlags = map[string]string{
	"distortion": "distortion",
	"fov":        "fov",
	"speed-up":   "speed_up",
	"length":     "length",
	"lanes":      "lanes_per_road",
	"pairs":      "light_pairs_per_road_way",
}

// settings is everything the run command needs besides the effect config.
type settings struct {
	Title        string
	Width        int
	Height       int
	PresentMode  renderer.PresentMode
	MSAA         renderer.MSAASampleCount
	Software     bool
	Profile      bool
	FrameLimit   float64
	Seed         uint64
	SMAA         postprocess.SMAAPreset
	SMAADir      string
	AssetTimeout time.Duration
	Bloom        postprocess.BloomSettings
	MusicDir     string
	Volume       float64
	Mute         bool
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:          "hyperspeed",
		Short:        "An animated light-streak highway",
		Long:         "Renders a highway of light streaks. Hold the left mouse button or Space to boost; M mutes, N and B change tracks, P toggles the profiler, Esc quits.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), v)
		},
	}

	fl := root.Flags()
	fl.String("preset", config.DefaultPreset, "embedded preset: "+strings.Join(config.Presets(), ", "))
	fl.String("config", "", "YAML, JSON or TOML file merged over the preset")
	fl.String("title", "hyperspeed", "window title")
	fl.Int("width", 1280, "initial window width")
	fl.Int("height", 720, "initial window height")
	fl.Bool("vsync", true, "wait for vertical blank when presenting")
	fl.Int("msaa", int(renderer.MSAA4x), "scene pass sample count (1 or 4)")
	fl.Bool("software", false, "force the fallback software adapter")
	fl.Bool("profile", false, "log frame and memory statistics every second")
	fl.Float64("fps-limit", 0, "render frame rate cap, 0 for none")
	fl.Uint64("seed", 0, "random seed for the scene layout, 0 for a time based seed")
	fl.String("smaa", postprocess.SMAAPresetMedium.Name, "anti-aliasing preset: off, low, medium, high")
	fl.String("smaa-dir", "", "directory with exported SMAA lookup textures; generated when empty")
	fl.Duration("asset-timeout", 5*time.Second, "how long to wait for the SMAA lookup textures")
	fl.Float64("bloom-threshold", postprocess.DefaultBloomSettings().Threshold, "luminance above which pixels glow")
	fl.Float64("bloom-smoothing", postprocess.DefaultBloomSettings().Smoothing, "width of the soft knee above the threshold")
	fl.Float64("bloom-intensity", postprocess.DefaultBloomSettings().Intensity, "glow strength")
	fl.Float64("bloom-scale", postprocess.DefaultBloomSettings().ResolutionScale, "blur resolution relative to the window, in (0, 1]")
	fl.String("music-dir", "", "play the mp3, wav and flac files in this directory")
	fl.Float64("volume", soundtrack.DefaultVolume, "music volume in [0, 1]")
	fl.Bool("mute", false, "start with the music muted")

	fl.String("distortion", "", "look distortion: "+strings.Join(config.DistortionNames, ", ")+" or none")
	fl.Float64("fov", 0, "base field of view in degrees")
	fl.Float64("speed-up", 0, "boost speed")
	fl.Float64("length", 0, "visible road length")
	fl.Int("lanes", 0, "lanes per carriageway")
	fl.Int("pairs", 0, "car light streaks per carriageway")

	for name, key := range effectFlags {
		_ = v.BindPFlag(key, fl.Lookup(name))
	}
	for _, name := range []string{"preset", "config", "title", "width", "height", "vsync", "msaa", "software", "profile",
		"fps-limit", "seed", "smaa", "smaa-dir", "asset-timeout", "bloom-threshold", "bloom-smoothing",
		"bloom-intensity", "bloom-scale", "music-dir", "volume", "mute"} {
		_ = v.BindPFlag(name, fl.Lookup(name))
	}

	root.AddCommand(newExportCommand())
	return root
}

// loadEffectConfig resolves the effect config from the preset, the config file, the effect flags and the environment.
func loadEffectConfig(v *viper.Viper) (*config.EffectConfig, error) {
	return config.Load(config.LoadOptions{
		Preset: v.GetString("preset"),
		File:   v.GetString("config"),
		Viper:  v,
	})
}

// readSettings validates the run flags. Call it after loadEffectConfig so that environment overrides apply.
func readSettings(v *viper.Viper) (settings, error) {
	s := settings{
		Title:        v.GetString("title"),
		Width:        v.GetInt("width"),
		Height:       v.GetInt("height"),
		PresentMode:  renderer.PresentModeVSync,
		Software:     v.GetBool("software"),
		Profile:      v.GetBool("profile"),
		FrameLimit:   v.GetFloat64("fps-limit"),
		Seed:         v.GetUint64("seed"),
		SMAADir:      v.GetString("smaa-dir"),
		AssetTimeout: v.GetDuration("asset-timeout"),
		Bloom: postprocess.BloomSettings{
			Threshold:       v.GetFloat64("bloom-threshold"),
			Smoothing:       v.GetFloat64("bloom-smoothing"),
			Intensity:       v.GetFloat64("bloom-intensity"),
			ResolutionScale: v.GetFloat64("bloom-scale"),
		},
		MusicDir: v.GetString("music-dir"),
		Volume:   v.GetFloat64("volume"),
		Mute:     v.GetBool("mute"),
	}
	if !v.GetBool("vsync") {
		s.PresentMode = renderer.PresentModeUncapped
	}

	switch msaa := v.GetInt("msaa"); msaa {
	case int(renderer.MSAAOff), int(renderer.MSAA4x):
		s.MSAA = renderer.MSAASampleCount(msaa)
	default:
		return settings{}, fmt.Errorf("--msaa must be 1 or 4, got %d", msaa)
	}

	preset, ok := postprocess.SMAAPresetByName(strings.ToLower(v.GetString("smaa")))
	if !ok {
		return settings{}, fmt.Errorf("unknown SMAA preset %q", v.GetString("smaa"))
	}
	s.SMAA = preset

	if s.Width <= 0 || s.Height <= 0 {
		return settings{}, fmt.Errorf("window size must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.Volume < 0 || s.Volume > 1 {
		return settings{}, fmt.Errorf("--volume must be in [0, 1], got %g", s.Volume)
	}
	return s, nil
}
