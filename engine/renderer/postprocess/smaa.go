package postprocess

// SMAAPreset selects the anti-aliasing quality. A zero MaxSearchSteps disables it.
type SMAAPreset struct {
	Name           string
	Threshold      float64
	MaxSearchSteps int
	ContrastFactor float64
}

var (
	SMAAPresetOff    = SMAAPreset{Name: "off"}
	SMAAPresetLow    = SMAAPreset{Name: "low", Threshold: 0.15, MaxSearchSteps: 4, ContrastFactor: 2}
	SMAAPresetMedium = SMAAPreset{Name: "medium", Threshold: 0.1, MaxSearchSteps: 8, ContrastFactor: 2}
	SMAAPresetHigh   = SMAAPreset{Name: "high", Threshold: 0.1, MaxSearchSteps: 16, ContrastFactor: 2}
)

// SMAAPresetByName returns the preset called name and whether it exists.
func SMAAPresetByName(name string) (SMAAPreset, bool) {
	for _, p := range []SMAAPreset{SMAAPresetOff, SMAAPresetLow, SMAAPresetMedium, SMAAPresetHigh} {
		if p.Name == name {
			return p, true
		}
	}
	return SMAAPreset{}, false
}

// Enabled reports whether the preset runs any SMAA pass.
func (p SMAAPreset) Enabled() bool {
	return p.MaxSearchSteps > 0
}

func (p SMAAPreset) uniform(width, height int) GPUSMAAUniform {
	t := texel(width, height)
	return GPUSMAAUniform{
		RTMetrics:      [4]float32{t[0], t[1], float32(width), float32(height)},
		Threshold:      float32(p.Threshold),
		MaxSearchSteps: float32(p.MaxSearchSteps),
		ContrastFactor: float32(p.ContrastFactor),
	}
}
