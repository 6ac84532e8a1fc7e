package soundtrack

import "github.com/Carmen-Shannon/hyperspeed/common"

// PlayerBuilderOption is a functional option for configuring a Player.
type PlayerBuilderOption func(*player)

// WithVolume sets the starting linear gain, clamped to [0, 1].
func WithVolume(v float64) PlayerBuilderOption {
	return func(p *player) {
		p.volume = common.Clamp(v, 0, 1)
	}
}

// WithMuted starts the player muted.
func WithMuted(muted bool) PlayerBuilderOption {
	return func(p *player) {
		p.muted = muted
	}
}

// WithOutput replaces the audio device.
func WithOutput(out Output) PlayerBuilderOption {
	return func(p *player) {
		p.out = out
	}
}

// WithDecoder replaces DecodeFile.
func WithDecoder(d Decoder) PlayerBuilderOption {
	return func(p *player) {
		p.decode = d
	}
}

// WithRand sets the random source that picks the first track.
func WithRand(r *common.Rand) PlayerBuilderOption {
	return func(p *player) {
		p.rng = r
	}
}
