// package soundtrack plays a local playlist behind the effect.
package soundtrack

import (
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sync"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// ErrNoPlayableTrack is returned when no track of the playlist can be decoded.
var ErrNoPlayableTrack = errors.New("no playable track")

const (
	// DefaultVolume is the linear gain tracks start at.
	DefaultVolume = 0.2

	resampleQuality = 4
)

type player struct {
	mu *sync.Mutex

	out    Output
	decode Decoder
	rng    *common.Rand
	tracks []string

	volume float64
	muted  bool
	closed bool

	outputReady bool
	sampleRate  beep.SampleRate

	index      int
	generation uint64
	current    beep.StreamSeekCloser
	gain       *effects.Volume
}

// Player is a looping playlist with mute and track skipping.
type Player interface {
	// Start plays a random track. Tracks that cannot be decoded are skipped in order.
	//
	// Returns:
	//   - error: ErrNoPlayableTrack, or an audio device error
	Start() error

	// Next skips to the following track, wrapping around.
	Next() error

	// Previous goes back one track, wrapping around.
	Previous() error

	// ToggleMute mutes or unmutes playback and returns whether it is now muted.
	ToggleMute() bool

	// Muted reports whether playback is muted.
	Muted() bool

	// SetVolume sets the linear gain, clamped to [0, 1]. Zero mutes the player and any louder level unmutes it.
	SetVolume(v float64)

	// Volume returns the linear gain.
	Volume() float64

	// Current returns the index and path of the playing track, or -1 and "" when nothing plays.
	Current() (int, string)

	// Tracks returns the playlist.
	Tracks() []string

	// HandleInput maps M to mute, N to next and B to previous.
	HandleInput(ev common.InputEvent)

	// Close stops playback and releases the audio device.
	Close()
}

var _ Player = &player{}

// NewPlayer creates a stopped player over tracks.
//
// Parameters:
//   - tracks: the playlist, usually from ScanDir
//   - options: builder options
//
// Returns:
//   - Player: the player
func NewPlayer(tracks []string, options ...PlayerBuilderOption) Player {
	p := &player{
		mu:     &sync.Mutex{},
		out:    SpeakerOutput(),
		decode: DecodeFile,
		tracks: append([]string(nil), tracks...),
		volume: DefaultVolume,
		index:  -1,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.rng == nil {
		p.rng = common.NewRand(0)
	}
	return p
}

func (p *player) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.tracks) == 0 {
		return ErrNoPlayableTrack
	}
	return p.playFrom(p.rng.Intn(len(p.tracks)), 1)
}

func (p *player) Next() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step(1)
}

func (p *player) Previous() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.step(-1)
}

// step must be called with mu held.
func (p *player) step(dir int) error {
	if len(p.tracks) == 0 {
		return ErrNoPlayableTrack
	}
	return p.playFrom(p.index+dir, dir)
}

// playFrom plays the first decodable track starting at start and walking in dir. Must be called with mu held.
func (p *player) playFrom(start, dir int) error {
	if p.closed {
		return fmt.Errorf("soundtrack closed")
	}
	n := len(p.tracks)
	for i := 0; i < n; i++ {
		idx := ((start+i*dir)%n + n) % n
		s, format, err := p.decode(p.tracks[idx])
		if err != nil {
			log.Printf("[Soundtrack] skipping %s: %v", filepath.Base(p.tracks[idx]), err)
			continue
		}
		if err := p.ensureOutput(format); err != nil {
			_ = s.Close()
			return err
		}
		p.switchTo(idx, s, format)
		return nil
	}
	p.stop()
	return ErrNoPlayableTrack
}

// ensureOutput opens the device at the rate of the first track. Later tracks are resampled to it.
func (p *player) ensureOutput(format beep.Format) error {
	if p.outputReady {
		return nil
	}
	if err := p.out.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("soundtrack output: %w", err)
	}
	p.outputReady = true
	p.sampleRate = format.SampleRate
	return nil
}

// switchTo must be called with mu held.
func (p *player) switchTo(idx int, s beep.StreamSeekCloser, format beep.Format) {
	p.stop()

	var stream beep.Streamer = s
	if format.SampleRate != p.sampleRate {
		stream = beep.Resample(resampleQuality, format.SampleRate, p.sampleRate, s)
	}
	p.gain = &effects.Volume{Streamer: stream, Base: 2}
	p.applyGain()

	p.generation++
	gen := p.generation
	p.index = idx
	p.current = s
	// The callback runs on the device goroutine with the device locked, so the advance happens elsewhere.
	p.out.Play(beep.Seq(p.gain, beep.Callback(func() {
		go p.trackEnded(gen)
	})))
	log.Printf("[Soundtrack] playing %s", filepath.Base(p.tracks[idx]))
}

func (p *player) trackEnded(gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || gen != p.generation {
		return
	}
	if err := p.playFrom(p.index+1, 1); err != nil {
		log.Printf("[Soundtrack] playlist stopped: %v", err)
	}
}

// stop silences the device and closes the current track. Must be called with mu held.
func (p *player) stop() {
	p.generation++
	if p.outputReady {
		p.out.Clear()
	}
	if p.current != nil {
		_ = p.current.Close()
		p.current = nil
	}
	p.gain = nil
	p.index = -1
}

// applyGain must be called with mu held. The device reads gain concurrently, hence its lock.
func (p *player) applyGain() {
	if p.gain == nil {
		return
	}
	silent := p.muted || p.volume <= 0
	level := 0.0
	if !silent {
		level = math.Log2(p.volume)
	}
	if p.outputReady {
		p.out.Lock()
		defer p.out.Unlock()
	}
	p.gain.Silent = silent
	p.gain.Volume = level
}

func (p *player) ToggleMute() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = !p.muted
	p.applyGain()
	return p.muted
}

func (p *player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *player) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = common.Clamp(v, 0, 1)
	p.muted = p.volume == 0
	p.applyGain()
}

func (p *player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *player) Current() (int, string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.index < 0 {
		return -1, ""
	}
	return p.index, p.tracks[p.index]
}

func (p *player) Tracks() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tracks...)
}

func (p *player) HandleInput(ev common.InputEvent) {
	if ev.Kind != common.InputKeyDown {
		return
	}
	var err error
	switch ev.Key {
	case common.KeyM:
		log.Printf("[Soundtrack] muted: %t", p.ToggleMute())
	case common.KeyN:
		err = p.Next()
	case common.KeyB:
		err = p.Previous()
	}
	if err != nil {
		log.Printf("[Soundtrack] %v", err)
	}
}

func (p *player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.stop()
	p.closed = true
	if p.outputReady {
		p.out.Close()
		p.outputReady = false
	}
}
