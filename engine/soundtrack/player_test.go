package soundtrack

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/hyperspeed/common"
	"github.com/faiface/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = beep.SampleRate(44100)

// tone is a constant 0.5 signal of n samples.
type tone struct {
	n, pos int
	closed atomic.Bool
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.n {
		return 0, false
	}
	k := min(len(samples), t.n-t.pos)
	for i := 0; i < k; i++ {
		samples[i] = [2]float64{0.5, 0.5}
	}
	t.pos += k
	return k, true
}

func (t *tone) Err() error       { return nil }
func (t *tone) Len() int         { return t.n }
func (t *tone) Position() int    { return t.pos }
func (t *tone) Seek(p int) error { t.pos = p; return nil }
func (t *tone) Close() error     { t.closed.Store(true); return nil }

type fakeOutput struct {
	mu      sync.Mutex
	inits   int
	rate    beep.SampleRate
	playing []beep.Streamer
	closed  bool
}

func (f *fakeOutput) Init(sr beep.SampleRate, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits++
	f.rate = sr
	return nil
}

func (f *fakeOutput) Play(s ...beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = append(f.playing, s...)
}

func (f *fakeOutput) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playing = nil
}

func (f *fakeOutput) Lock()   {}
func (f *fakeOutput) Unlock() {}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeOutput) current() beep.Streamer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.playing) == 0 {
		return nil
	}
	return f.playing[len(f.playing)-1]
}

// library decodes the tracks it knows and fails the rest.
type library struct {
	mu      sync.Mutex
	samples int
	broken  map[string]bool
	opened  map[string]*tone
}

func newLibrary(samples int, broken ...string) *library {
	l := &library{samples: samples, broken: make(map[string]bool), opened: make(map[string]*tone)}
	for _, b := range broken {
		l.broken[b] = true
	}
	return l
}

func (l *library) decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.broken[path] {
		return nil, beep.Format{}, errors.New("bad header")
	}
	t := &tone{n: l.samples}
	l.opened[path] = t
	return t, beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}, nil
}

func (l *library) tone(path string) *tone {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.opened[path]
}

func newTestPlayer(lib *library, out *fakeOutput, tracks ...string) Player {
	return NewPlayer(tracks, WithOutput(out), WithDecoder(lib.decode), WithRand(common.NewRand(9)))
}

func drain(s beep.Streamer) {
	buf := make([][2]float64, 512)
	for {
		if _, ok := s.Stream(buf); !ok {
			return
		}
	}
}

func TestStartPicksATrackAndInitsOnce(t *testing.T) {
	lib := newLibrary(1000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3", "b.mp3", "c.mp3")
	t.Cleanup(p.Close)

	require.NoError(t, p.Start())
	idx, path := p.Current()
	assert.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, p.Tracks()[idx], path)
	assert.Equal(t, DefaultVolume, p.Volume())

	require.NoError(t, p.Next())
	require.NoError(t, p.Next())
	assert.Equal(t, 1, out.inits)
	assert.Equal(t, testRate, out.rate)
	next, _ := p.Current()
	assert.Equal(t, (idx+2)%3, next)

	require.NoError(t, p.Previous())
	prev, _ := p.Current()
	assert.Equal(t, (idx+1)%3, prev)
}

func TestSwitchingClosesThePreviousTrack(t *testing.T) {
	lib := newLibrary(1000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3", "b.mp3")
	t.Cleanup(p.Close)

	require.NoError(t, p.Start())
	_, first := p.Current()
	require.NoError(t, p.Next())
	assert.True(t, lib.tone(first).closed.Load())
}

func TestUnplayableTracksAreSkipped(t *testing.T) {
	lib := newLibrary(1000, "b.mp3")
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3", "b.mp3", "c.mp3")
	t.Cleanup(p.Close)

	require.NoError(t, p.Start())
	for i := 0; i < 6; i++ {
		require.NoError(t, p.Next())
		_, path := p.Current()
		assert.NotEqual(t, "b.mp3", path)
	}
}

func TestNoPlayableTrack(t *testing.T) {
	lib := newLibrary(1000, "a.mp3", "b.mp3")
	out := &fakeOutput{}

	p := newTestPlayer(lib, out, "a.mp3", "b.mp3")
	assert.ErrorIs(t, p.Start(), ErrNoPlayableTrack)
	idx, _ := p.Current()
	assert.Equal(t, -1, idx)
	assert.Zero(t, out.inits)

	empty := newTestPlayer(lib, out)
	assert.ErrorIs(t, empty.Start(), ErrNoPlayableTrack)
	assert.ErrorIs(t, empty.Next(), ErrNoPlayableTrack)
}

func TestVolumeAndMute(t *testing.T) {
	lib := newLibrary(100000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3")
	t.Cleanup(p.Close)
	require.NoError(t, p.Start())

	buf := make([][2]float64, 64)
	n, ok := out.current().Stream(buf)
	require.True(t, ok)
	require.Equal(t, 64, n)
	assert.InDelta(t, 0.5*DefaultVolume, buf[0][0], 1e-9)

	assert.True(t, p.ToggleMute())
	out.current().Stream(buf)
	assert.Zero(t, buf[0][0])

	assert.False(t, p.ToggleMute())
	p.SetVolume(2)
	assert.Equal(t, 1.0, p.Volume())
	out.current().Stream(buf)
	assert.InDelta(t, 0.5, buf[0][1], 1e-9)
}

func TestSetVolumeZeroMutes(t *testing.T) {
	lib := newLibrary(100000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3")
	t.Cleanup(p.Close)
	require.NoError(t, p.Start())

	buf := make([][2]float64, 16)
	p.SetVolume(0)
	assert.True(t, p.Muted())
	out.current().Stream(buf)
	assert.Zero(t, buf[0][0])

	p.SetVolume(-1)
	assert.True(t, p.Muted())
	assert.Zero(t, p.Volume())

	p.SetVolume(0.5)
	assert.False(t, p.Muted())
	out.current().Stream(buf)
	assert.InDelta(t, 0.25, buf[0][0], 1e-9)
}

func TestTrackEndAdvancesAndLoops(t *testing.T) {
	lib := newLibrary(300)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3", "b.mp3")
	t.Cleanup(p.Close)
	require.NoError(t, p.Start())

	start, _ := p.Current()
	for step := 1; step <= 3; step++ {
		drain(out.current())
		want := (start + step) % 2
		require.Eventually(t, func() bool {
			idx, _ := p.Current()
			return idx == want
		}, time.Second, 5*time.Millisecond, "step %d", step)
	}
}

func TestHandleInput(t *testing.T) {
	lib := newLibrary(1000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3", "b.mp3", "c.mp3")
	t.Cleanup(p.Close)
	require.NoError(t, p.Start())
	start, _ := p.Current()

	p.HandleInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeyM})
	assert.True(t, p.Muted())
	p.HandleInput(common.InputEvent{Kind: common.InputKeyUp, Key: common.KeyM})
	assert.True(t, p.Muted())

	p.HandleInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeyN})
	idx, _ := p.Current()
	assert.Equal(t, (start+1)%3, idx)

	p.HandleInput(common.InputEvent{Kind: common.InputKeyDown, Key: common.KeyB})
	idx, _ = p.Current()
	assert.Equal(t, start, idx)
}

func TestClose(t *testing.T) {
	lib := newLibrary(1000)
	out := &fakeOutput{}
	p := newTestPlayer(lib, out, "a.mp3")
	require.NoError(t, p.Start())

	p.Close()
	p.Close()
	assert.True(t, out.closed)
	assert.Nil(t, out.current())
	assert.True(t, lib.tone("a.mp3").closed.Load())
	assert.Error(t, p.Next())
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.MP3", "a.wav", "notes.txt", "c.flac"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "d.mp3"), 0o755))

	tracks, err := ScanDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.wav"),
		filepath.Join(dir, "b.MP3"),
		filepath.Join(dir, "c.flac"),
	}, tracks)

	_, err = ScanDir(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDecodeFileRejectsUnknownFormats(t *testing.T) {
	_, _, err := DecodeFile("song.ogg")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, _, err = DecodeFile(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
