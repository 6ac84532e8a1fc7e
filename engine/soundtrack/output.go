package soundtrack

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Output is the audio device. The speaker package implements it; tests substitute their own.
type Output interface {
	Init(sampleRate beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Clear()
	Lock()
	Unlock()
	Close()
}

type speakerOutput struct{}

var _ Output = speakerOutput{}

// SpeakerOutput plays through the default audio device.
func SpeakerOutput() Output {
	return speakerOutput{}
}

func (speakerOutput) Init(sampleRate beep.SampleRate, bufferSize int) error {
	return speaker.Init(sampleRate, bufferSize)
}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Clear()                  { speaker.Clear() }
func (speakerOutput) Lock()                   { speaker.Lock() }
func (speakerOutput) Unlock()                 { speaker.Unlock() }
func (speakerOutput) Close()                  { speaker.Close() }

// Decoder opens and decodes one track. Closing the returned streamer must close the file.
type Decoder func(path string) (beep.StreamSeekCloser, beep.Format, error)

// ErrUnsupportedFormat is returned by DecodeFile for extensions other than .mp3, .wav and .flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

var extensions = map[string]bool{".mp3": true, ".wav": true, ".flac": true}

// DecodeFile decodes an mp3, wav or flac file chosen by its extension.
//
// Parameters:
//   - path: the audio file
//
// Returns:
//   - beep.StreamSeekCloser: the decoded stream, owning the open file
//   - beep.Format: the stream format
//   - error: an open, format or decode error
func DecodeFile(path string) (beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !extensions[ext] {
		return nil, beep.Format{}, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, beep.Format{}, fmt.Errorf("%s: %w", path, err)
	}
	return streamer, format, nil
}

// ScanDir lists the playable files directly inside dir, sorted by name.
//
// Parameters:
//   - dir: the music directory
//
// Returns:
//   - []string: the track paths
//   - error: the directory could not be read
func ScanDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var tracks []string
	for _, e := range entries {
		if e.IsDir() || !extensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		tracks = append(tracks, filepath.Join(dir, e.Name()))
	}
	sort.Strings(tracks)
	return tracks, nil
}
