// Package playback provides the seam to an audio playback collaborator.
package playback

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// ErrEmptyAudioPath is returned when an item has no audio reference.
var ErrEmptyAudioPath = errors.New("empty audio path")

// Player hands an audio reference to a playback subsystem.
type Player interface {
	Play(ctx context.Context, audioPath string) error
}

// LogPlayer performs no playback and only emits a diagnostic.
type LogPlayer struct{}

// Play logs the audio path.
func (LogPlayer) Play(ctx context.Context, audioPath string) error {
	if audioPath == "" {
		return ErrEmptyAudioPath
	}
	zlog.Info().Str("audio_path", audioPath).Msgf("Playing %s", audioPath)
	return nil
}

// Recorder remembers the audio paths it was asked to play.
type Recorder struct {
	mu     sync.Mutex
	played []string
}

// Play records audioPath.
func (r *Recorder) Play(ctx context.Context, audioPath string) error {
	if audioPath == "" {
		return ErrEmptyAudioPath
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, audioPath)
	return nil
}

// Played returns a copy of the recorded paths.
func (r *Recorder) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]string, len(r.played))
	copy(result, r.played)
	return result
}
