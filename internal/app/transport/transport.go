package transport

import (
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// Errors
var (
	ErrNegativeDuration = errors.New("duration must not be negative")
	ErrNegativeStep     = errors.New("seek step must not be negative")
)

const (
	// DefaultDuration is the nominal track length used when none is configured.
	DefaultDuration = 300 * time.Second
	// DefaultSeekStep is the distance covered by one fast-forward or rewind.
	DefaultSeekStep = 15 * time.Second
)

// Config holds transport configuration.
type Config struct {
	Duration time.Duration // Total length of the nominal track
	SeekStep time.Duration // Zero means DefaultSeekStep
	SeekMode SeekMode      // Empty means SeekApply
}

// State is a copy of the transport state.
type State struct {
	Mode     Mode
	Position time.Duration
	Duration time.Duration
}

// Snapshot is the transport state as a view displays it.
type Snapshot struct {
	State
	Elapsed string // FormatTime(Position)
	Total   string // FormatTime(Duration)
}

// Transport holds the playback mode and time counters of the nominal track.
// It is not safe for concurrent use; the owner serializes transitions.
type Transport struct {
	state    State
	step     time.Duration
	seekMode SeekMode
}

// New creates a paused transport at position 0.
func New(cfg Config) (*Transport, error) {
	if cfg.Duration < 0 {
		return nil, errors.Wrapf(ErrNegativeDuration, "duration %v", cfg.Duration)
	}
	if cfg.SeekStep < 0 {
		return nil, errors.Wrapf(ErrNegativeStep, "seek step %v", cfg.SeekStep)
	}
	step := cfg.SeekStep
	if step == 0 {
		step = DefaultSeekStep
	}
	mode, err := ParseSeekMode(string(cfg.SeekMode))
	if err != nil {
		return nil, err
	}

	return &Transport{
		state: State{
			Mode:     ModePaused,
			Position: 0,
			Duration: cfg.Duration,
		},
		step:     step,
		seekMode: mode,
	}, nil
}

// Toggle flips between paused and playing and returns the new mode.
func (t *Transport) Toggle() Mode {
	if t.state.Mode == ModePlaying {
		t.state.Mode = ModePaused
	} else {
		t.state.Mode = ModePlaying
	}
	return t.state.Mode
}

// FastForward advances the position by one step, clamped at the duration.
// Returns true if the position changed.
func (t *Transport) FastForward() bool {
	zlog.Info().Msgf("Fast forwarded %d seconds", int64(t.step.Seconds()))
	if t.seekMode != SeekApply {
		return false
	}
	return t.moveTo(t.state.Position + t.step)
}

// Rewind moves the position back by one step, clamped at 0.
// Returns true if the position changed.
func (t *Transport) Rewind() bool {
	zlog.Info().Msgf("Rewinded %d seconds", int64(t.step.Seconds()))
	if t.seekMode != SeekApply {
		return false
	}
	return t.moveTo(t.state.Position - t.step)
}

// Seek moves the position to pos, clamped into [0, duration].
// Unlike FastForward and Rewind it is not gated by the seek mode.
func (t *Transport) Seek(pos time.Duration) bool {
	return t.moveTo(pos)
}

// SetDuration replaces the duration and clamps the position into the new range.
func (t *Transport) SetDuration(d time.Duration) error {
	if d < 0 {
		return errors.Wrapf(ErrNegativeDuration, "duration %v", d)
	}
	t.state.Duration = d
	t.moveTo(t.state.Position)
	return nil
}

// State returns a copy of the current state.
func (t *Transport) State() State {
	return t.state
}

// Snapshot returns the current state with formatted times.
func (t *Transport) Snapshot() Snapshot {
	return Snapshot{
		State:   t.state,
		Elapsed: FormatDuration(t.state.Position),
		Total:   FormatDuration(t.state.Duration),
	}
}

// SeekMode returns the configured seek mode.
func (t *Transport) SeekMode() SeekMode {
	return t.seekMode
}

// SeekStep returns the configured seek step.
func (t *Transport) SeekStep() time.Duration {
	return t.step
}

func (t *Transport) moveTo(pos time.Duration) bool {
	if pos < 0 {
		pos = 0
	}
	if pos > t.state.Duration {
		pos = t.state.Duration
	}
	if pos == t.state.Position {
		return false
	}
	t.state.Position = pos
	return true
}

// FormatDuration formats d with FormatTime.
func FormatDuration(d time.Duration) string {
	return FormatTime(d.Seconds())
}
