// Package transport provides the play/pause/seek state machine.
package transport

import "github.com/cockroachdb/errors"

// Mode represents the playback mode.
type Mode int

const (
	ModePaused  Mode = iota // Initial mode
	ModePlaying             // Nominal track is playing
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModePaused:
		return "paused"
	case ModePlaying:
		return "playing"
	default:
		return "unknown"
	}
}

// SeekMode selects what the seek transitions do.
type SeekMode string

const (
	// SeekApply moves the position and clamps it into [0, duration].
	SeekApply SeekMode = "apply"
	// SeekDiagnostic only emits a diagnostic and leaves the state unchanged.
	SeekDiagnostic SeekMode = "diagnostic"
)

// ParseSeekMode parses a seek mode name. Empty means SeekApply.
func ParseSeekMode(s string) (SeekMode, error) {
	switch SeekMode(s) {
	case SeekApply, "":
		return SeekApply, nil
	case SeekDiagnostic:
		return SeekDiagnostic, nil
	default:
		return "", errors.Newf("unknown seek mode: %q", s)
	}
}
