package transport

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransport(t *testing.T, cfg Config) *Transport {
	t.Helper()
	tr, err := New(cfg)
	require.NoError(t, err)
	return tr
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		seconds  float64
		expected string
	}{
		{0, "0:00"},
		{9, "0:09"},
		{10, "0:10"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{300, "5:00"},
		{3605, "60:05"},
		{59.9, "0:59"},
		{125.5, "2:05"},
		{-1, "0:00"},
		{math.NaN(), "0:00"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v", tt.seconds), func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatTime(tt.seconds))
		})
	}
}

func TestFormatTime_AllIntegersUpToTwoHours(t *testing.T) {
	for s := 0; s <= 7200; s++ {
		want := fmt.Sprintf("%d:%02d", s/60, s%60)
		if got := FormatTime(float64(s)); got != want {
			t.Fatalf("FormatTime(%d) = %q, want %q", s, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2:05", FormatDuration(125*time.Second))
	assert.Equal(t, "0:00", FormatDuration(999*time.Millisecond))
}

func TestNew_Initial(t *testing.T) {
	tr := newTransport(t, Config{Duration: DefaultDuration})

	st := tr.State()
	assert.Equal(t, ModePaused, st.Mode)
	assert.Equal(t, time.Duration(0), st.Position)
	assert.Equal(t, 300*time.Second, st.Duration)
	assert.Equal(t, SeekApply, tr.SeekMode())
	assert.Equal(t, DefaultSeekStep, tr.SeekStep())

	snap := tr.Snapshot()
	assert.Equal(t, "0:00", snap.Elapsed)
	assert.Equal(t, "5:00", snap.Total)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Duration: -time.Second})
	assert.True(t, errors.Is(err, ErrNegativeDuration))

	_, err = New(Config{Duration: time.Minute, SeekStep: -time.Second})
	assert.True(t, errors.Is(err, ErrNegativeStep))

	_, err = New(Config{Duration: time.Minute, SeekMode: "sideways"})
	assert.Error(t, err)
}

func TestTransport_Toggle(t *testing.T) {
	tr := newTransport(t, Config{Duration: DefaultDuration})

	assert.Equal(t, ModePlaying, tr.Toggle())
	assert.Equal(t, ModePaused, tr.Toggle())
	assert.Equal(t, ModePaused, tr.State().Mode)

	// Toggle does not touch the counters.
	assert.Equal(t, time.Duration(0), tr.State().Position)
	assert.Equal(t, DefaultDuration, tr.State().Duration)
}

func TestTransport_SeekApply(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		start    time.Duration
		forward  bool
		expected time.Duration
		changed  bool
	}{
		{name: "forward from zero", duration: 300 * time.Second, start: 0, forward: true, expected: 15 * time.Second, changed: true},
		{name: "forward clamps at duration", duration: 300 * time.Second, start: 290 * time.Second, forward: true, expected: 300 * time.Second, changed: true},
		{name: "forward at duration", duration: 300 * time.Second, start: 300 * time.Second, forward: true, expected: 300 * time.Second, changed: false},
		{name: "rewind", duration: 300 * time.Second, start: 60 * time.Second, forward: false, expected: 45 * time.Second, changed: true},
		{name: "rewind clamps at zero", duration: 300 * time.Second, start: 10 * time.Second, forward: false, expected: 0, changed: true},
		{name: "rewind at zero", duration: 300 * time.Second, start: 0, forward: false, expected: 0, changed: false},
		{name: "zero duration", duration: 0, start: 0, forward: true, expected: 0, changed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTransport(t, Config{Duration: tt.duration, SeekMode: SeekApply})
			tr.Seek(tt.start)

			var changed bool
			if tt.forward {
				changed = tr.FastForward()
			} else {
				changed = tr.Rewind()
			}

			assert.Equal(t, tt.changed, changed)
			assert.Equal(t, tt.expected, tr.State().Position)
			assert.Equal(t, ModePaused, tr.State().Mode)
		})
	}
}

func TestTransport_SeekDiagnostic_LeavesStateUnchanged(t *testing.T) {
	tr := newTransport(t, Config{Duration: DefaultDuration, SeekMode: SeekDiagnostic})
	tr.Seek(30 * time.Second)
	before := tr.State()

	assert.False(t, tr.FastForward())
	assert.False(t, tr.Rewind())
	assert.Equal(t, before, tr.State())
}

func TestTransport_CustomStep(t *testing.T) {
	tr := newTransport(t, Config{Duration: time.Minute, SeekStep: 10 * time.Second})

	tr.FastForward()
	tr.FastForward()
	assert.Equal(t, 20*time.Second, tr.State().Position)

	tr.Rewind()
	assert.Equal(t, 10*time.Second, tr.State().Position)
}

func TestTransport_SetDuration(t *testing.T) {
	tr := newTransport(t, Config{Duration: DefaultDuration})
	tr.Seek(200 * time.Second)

	require.NoError(t, tr.SetDuration(120*time.Second))
	assert.Equal(t, 120*time.Second, tr.State().Position)
	assert.Equal(t, 120*time.Second, tr.State().Duration)

	err := tr.SetDuration(-time.Second)
	assert.True(t, errors.Is(err, ErrNegativeDuration))
	assert.Equal(t, 120*time.Second, tr.State().Duration)
}

func TestTransport_PositionInvariant(t *testing.T) {
	tr := newTransport(t, Config{Duration: 40 * time.Second, SeekStep: 15 * time.Second})

	// forward x4, rewind x5, forward x1
	sequence := []bool{true, true, true, true, false, false, false, false, false, true}
	for i, forward := range sequence {
		if forward {
			tr.FastForward()
		} else {
			tr.Rewind()
		}
		st := tr.State()
		assert.GreaterOrEqual(t, st.Position, time.Duration(0), "step %d", i)
		assert.LessOrEqual(t, st.Position, st.Duration, "step %d", i)
	}
	assert.Equal(t, 15*time.Second, tr.State().Position)
}

func TestParseSeekMode(t *testing.T) {
	m, err := ParseSeekMode("")
	require.NoError(t, err)
	assert.Equal(t, SeekApply, m)

	m, err = ParseSeekMode("diagnostic")
	require.NoError(t, err)
	assert.Equal(t, SeekDiagnostic, m)

	_, err = ParseSeekMode("APPLY")
	assert.Error(t, err)
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "paused", ModePaused.String())
	assert.Equal(t, "playing", ModePlaying.String())
	assert.Equal(t, "unknown", Mode(42).String())
}
