package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "", cfg.Server.ControlToken)
	assert.Equal(t, "", cfg.Playlist.DefaultPath)
	require.NotNil(t, cfg.Transport.DurationSec)
	assert.Equal(t, 300, *cfg.Transport.DurationSec)
	assert.Equal(t, 300*time.Second, cfg.Transport.Duration())
	assert.Equal(t, 15*time.Second, cfg.Transport.SeekStep())
	assert.Equal(t, "apply", cfg.Transport.SeekMode)
	assert.Equal(t, "logo192.png", cfg.Thumbnail.Fallback)
	assert.Equal(t, "static", cfg.Thumbnail.Resolver.Type)
	assert.Equal(t, BindingWired, cfg.Bindings.RemoveButton)
	assert.True(t, cfg.RemoveButtonWired())
}

func TestParse_Values(t *testing.T) {
	src := `
server:
  addr: ":9090"
  control_token: "secret"
  hooks:
    on_started: ["echo started"]
playlist:
  default_path: "data/items.json"
transport:
  duration_sec: 180
  seek_step_sec: 10
  seek_mode: diagnostic
thumbnail:
  fallback: "missing.png"
  resolver:
    type: file
    settings:
      root: "public"
bindings:
  remove_button: inert
`
	cfg, err := Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.Server.ControlToken)
	assert.Equal(t, []string{"echo started"}, cfg.Server.Hooks.OnStarted)
	assert.Equal(t, "data/items.json", cfg.Playlist.DefaultPath)
	assert.Equal(t, 180*time.Second, cfg.Transport.Duration())
	assert.Equal(t, 10*time.Second, cfg.Transport.SeekStep())
	assert.Equal(t, "diagnostic", cfg.Transport.SeekMode)
	assert.Equal(t, "missing.png", cfg.Thumbnail.Fallback)
	assert.Equal(t, "file", cfg.Thumbnail.Resolver.Type)
	assert.Equal(t, "public", cfg.Thumbnail.Resolver.Settings["root"])
	assert.False(t, cfg.RemoveButtonWired())
}

func TestParse_ZeroDurationKept(t *testing.T) {
	cfg, err := Parse([]byte("transport:\n  duration_sec: 0\n"))
	require.NoError(t, err)

	require.NotNil(t, cfg.Transport.DurationSec)
	assert.Equal(t, 0, *cfg.Transport.DurationSec)
	assert.Equal(t, time.Duration(0), cfg.Transport.Duration())
}

func TestTransportConfig_DurationUnset(t *testing.T) {
	assert.Equal(t, 300*time.Second, TransportConfig{}.Duration())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errMsg string
	}{
		{
			name:   "unknown seek mode",
			src:    "transport:\n  seek_mode: sideways\n",
			errMsg: "SeekMode",
		},
		{
			name:   "negative duration",
			src:    "transport:\n  duration_sec: -1\n",
			errMsg: "DurationSec",
		},
		{
			name:   "seek step too large",
			src:    "transport:\n  seek_step_sec: 7200\n",
			errMsg: "SeekStepSec",
		},
		{
			name:   "unknown resolver",
			src:    "thumbnail:\n  resolver:\n    type: http\n",
			errMsg: "Type",
		},
		{
			name:   "unknown binding",
			src:    "bindings:\n  remove_button: maybe\n",
			errMsg: "RemoveButton",
		},
		{
			name:   "malformed yaml",
			src:    "server: [",
			errMsg: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParse_EnvOverride(t *testing.T) {
	t.Setenv("PHASEBOX_ADDR", ":7000")
	t.Setenv("PHASEBOX_CONTROL_TOKEN", "from-env")
	t.Setenv("PHASEBOX_DEFAULT_PLAYLIST", "env.json")

	cfg, err := Parse([]byte("server:\n  addr: \":9090\"\n  control_token: file\n"))
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Server.ControlToken)
	assert.Equal(t, "env.json", cfg.Playlist.DefaultPath)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":8181\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8181", cfg.Server.Addr)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Second, cfg.Transport.Duration())
}
