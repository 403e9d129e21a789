package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	src := `[
		{"name": "Track A", "thumbnail_path": "a.png", "audio_path": "a.mp3"},
		{"name": "Track B", "thumbnail_path": "", "audio_path": "b.mp3"}
	]`

	items, err := Parse(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Track A", items[0].Name)
	assert.Equal(t, "a.png", items[0].ThumbnailPath)
	assert.Equal(t, "a.mp3", items[0].AudioPath)
	assert.Equal(t, "Track B", items[1].Name)
	assert.Equal(t, "", items[1].ThumbnailPath)
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestParse_EmptyArray(t *testing.T) {
	items, err := Parse(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		errMsg     string
		wantMarked bool
	}{
		{
			name:       "missing name",
			src:        `[{"thumbnail_path": "a.png", "audio_path": "a.mp3"}]`,
			errMsg:     "entry 0",
			wantMarked: true,
		},
		{
			name:       "empty name",
			src:        `[{"name": "", "thumbnail_path": "a.png", "audio_path": "a.mp3"}]`,
			errMsg:     "Name",
			wantMarked: true,
		},
		{
			name:       "missing thumbnail in second entry",
			src:        `[{"name": "A", "thumbnail_path": "a.png", "audio_path": "a.mp3"}, {"name": "B", "audio_path": "b.mp3"}]`,
			errMsg:     "entry 1",
			wantMarked: true,
		},
		{
			name:       "missing audio",
			src:        `[{"name": "A", "thumbnail_path": "a.png"}]`,
			errMsg:     "AudioPath",
			wantMarked: true,
		},
		{
			name:       "null entry",
			src:        `[null]`,
			errMsg:     "entry 0",
			wantMarked: true,
		},
		{
			name:   "unknown field",
			src:    `[{"name": "A", "thumbnail_path": "a.png", "audio_path": "a.mp3", "duration": 3}]`,
			errMsg: "duration",
		},
		{
			name:   "wrong type",
			src:    `[{"name": 5, "thumbnail_path": "a.png", "audio_path": "a.mp3"}]`,
			errMsg: "failed to parse catalog",
		},
		{
			name:   "not an array",
			src:    `{"name": "A"}`,
			errMsg: "failed to parse catalog",
		},
		{
			name:   "null document",
			src:    `null`,
			errMsg: "JSON array",
		},
		{
			name:   "trailing data",
			src:    `[] []`,
			errMsg: "unexpected data",
		},
		{
			name:   "empty input",
			src:    ``,
			errMsg: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Parse(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Nil(t, items)
			assert.Contains(t, err.Error(), tt.errMsg)
			assert.Equal(t, tt.wantMarked, errors.Is(err, ErrInvalidEntry))
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "X", "thumbnail_path": "x.png", "audio_path": "x.mp3"}]`), 0o644))

	items, err := Load(path)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "X", items[0].Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	items := Default()
	require.Len(t, items, 2)
	assert.Equal(t, "Track A", items[0].Name)
	assert.Equal(t, "Track B", items[1].Name)

	// each call yields fresh identities
	again := Default()
	assert.NotEqual(t, items[0].ID, again[0].ID)
}
