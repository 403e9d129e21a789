// Package catalog loads the default playlist that seeds the playlist store.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"

	"github.com/osa030/phasebox/internal/domain/phase"
)

// ErrInvalidEntry marks a malformed catalog entry.
var ErrInvalidEntry = errors.New("invalid catalog entry")

//go:embed default_phase_items.json
var defaultItems []byte

// Entry is one record of the default playlist source.
// Pointer fields distinguish a missing key from an empty value.
type Entry struct {
	Name          *string `json:"name" validate:"required,min=1"`
	ThumbnailPath *string `json:"thumbnail_path" validate:"required"`
	AudioPath     *string `json:"audio_path" validate:"required,min=1"`
}

// Item converts a validated entry into a domain item with a fresh ID.
func (e Entry) Item() phase.Item {
	return phase.New(*e.Name, *e.ThumbnailPath, *e.AudioPath)
}

// Load reads a catalog file.
func Load(path string) ([]phase.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open catalog file")
	}
	defer f.Close()

	items, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load catalog %s", path)
	}
	return items, nil
}

// Default returns the embedded default playlist.
func Default() []phase.Item {
	items, err := Parse(bytes.NewReader(defaultItems))
	if err != nil {
		panic(errors.Wrap(err, "embedded catalog is invalid"))
	}
	return items
}

// Parse decodes and validates a catalog. Any malformed entry fails the whole load.
func Parse(r io.Reader) ([]phase.Item, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var entries []Entry
	if err := dec.Decode(&entries); err != nil {
		return nil, errors.Wrap(err, "failed to parse catalog")
	}
	if entries == nil {
		return nil, errors.New("catalog must be a JSON array")
	}
	if dec.More() {
		return nil, errors.New("unexpected data after catalog array")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after catalog array")
	}

	validate := validator.New()
	items := make([]phase.Item, 0, len(entries))
	for i, e := range entries {
		if err := validate.Struct(e); err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "entry %d", i), ErrInvalidEntry)
		}
		items = append(items, e.Item())
	}
	return items, nil
}
