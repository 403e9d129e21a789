// Package phase provides the playable item domain entity.
package phase

import "github.com/google/uuid"

// Item represents one playlist entry.
type Item struct {
	ID            string // Stable opaque identifier (UUID)
	Name          string // Display label
	ThumbnailPath string // Image reference, may fail to resolve
	AudioPath     string // Audio reference, handed to the player as-is
}

// New creates an item with a freshly assigned ID.
func New(name, thumbnailPath, audioPath string) Item {
	return Item{
		ID:            uuid.New().String(),
		Name:          name,
		ThumbnailPath: thumbnailPath,
		AudioPath:     audioPath,
	}
}

// SameContent reports whether two items carry identical fields, ignoring ID.
func (i Item) SameContent(other Item) bool {
	return i.Name == other.Name &&
		i.ThumbnailPath == other.ThumbnailPath &&
		i.AudioPath == other.AudioPath
}
