// Package playlist provides the Playlist domain value.
package playlist

import (
	"github.com/cockroachdb/errors"

	"github.com/osa030/phasebox/internal/domain/phase"
)

// ErrIndexOutOfRange is returned by the checked removal variant.
var ErrIndexOutOfRange = errors.New("playlist index out of range")

// Playlist is an ordered sequence of items.
// Every operation returns a new Playlist and leaves the receiver untouched.
type Playlist struct {
	items []phase.Item
}

// New creates a playlist holding a copy of items in the given order.
func New(items ...phase.Item) Playlist {
	cp := make([]phase.Item, len(items))
	copy(cp, items)
	return Playlist{items: cp}
}

// Append returns a new playlist with item added at the end.
func (p Playlist) Append(item phase.Item) Playlist {
	next := make([]phase.Item, len(p.items), len(p.items)+1)
	copy(next, p.items)
	return Playlist{items: append(next, item)}
}

// RemoveAt returns a new playlist without the element at index.
// An index that matches no element removes nothing.
func (p Playlist) RemoveAt(index int) Playlist {
	next := make([]phase.Item, 0, len(p.items))
	for i, item := range p.items {
		if i != index {
			next = append(next, item)
		}
	}
	return Playlist{items: next}
}

// RemoveAtChecked is RemoveAt with an explicit out-of-range error.
func (p Playlist) RemoveAtChecked(index int) (Playlist, error) {
	if index < 0 || index >= len(p.items) {
		return p, errors.Wrapf(ErrIndexOutOfRange, "index %d (len %d)", index, len(p.items))
	}
	return p.RemoveAt(index), nil
}

// RemoveByID returns a new playlist without the item carrying id.
// The second result is false if no item matched.
func (p Playlist) RemoveByID(id string) (Playlist, bool) {
	idx := p.IndexOf(id)
	if idx < 0 {
		return p, false
	}
	return p.RemoveAt(idx), true
}

// IndexOf returns the position of the item with id, or -1.
func (p Playlist) IndexOf(id string) int {
	for i, item := range p.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// At returns the item at index.
func (p Playlist) At(index int) (phase.Item, bool) {
	if index < 0 || index >= len(p.items) {
		return phase.Item{}, false
	}
	return p.items[index], true
}

// Items returns a copy of the items.
func (p Playlist) Items() []phase.Item {
	result := make([]phase.Item, len(p.items))
	copy(result, p.items)
	return result
}

// IDs returns all item IDs in order.
func (p Playlist) IDs() []string {
	ids := make([]string, len(p.items))
	for i, item := range p.items {
		ids[i] = item.ID
	}
	return ids
}

// Len returns the number of items.
func (p Playlist) Len() int {
	return len(p.items)
}
