package home

import "github.com/osa030/phasebox/internal/app/transport"

// EventType represents a controller event type.
type EventType int

const (
	EventPlaylistChanged EventType = iota // Item appended or removed
	EventModeChanged                      // Play/pause toggled
	EventPositionChanged                  // Position moved by a seek
	EventItemPlayed                       // Item handed to the player
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventPlaylistChanged:
		return "playlist_changed"
	case EventModeChanged:
		return "mode_changed"
	case EventPositionChanged:
		return "position_changed"
	case EventItemPlayed:
		return "item_played"
	default:
		return "unknown"
	}
}

// Event represents a controller event.
type Event struct {
	Type      EventType
	ItemID    string             // Affected item (playlist and played events)
	Transport transport.Snapshot // Transport state after the transition
	Length    int                // Playlist length after the transition
}
