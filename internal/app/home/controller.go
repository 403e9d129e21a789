// Package home provides the controller that owns the playlist and the transport.
package home

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/phasebox/internal/app/playback"
	"github.com/osa030/phasebox/internal/app/thumbnail"
	"github.com/osa030/phasebox/internal/app/transport"
	"github.com/osa030/phasebox/internal/domain/phase"
	"github.com/osa030/phasebox/internal/domain/playlist"
)

// ErrItemNotFound is returned for an unknown item ID.
var ErrItemNotFound = errors.New("item not found")

const defaultEventBuffer = 32

// Config holds controller configuration.
type Config struct {
	Transport         transport.Config
	RemoveButtonWired bool // false keeps the row remove button inert
	EventBuffer       int  // Zero means defaultEventBuffer
}

// Row is one playlist entry as a view displays it.
type Row struct {
	Index     int
	ID        string
	Name      string
	Thumbnail string // Displayed image reference, possibly the fallback
	AudioPath string
	FellBack  bool
}

// Status is the controller state as a view displays it.
type Status struct {
	Transport         transport.Snapshot
	SeekMode          transport.SeekMode
	Length            int
	RemoveButtonWired bool
}

// Controller owns the playlist and the transport state.
// Views hold a *Controller and never keep their own copy of either.
type Controller struct {
	mu sync.Mutex

	items     playlist.Playlist
	transport *transport.Transport
	thumbs    *thumbnail.Tracker
	player    playback.Player

	removeWired bool

	eventCh chan Event
	closed  bool
}

// NewController creates a controller seeded with items.
func NewController(cfg Config, items []phase.Item, thumbs *thumbnail.Tracker, player playback.Player) (*Controller, error) {
	tr, err := transport.New(cfg.Transport)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create transport")
	}
	if thumbs == nil {
		thumbs = thumbnail.NewTracker(&thumbnail.StaticResolver{}, "")
	}
	if player == nil {
		player = playback.LogPlayer{}
	}
	buf := cfg.EventBuffer
	if buf <= 0 {
		buf = defaultEventBuffer
	}

	return &Controller{
		items:       playlist.New(items...),
		transport:   tr,
		thumbs:      thumbs,
		player:      player,
		removeWired: cfg.RemoveButtonWired,
		eventCh:     make(chan Event, buf),
	}, nil
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Playlist returns the current playlist value.
func (c *Controller) Playlist() playlist.Playlist {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// Rows renders every playlist entry.
func (c *Controller) Rows(ctx context.Context) []Row {
	c.mu.Lock()
	items := c.items.Items()
	c.mu.Unlock()

	rows := make([]Row, len(items))
	for i, item := range items {
		shown := c.thumbs.Render(ctx, item)
		rows[i] = Row{
			Index:     i,
			ID:        item.ID,
			Name:      item.Name,
			Thumbnail: shown,
			AudioPath: item.AudioPath,
			FellBack:  c.thumbs.FellBack(item.ID),
		}
	}

	// A removal during rendering already ran Forget; the render may have
	// recorded a fallback after it.
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range rows {
		if r.FellBack && c.items.IndexOf(r.ID) < 0 {
			c.thumbs.Forget(r.ID)
		}
	}
	return rows
}

// Add appends item. An item without an ID gets a fresh one.
func (c *Controller) Add(item phase.Item) phase.Item {
	if item.ID == "" {
		item = phase.New(item.Name, item.ThumbnailPath, item.AudioPath)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = c.items.Append(item)
	zlog.Debug().Msgf("home: item added: id=%s name=%s len=%d", item.ID, item.Name, c.items.Len())
	c.sendEventLocked(EventPlaylistChanged, item.ID)
	return item
}

// RemoveAt removes the item at index.
// An out-of-range index leaves the playlist unchanged and returns false.
func (c *Controller) RemoveAt(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items.At(index)
	if !ok {
		zlog.Debug().Msgf("home: remove ignored: index=%d len=%d", index, c.items.Len())
		return false
	}
	c.removeLocked(item, index)
	return true
}

// Remove removes the item with id.
func (c *Controller) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	index := c.items.IndexOf(id)
	if index < 0 {
		return errors.Wrapf(ErrItemNotFound, "id %s", id)
	}
	item, _ := c.items.At(index)
	c.removeLocked(item, index)
	return nil
}

// PressRemove handles the row remove button for item id.
// With an inert binding it only records that the button was pressed.
func (c *Controller) PressRemove(id string) (bool, error) {
	if !c.removeWired {
		zlog.Debug().Msgf("home: remove button pressed but not bound: id=%s", id)
		return false, nil
	}
	if err := c.Remove(id); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) removeLocked(item phase.Item, index int) {
	c.items = c.items.RemoveAt(index)
	c.thumbs.Forget(item.ID)
	zlog.Debug().Msgf("home: item removed: id=%s index=%d len=%d", item.ID, index, c.items.Len())
	c.sendEventLocked(EventPlaylistChanged, item.ID)
}

// TogglePlay flips the transport mode and returns the state it produced.
func (c *Controller) TogglePlay() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transport.Toggle()
	c.sendEventLocked(EventModeChanged, "")
	return c.statusLocked()
}

// FastForward applies the fast-forward transition and returns the state it produced.
func (c *Controller) FastForward() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transport.FastForward() {
		c.sendEventLocked(EventPositionChanged, "")
	}
	return c.statusLocked()
}

// Rewind applies the rewind transition and returns the state it produced.
func (c *Controller) Rewind() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.transport.Rewind() {
		c.sendEventLocked(EventPositionChanged, "")
	}
	return c.statusLocked()
}

// SetDuration replaces the nominal track duration.
func (c *Controller) SetDuration(d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.transport.State()
	if err := c.transport.SetDuration(d); err != nil {
		return err
	}
	if c.transport.State() != before {
		c.sendEventLocked(EventPositionChanged, "")
	}
	return nil
}

// PlayItem hands the audio path of item id to the player.
// The transport is not affected.
func (c *Controller) PlayItem(ctx context.Context, id string) error {
	c.mu.Lock()
	index := c.items.IndexOf(id)
	item, _ := c.items.At(index)
	c.mu.Unlock()

	if index < 0 {
		return errors.Wrapf(ErrItemNotFound, "id %s", id)
	}
	if err := c.player.Play(ctx, item.AudioPath); err != nil {
		return errors.Wrapf(err, "failed to play %s", item.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sendEventLocked(EventItemPlayed, id)
	return nil
}

// Status returns the current controller state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	return Status{
		Transport:         c.transport.Snapshot(),
		SeekMode:          c.transport.SeekMode(),
		Length:            c.items.Len(),
		RemoveButtonWired: c.removeWired,
	}
}

// Close closes the event channel. Transitions keep working afterwards but emit nothing.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.eventCh)
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(t EventType, itemID string) {
	if c.closed {
		return
	}
	e := Event{
		Type:      t,
		ItemID:    itemID,
		Transport: c.transport.Snapshot(),
		Length:    c.items.Len(),
	}
	select {
	case c.eventCh <- e:
	default:
		zlog.Warn().Msgf("home: event channel full, dropping %s", t)
	}
}
