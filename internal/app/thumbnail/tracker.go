package thumbnail

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/phasebox/internal/domain/phase"
)

// DefaultFallback is the image shown when an item's thumbnail fails to load.
const DefaultFallback = "logo192.png"

// Tracker computes the displayed thumbnail for each item.
// Once an item has fallen back it keeps the fallback until Forget is called.
type Tracker struct {
	mu       sync.RWMutex
	resolver Resolver
	fallback string
	fellBack map[string]bool // item ID -> fallback in effect
}

// NewTracker creates a tracker. An empty fallback means DefaultFallback.
func NewTracker(resolver Resolver, fallback string) *Tracker {
	if fallback == "" {
		fallback = DefaultFallback
	}
	return &Tracker{
		resolver: resolver,
		fallback: fallback,
		fellBack: make(map[string]bool),
	}
}

// Render returns the image reference to display for item.
func (t *Tracker) Render(ctx context.Context, item phase.Item) string {
	t.mu.RLock()
	sticky := t.fellBack[item.ID]
	t.mu.RUnlock()
	if sticky {
		return t.fallback
	}

	if err := t.resolver.Resolve(ctx, item.ThumbnailPath); err != nil {
		zlog.Debug().Msgf("thumbnail: falling back: item=%s ref=%q err=%v", item.ID, item.ThumbnailPath, err)
		t.mu.Lock()
		t.fellBack[item.ID] = true
		t.mu.Unlock()
		return t.fallback
	}
	return item.ThumbnailPath
}

// FellBack reports whether item id is showing the fallback.
func (t *Tracker) FellBack(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.fellBack[id]
}

// Forget ends the render lifetime of item id.
func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.fellBack, id)
}

// Fallback returns the fallback reference.
func (t *Tracker) Fallback() string {
	return t.fallback
}
