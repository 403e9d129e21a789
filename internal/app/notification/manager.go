// Package notification provides the notification manager for broadcasting controller events.
package notification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/phasebox/internal/app/home"
)

// Type names carried by notifications.
const (
	TypeInitialState = "initial_state"
)

const defaultSendTimeout = 500 * time.Millisecond

// Notification is one message delivered to subscribers.
type Notification struct {
	SequenceNo uint64 `json:"sequence_no"`
	Type       string `json:"type"`
	ItemID     string `json:"item_id,omitempty"`
	Mode       string `json:"mode"`
	PositionMs int64  `json:"position_ms"`
	DurationMs int64  `json:"duration_ms"`
	Elapsed    string `json:"elapsed"`
	Total      string `json:"total"`
	Length     int    `json:"length"`
}

// FromEvent converts a controller event.
func FromEvent(e home.Event) *Notification {
	return &Notification{
		Type:       e.Type.String(),
		ItemID:     e.ItemID,
		Mode:       e.Transport.Mode.String(),
		PositionMs: e.Transport.Position.Milliseconds(),
		DurationMs: e.Transport.Duration.Milliseconds(),
		Elapsed:    e.Transport.Elapsed,
		Total:      e.Transport.Total,
		Length:     e.Length,
	}
}

// FromStatus builds the initial-state notification for a new subscriber.
func FromStatus(s home.Status) *Notification {
	return &Notification{
		Type:       TypeInitialState,
		Mode:       s.Transport.Mode.String(),
		PositionMs: s.Transport.Position.Milliseconds(),
		DurationMs: s.Transport.Duration.Milliseconds(),
		Elapsed:    s.Transport.Elapsed,
		Total:      s.Transport.Total,
		Length:     s.Length,
	}
}

// Stream represents a notification stream for a subscriber.
type Stream interface {
	Send(*Notification) error
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Manager manages notification subscriptions and broadcasting.
type Manager struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
	sequenceNo    uint64
	sequenceNoMu  sync.Mutex
	sendTimeout   time.Duration
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{
		subscriptions: make(map[string]*subscription),
		sendTimeout:   defaultSendTimeout,
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (m *Manager) Subscribe(stream Stream) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	return id
}

// Unsubscribe removes a subscription.
func (m *Manager) Unsubscribe(subscriptionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscriptions, subscriptionID)
}

// NextSequenceNo returns the next sequence number and increments the counter.
func (m *Manager) NextSequenceNo() uint64 {
	m.sequenceNoMu.Lock()
	defer m.sequenceNoMu.Unlock()
	m.sequenceNo++
	return m.sequenceNo
}

// Broadcast stamps a sequence number on n and sends it to all subscribers.
// Each send runs in its own goroutine bounded by the send timeout.
func (m *Manager) Broadcast(n *Notification) {
	n.SequenceNo = m.NextSequenceNo()

	m.mu.RLock()
	// Copy subscriptions to avoid holding lock during sends
	subs := make([]*subscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			// each subscriber gets its own copy
			msg := *n

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(&msg)
			}()

			timer := time.NewTimer(m.sendTimeout)
			defer timer.Stop()

			select {
			case err := <-done:
				if err != nil {
					zlog.Debug().Msgf("notification: send failed: subscription=%s err=%v", s.id, err)
				}
			case <-timer.C:
				zlog.Debug().Msgf("notification: send timed out: subscription=%s", s.id)
			}
		}(sub)
	}

	wg.Wait()
}

// Run forwards controller events to subscribers until events is closed or ctx is done.
func (m *Manager) Run(ctx context.Context, events <-chan home.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.Broadcast(FromEvent(e))
		}
	}
}

// SubscriberCount returns the number of active subscribers.
func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions)
}

// Close removes all subscriptions.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions = make(map[string]*subscription)
}
