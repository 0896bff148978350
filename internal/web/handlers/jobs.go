package handlers

import (
	"sync"

	"github.com/kozaktomas/photo-faces/internal/constants"
)

// Event types broadcast after store mutations.
const (
	EventFilesAdded    = "files_added"
	EventFilesCleared  = "files_cleared"
	EventPeopleUpdated = "people_updated"
	EventFacesIngested = "faces_ingested"
	EventNamesUpdated  = "names_updated"
)

// StoreEvent is a change notification for rendering clients.
type StoreEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// EventBroadcaster provides listener management and event broadcasting.
type EventBroadcaster struct {
	listeners []chan StoreEvent
	closed    bool
	mu        sync.RWMutex
}

// NewEventBroadcaster creates a broadcaster without listeners.
func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{}
}

// AddListener adds an event listener. After Close the returned channel is
// already closed.
func (b *EventBroadcaster) AddListener() chan StoreEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan StoreEvent, constants.EventChannelBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.listeners = append(b.listeners, ch)
	return ch
}

// RemoveListener removes an event listener.
func (b *EventBroadcaster) RemoveListener(ch chan StoreEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, listener := range b.listeners {
		if listener == ch {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			close(ch)
			return
		}
	}
}

// ListenerCount returns the number of attached listeners.
func (b *EventBroadcaster) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

// SendEvent sends an event to all listeners.
func (b *EventBroadcaster) SendEvent(event StoreEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, listener := range b.listeners {
		select {
		case listener <- event:
		default:
			// Listener buffer full, skip.
		}
	}
}

// Close closes every listener channel. Buffered events are still delivered.
func (b *EventBroadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, listener := range b.listeners {
		close(listener)
	}
	b.listeners = nil
	b.closed = true
}
