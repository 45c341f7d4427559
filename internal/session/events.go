package session

import (
	"sync"

	"github.com/google/uuid"
)

// EventType discriminates session-change notifications.
type EventType int

const (
	EventSignedIn EventType = iota
	EventSignedOut
)

// Event is one session-change notification.
type Event struct {
	Type   EventType
	UserID uuid.UUID
}

// Notifier fans session-change events out to subscribers. Consumers subscribe
// once at process start; a slow subscriber drops events rather than blocking
// the auth path.
type Notifier struct {
	mu   sync.Mutex
	subs []chan Event
}

// Subscribe registers a new subscriber and returns its event channel.
func (n *Notifier) Subscribe() <-chan Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan Event, 16)
	n.subs = append(n.subs, ch)
	return ch
}

// publish delivers the event to every subscriber without blocking.
func (n *Notifier) publish(ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
