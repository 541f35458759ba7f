// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/tidecore/internal/logger"
)

// Handler defines the function signature for event subscribers.
// Returning true marks the event consumed and stops delivery to later handlers.
type Handler func(e Event) bool

// SubscriptionID identifies a handler registration for Unsubscribe.
type SubscriptionID int

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   SubscriptionID
}

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: m.nextID, handler: handler})
	logger.DebugTagf("event", "Handler %d subscribed to %v", m.nextID, eventType)
	return m.nextID
}

// Unsubscribe removes the handler registered under id. Unknown ids are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			m.handlers[t] = kept
			return
		}
	}
}

// Dispatch sends an event to all registered handlers for its type.
// Handlers run synchronously on the caller's goroutine, in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	e := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	subs := m.handlers[eventType]
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	// Unsubscribe replaces the slice instead of mutating it, so iterating
	// the snapshot is safe even if a handler unsubscribes itself.
	for _, s := range subs {
		if s.handler(e) {
			break
		}
	}
}
