// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/mgesture/internal/logger"
)

// Handler defines the function signature for event subscribers.
// Returning true consumes the event and stops delivery to later handlers.
type Handler func(e Event) bool

type subscription struct {
	id      uint64
	handler Handler
}

// Manager handles subscriptions and delivery.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]subscription
	nextID   uint64
	inflight sync.WaitGroup

	queueMu  sync.Mutex
	queue    []Event
	draining bool
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler for eventType and returns a function that removes it.
func (m *Manager) Subscribe(eventType Type, handler Handler) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.Debugf("Event Manager: Handler subscribed to %v", eventType)

	var once sync.Once
	return func() {
		once.Do(func() { m.unsubscribe(eventType, id) })
	}
}

func (m *Manager) unsubscribe(eventType Type, id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := m.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			m.handlers[eventType] = append(next, subs[i+1:]...)
			return
		}
	}
}

// Dispatch delivers an event synchronously to every handler for its type. A
// panicking handler is logged and skipped.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	event := Event{Type: eventType, Data: data}

	m.mu.RLock()
	handlers := make([]subscription, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		logger.Debugf("Event Manager: No handlers for %v", eventType)
		return
	}

	logger.Debugf("Event Manager: Dispatching %v to %d handler(s)", eventType, len(handlers))
	for _, s := range handlers {
		if deliver(s.handler, event) {
			break
		}
	}
}

// Publish is fire-and-forget Dispatch: delivery happens on another goroutine
// and the caller never observes handler failures. Published events are
// delivered one at a time in the order they were published.
func (m *Manager) Publish(eventType Type, data interface{}) {
	m.inflight.Add(1)

	m.queueMu.Lock()
	m.queue = append(m.queue, Event{Type: eventType, Data: data})
	if m.draining {
		m.queueMu.Unlock()
		return
	}
	m.draining = true
	m.queueMu.Unlock()

	go m.drain()
}

// drain delivers queued events until the queue is empty.
func (m *Manager) drain() {
	for {
		m.queueMu.Lock()
		if len(m.queue) == 0 {
			m.draining = false
			m.queueMu.Unlock()
			return
		}
		e := m.queue[0]
		m.queue[0] = Event{}
		m.queue = m.queue[1:]
		m.queueMu.Unlock()

		m.Dispatch(e.Type, e.Data)
		m.inflight.Done()
	}
}

// Wait blocks until every Publish issued so far has been delivered.
func (m *Manager) Wait() {
	m.inflight.Wait()
}

func deliver(h Handler, e Event) (consumed bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("Event Manager: handler for %v panicked: %v", e.Type, r)
			consumed = false
		}
	}()
	return h(e)
}
