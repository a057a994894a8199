// internal/buttonstate/buttonstate.go

// Package buttonstate shares the right-button state between gesture hosts.
// Hosts push every change; a host that starts late, or suspects it missed a
// release, pulls the last known state from the Coordinator.
package buttonstate

import (
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/logger"
)

// Bus is the part of the event manager the package needs.
type Bus interface {
	Subscribe(eventType event.Type, handler event.Handler) (unsubscribe func())
	Publish(eventType event.Type, data interface{})
}

// Broadcaster publishes button changes. It satisfies tracker.Broadcaster.
type Broadcaster struct {
	bus Bus
}

// NewBroadcaster creates a Broadcaster on bus.
func NewBroadcaster(bus Bus) *Broadcaster {
	return &Broadcaster{bus: bus}
}

// BroadcastButtonState publishes an rmb/state-update message.
func (b *Broadcaster) BroadcastButtonState(down bool, at time.Time) {
	b.bus.Publish(event.TypeButtonStateUpdate, event.ButtonStateData{Down: down, At: at})
}

// Coordinator remembers the last reported state and answers requests for it.
type Coordinator struct {
	bus Bus

	mu   sync.Mutex
	down bool
	at   time.Time

	unsubscribe []func()
}

// NewCoordinator subscribes a coordinator to bus.
func NewCoordinator(bus Bus) *Coordinator {
	c := &Coordinator{bus: bus}
	c.unsubscribe = []func(){
		bus.Subscribe(event.TypeButtonStateUpdate, c.handleUpdate),
		bus.Subscribe(event.TypeButtonStateRequest, c.handleRequest),
	}
	return c
}

func (c *Coordinator) handleUpdate(e event.Event) bool {
	data, ok := e.Data.(event.ButtonStateData)
	if !ok {
		logger.Warnf("ButtonState: unexpected payload %T for %v", e.Data, e.Type)
		return false
	}

	c.mu.Lock()
	if !data.At.IsZero() && data.At.Before(c.at) {
		c.mu.Unlock()
		logger.DebugTagf("buttonstate", "Dropping stale update down=%t", data.Down)
		return false
	}
	c.down = data.Down
	c.at = data.At
	c.mu.Unlock()

	logger.DebugTagf("buttonstate", "Right button down=%t", data.Down)
	return false
}

func (c *Coordinator) handleRequest(event.Event) bool {
	down, _ := c.State()
	c.bus.Publish(event.TypeButtonStateCurrent, event.ButtonStateData{Down: down})
	return true
}

// State returns the last reported state and when it was reported.
func (c *Coordinator) State() (down bool, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.down, c.at
}

// Close detaches the coordinator from the bus.
func (c *Coordinator) Close() {
	for _, fn := range c.unsubscribe {
		fn()
	}
}

// RemoteStateSetter is implemented by tracker.Tracker.
type RemoteStateSetter interface {
	SetRemoteButtonState(down bool)
}

// Follow keeps target informed of the coordinator's view and asks for it once
// straight away.
func Follow(bus Bus, target RemoteStateSetter) (unsubscribe func()) {
	unsubscribe = bus.Subscribe(event.TypeButtonStateCurrent, func(e event.Event) bool {
		if data, ok := e.Data.(event.ButtonStateData); ok {
			target.SetRemoteButtonState(data.Down)
		}
		return false
	})
	bus.Publish(event.TypeButtonStateRequest, nil)
	return unsubscribe
}
