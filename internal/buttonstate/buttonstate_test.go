package buttonstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/mgesture/internal/event"
)

type remote struct {
	mu    sync.Mutex
	calls []bool
}

func (r *remote) SetRemoteButtonState(down bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, down)
}

func (r *remote) Calls() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

func TestCoordinatorTracksUpdates(t *testing.T) {
	bus := event.NewManager()
	c := NewCoordinator(bus)
	defer c.Close()
	b := NewBroadcaster(bus)

	start := time.Unix(100, 0)
	b.BroadcastButtonState(true, start)
	bus.Wait()
	down, at := c.State()
	assert.True(t, down)
	assert.Equal(t, start, at)

	b.BroadcastButtonState(false, start.Add(time.Second))
	bus.Wait()
	down, _ = c.State()
	assert.False(t, down)
}

func TestCoordinatorDropsStaleUpdates(t *testing.T) {
	bus := event.NewManager()
	c := NewCoordinator(bus)
	defer c.Close()

	now := time.Unix(100, 0)
	bus.Dispatch(event.TypeButtonStateUpdate, event.ButtonStateData{Down: false, At: now})
	bus.Dispatch(event.TypeButtonStateUpdate, event.ButtonStateData{Down: true, At: now.Add(-time.Millisecond)})

	down, _ := c.State()
	assert.False(t, down)
}

func TestFollowPullsCurrentState(t *testing.T) {
	bus := event.NewManager()
	c := NewCoordinator(bus)
	defer c.Close()
	bus.Dispatch(event.TypeButtonStateUpdate, event.ButtonStateData{Down: true, At: time.Unix(1, 0)})

	r := &remote{}
	unsubscribe := Follow(bus, r)
	defer unsubscribe()
	bus.Wait()

	assert.Equal(t, []bool{true}, r.Calls())
}

func TestFollowIgnoresUpdatesWithoutRequest(t *testing.T) {
	bus := event.NewManager()
	r := &remote{}
	unsubscribe := Follow(bus, r)
	bus.Wait()

	bus.Dispatch(event.TypeButtonStateUpdate, event.ButtonStateData{Down: true})
	unsubscribe()
	bus.Dispatch(event.TypeButtonStateCurrent, event.ButtonStateData{Down: true})

	assert.Empty(t, r.Calls())
}

func TestCoordinatorIgnoresBadPayload(t *testing.T) {
	bus := event.NewManager()
	c := NewCoordinator(bus)
	defer c.Close()

	bus.Dispatch(event.TypeButtonStateUpdate, "down")
	down, at := c.State()
	assert.False(t, down)
	assert.True(t, at.IsZero())
}
