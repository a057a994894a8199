// internal/action/router.go

// Package action carries matched gestures to whoever can perform them. Page
// actions run in the host that saw the gesture; tab actions are forwarded
// over the event bus to the background.
package action

import (
	"context"
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// Performer carries out an action. plugin.Manager implements it.
type Performer interface {
	Perform(ctx context.Context, def gesture.Definition) error
}

// Publisher sends fire-and-forget messages.
type Publisher interface {
	Publish(eventType event.Type, data interface{})
}

// Bus is a Publisher that also accepts subscriptions.
type Bus interface {
	Publisher
	Subscribe(eventType event.Type, handler event.Handler) (unsubscribe func())
}

// Split partitions actions into those performed in the page and those that
// need the background.
func Split(actions []gesture.Action) (dom, background []gesture.Action) {
	for _, a := range actions {
		if a.IsDOM() {
			dom = append(dom, a)
		} else {
			background = append(background, a)
		}
	}
	return dom, background
}

// Router sends each action to the right executor.
type Router struct {
	local Performer
	bus   Publisher
}

// NewRouter creates a router running page actions on local.
func NewRouter(local Performer, bus Publisher) *Router {
	return &Router{local: local, bus: bus}
}

// Dispatch performs page actions directly and forwards the rest as a
// gesture/action message. Forwarding never fails.
func (r *Router) Dispatch(ctx context.Context, def gesture.Definition) error {
	if def.Action.IsDOM() {
		logger.Infof("Executing DOM action %s", def.Action)
		return r.local.Perform(ctx, def)
	}

	forwarded := def.Clone()
	if forwarded.Action != gesture.ActionOpenURL {
		forwarded.URL = ""
	} else if forwarded.URL != "" {
		logger.DebugTagf("action", "Including URL for OPEN_URL action: %s", forwarded.URL)
	}
	logger.Infof("Forwarding action %s to background", def.Action)
	r.bus.Publish(event.TypeGestureAction, event.GestureActionData{Definition: forwarded})
	return nil
}

// Background performs forwarded actions. After an action that changes the
// active tab it asks every host to swallow the next context menu, since the
// right-button release lands on the new page.
type Background struct {
	performer Performer
	bus       Bus
	window    time.Duration

	once        sync.Once
	unsubscribe func()
}

// NewBackground subscribes a background executor to bus. window bounds how
// long the contextmenu suppression stays armed; zero disables the request.
func NewBackground(performer Performer, bus Bus, window time.Duration) *Background {
	b := &Background{performer: performer, bus: bus, window: window}
	b.unsubscribe = bus.Subscribe(event.TypeGestureAction, b.handle)
	return b
}

func (b *Background) handle(e event.Event) bool {
	data, ok := e.Data.(event.GestureActionData)
	if !ok {
		logger.Warnf("Background: unexpected payload %T for %v", e.Data, e.Type)
		return false
	}
	def := data.Definition
	logger.Infof("Received gesture action %s", def.Action)

	if err := b.performer.Perform(context.Background(), def); err != nil {
		logger.Errorf("Background: %v", err)
		return true
	}
	if def.Action.ChangesTab() && b.window > 0 {
		b.bus.Publish(event.TypeSuppressContextMenu, event.SuppressContextMenuData{Window: b.window})
	}
	return true
}

// Close stops listening for actions.
func (b *Background) Close() {
	b.once.Do(b.unsubscribe)
}
