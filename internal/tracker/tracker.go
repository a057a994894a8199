// internal/tracker/tracker.go

// Package tracker turns raw pointer input into directional gesture sequences.
//
// A gesture starts with a secondary-button press, accumulates one direction
// token per movement segment of at least MinMoveDistance, and ends on release
// of the same pointer or on a primary-button click while still held. Only
// one pointer is tracked at a time.
//
// Handle is meant to be called from a single event loop. Thresholds and the
// remote signals (ArmSuppression, SetRemoteButtonState) may arrive from other
// goroutines.
package tracker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// Broadcaster receives button state changes. Calls are fire-and-forget: the
// tracker never waits on them and their failures never reach it.
type Broadcaster interface {
	BroadcastButtonState(down bool, at time.Time)
}

// NopBroadcaster discards every notification.
type NopBroadcaster struct{}

// BroadcastButtonState implements Broadcaster.
func (NopBroadcaster) BroadcastButtonState(bool, time.Time) {}

// GestureHandler consumes completed gestures.
type GestureHandler func(c Completion)

// Option configures a Tracker.
type Option func(*Tracker)

// WithBroadcaster sets the button state broadcaster.
func WithBroadcaster(b Broadcaster) Option {
	return func(t *Tracker) { t.broadcaster = b }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithThresholds sets the initial thresholds.
func WithThresholds(th Thresholds) Option {
	return func(t *Tracker) { t.thresholds.Store(&th) }
}

// Tracker is the gesture state machine.
type Tracker struct {
	mu          sync.Mutex
	state       machine
	thresholds  atomic.Pointer[Thresholds]
	broadcaster Broadcaster
	onGesture   GestureHandler
	now         func() time.Time
}

// New creates a tracker that hands every completed gesture to onGesture.
func New(onGesture GestureHandler, opts ...Option) *Tracker {
	t := &Tracker{
		state:       newMachine(),
		broadcaster: NopBroadcaster{},
		onGesture:   onGesture,
		now:         time.Now,
	}
	th := DefaultThresholds
	t.thresholds.Store(&th)
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// UpdateConfig takes the numeric thresholds from cfg.
func (t *Tracker) UpdateConfig(cfg gesture.Config) {
	th := ThresholdsFrom(cfg)
	t.thresholds.Store(&th)
	logger.DebugTagf("tracker", "Tracker config updated minDuration=%v distance=%g", th.MinDuration, th.MinMoveDistance)
}

// Thresholds returns the thresholds currently in force.
func (t *Tracker) Thresholds() Thresholds {
	return *t.thresholds.Load()
}

// Handle feeds one input event through the state machine.
func (t *Tracker) Handle(ev Event) Disposition {
	now := t.now()

	t.mu.Lock()
	before := t.state
	next, effects, disp := t.state.step(ev, now, t.Thresholds())
	t.state = next
	t.mu.Unlock()

	logTransition(ev, before, next, disp)
	t.apply(effects, now)
	return disp
}

// ArmSuppression arms the one-shot contextmenu suppression. A positive
// window makes it lapse after that long.
func (t *Tracker) ArmSuppression(window time.Duration) {
	now := t.now()
	t.mu.Lock()
	t.state = t.state.armSuppression(now, window)
	t.mu.Unlock()
	logger.DebugTagf("tracker", "Context menu suppression armed window=%v", window)
}

// SetRemoteButtonState records what the other instances believe about the
// right button, so a later stray release can resynchronize them.
func (t *Tracker) SetRemoteButtonState(down bool) {
	t.mu.Lock()
	t.state.remoteDown = down
	t.mu.Unlock()
}

// Tracking reports whether a gesture is in progress.
func (t *Tracker) Tracking() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.state.session.(*tracking)
	return ok
}

// Sequence returns a copy of the directions recorded so far.
func (t *Tracker) Sequence() []gesture.Direction {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.state.session.(*tracking); ok {
		return gesture.CloneSequence(s.sequence)
	}
	return nil
}

// SuppressionArmed reports whether the next contextmenu would be considered.
func (t *Tracker) SuppressionArmed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.suppress.armed
}

// Reset abandons any gesture in progress without notifying anyone.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.state.session = idle{}
	t.mu.Unlock()
}

func (t *Tracker) apply(effects []effect, now time.Time) {
	for _, e := range effects {
		switch e.kind {
		case effectButtonHeld:
			t.broadcast(true, now)
		case effectButtonReleased:
			t.broadcast(false, now)
		case effectEmit:
			logger.InfoTagf("tracker", "Gesture completed reason=%s duration=%v sequence=%v",
				e.completion.Reason, e.completion.Duration, e.completion.Sequence)
			if t.onGesture != nil {
				t.onGesture(e.completion)
			}
		}
	}
}

func (t *Tracker) broadcast(down bool, at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warnf("Tracker: button state broadcast panicked: %v", r)
		}
	}()
	t.broadcaster.BroadcastButtonState(down, at)
}

func logTransition(ev Event, before, after machine, disp Disposition) {
	switch ev.Kind {
	case KindPointerMove:
		if b, ok := before.session.(*tracking); ok {
			if a, ok := after.session.(*tracking); ok && len(a.sequence) != len(b.sequence) {
				logger.DebugTagf("tracker", "Direction recorded %s", a.lastDirection)
			}
		}
		return
	case KindPointerDown:
		if a, ok := after.session.(*tracking); ok {
			logger.DebugTagf("tracker", "Gesture tracking activated pid=%d start=%s", a.pointerID, a.anchor)
		}
	case KindPointerUp, KindPointerCancel, KindMouseDown:
		_, wasTracking := before.session.(*tracking)
		_, stillTracking := after.session.(*tracking)
		if wasTracking && !stillTracking {
			logger.DebugTagf("tracker", "Gesture ended on %s", ev.Kind)
		}
	case KindContextMenu:
		if disp.PreventDefault {
			logger.DebugTagf("tracker", "Context menu suppressed after gesture")
		}
	}
}
