// internal/tracker/state.go
package tracker

import (
	"math"
	"time"

	"github.com/bethropolis/mgesture/internal/gesture"
)

// Reason names what ended a gesture.
type Reason string

const (
	ReasonPointerUp Reason = "pointer-up"
	ReasonLeftClick Reason = "left-click"
)

// Thresholds are the numeric knobs the tracker takes from configuration.
type Thresholds struct {
	MinDuration     time.Duration
	MinMoveDistance float64
}

// DefaultThresholds apply until a configuration has been loaded.
var DefaultThresholds = Thresholds{
	MinDuration:     100 * time.Millisecond,
	MinMoveDistance: 10,
}

// ThresholdsFrom extracts the tracker thresholds from a configuration.
func ThresholdsFrom(cfg gesture.Config) Thresholds {
	th := DefaultThresholds
	if cfg.HasDefaultDelay() && cfg.DefaultDelay >= 0 {
		th.MinDuration = millisToDuration(cfg.DefaultDelay)
	}
	if cfg.HasMinMoveDistance() && cfg.MinMoveDistance > 0 {
		th.MinMoveDistance = cfg.MinMoveDistance
	}
	return th
}

// millisToDuration converts ms, saturating at the largest Duration.
func millisToDuration(ms float64) time.Duration {
	ns := ms * float64(time.Millisecond)
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}

// session is either idle or tracking.
type session interface {
	isSession()
}

type idle struct{}

type tracking struct {
	pointerID     int
	sequence      []gesture.Direction
	anchor        Point
	lastDirection gesture.Direction // empty until the first direction is recorded
	started       time.Time
}

func (idle) isSession()      {}
func (*tracking) isSession() {}

// suppression is the one-shot contextmenu flag.
type suppression struct {
	armed   bool
	expires time.Time // zero means no expiry
}

func (s suppression) expired(now time.Time) bool {
	return !s.expires.IsZero() && now.After(s.expires)
}

// machine is the full tracker state. Its step method is a pure function of
// the current value and the input, returning the next value plus the side
// effects the caller must perform.
type machine struct {
	session  session
	suppress suppression
	// remoteDown is what the broadcaster was last told about the button.
	remoteDown bool
}

func newMachine() machine {
	return machine{session: idle{}}
}

type effectKind uint8

const (
	effectButtonHeld effectKind = iota + 1
	effectButtonReleased
	effectEmit
)

type effect struct {
	kind       effectKind
	completion Completion
}

// Completion describes an emitted gesture.
type Completion struct {
	Sequence []gesture.Direction
	Reason   Reason
	Duration time.Duration
}

func (m machine) step(ev Event, now time.Time, th Thresholds) (machine, []effect, Disposition) {
	switch ev.Kind {
	case KindPointerDown:
		return m.pointerDown(ev, now)
	case KindPointerMove:
		return m.pointerMove(ev, th), nil, Disposition{}
	case KindPointerUp:
		return m.pointerUp(ev, now, th)
	case KindPointerCancel:
		return m.pointerCancel(ev)
	case KindMouseDown:
		return m.mouseDown(ev, now, th)
	case KindContextMenu:
		return m.contextMenu(now)
	}
	return m, nil, Disposition{}
}

func (m machine) pointerDown(ev Event, now time.Time) (machine, []effect, Disposition) {
	if ev.Button != ButtonSecondary {
		return m, nil, Disposition{}
	}
	m.session = &tracking{
		pointerID: ev.PointerID,
		sequence:  []gesture.Direction{},
		anchor:    ev.Position,
		started:   now,
	}
	m.remoteDown = true
	return m, []effect{{kind: effectButtonHeld}}, Disposition{}
}

func (m machine) pointerMove(ev Event, th Thresholds) machine {
	t, ok := m.session.(*tracking)
	if !ok || ev.PointerID != t.pointerID {
		return m
	}

	dx := ev.Position.X - t.anchor.X
	dy := ev.Position.Y - t.anchor.Y
	if math.Max(math.Abs(dx), math.Abs(dy)) < th.MinMoveDistance {
		return m
	}

	next := *t
	if dir, ok := inferDirection(dx, dy); ok && dir != t.lastDirection {
		next.sequence = append(gesture.CloneSequence(t.sequence), dir)
		next.lastDirection = dir
	}
	next.anchor = ev.Position
	m.session = &next
	return m
}

func (m machine) pointerUp(ev Event, now time.Time, th Thresholds) (machine, []effect, Disposition) {
	t, ok := m.session.(*tracking)
	if !ok {
		return m.strayRelease()
	}
	if ev.PointerID != t.pointerID || ev.Button != ButtonSecondary {
		return m, nil, Disposition{}
	}

	m, effects, _ := m.complete(t, ReasonPointerUp, now, th)
	m.remoteDown = false
	return m, append(effects, effect{kind: effectButtonReleased}), Disposition{}
}

func (m machine) pointerCancel(ev Event) (machine, []effect, Disposition) {
	t, ok := m.session.(*tracking)
	if !ok {
		return m.strayRelease()
	}
	if ev.PointerID != t.pointerID {
		return m, nil, Disposition{}
	}
	m.session = idle{}
	m.remoteDown = false
	return m, []effect{{kind: effectButtonReleased}}, Disposition{}
}

// strayRelease resynchronizes the broadcaster when a release arrives for a
// pointer that is no longer tracked.
func (m machine) strayRelease() (machine, []effect, Disposition) {
	if !m.remoteDown {
		return m, nil, Disposition{}
	}
	m.remoteDown = false
	return m, []effect{{kind: effectButtonReleased}}, Disposition{}
}

func (m machine) mouseDown(ev Event, now time.Time, th Thresholds) (machine, []effect, Disposition) {
	t, ok := m.session.(*tracking)
	if !ok || ev.Button != ButtonPrimary {
		return m, nil, Disposition{}
	}

	chord := *t
	chord.sequence = gesture.CloneSequence(t.sequence)
	if !containsDirection(chord.sequence, gesture.DirectionRightButton) {
		chord.sequence = append(chord.sequence, gesture.DirectionRightButton)
	}
	chord.sequence = append(chord.sequence, gesture.DirectionLeftClick)

	m, effects, emitted := m.complete(&chord, ReasonLeftClick, now, th)
	return m, effects, Disposition{PreventDefault: emitted}
}

func (m machine) contextMenu(now time.Time) (machine, []effect, Disposition) {
	if !m.suppress.armed {
		return m, nil, Disposition{}
	}
	expired := m.suppress.expired(now)
	m.suppress = suppression{}
	if expired {
		return m, nil, Disposition{}
	}
	return m, nil, Disposition{PreventDefault: true, StopPropagation: true}
}

// complete runs the shared completion algorithm and always leaves the
// machine idle.
func (m machine) complete(t *tracking, reason Reason, now time.Time, th Thresholds) (machine, []effect, bool) {
	m.session = idle{}
	if len(t.sequence) == 0 {
		return m, nil, false
	}

	duration := now.Sub(t.started)
	if reason == ReasonPointerUp && duration < th.MinDuration {
		return m, nil, false
	}

	m.suppress = suppression{armed: true}
	return m, []effect{{
		kind: effectEmit,
		completion: Completion{
			Sequence: gesture.CloneSequence(t.sequence),
			Reason:   reason,
			Duration: duration,
		},
	}}, true
}

func (m machine) armSuppression(now time.Time, window time.Duration) machine {
	m.suppress = suppression{armed: true}
	if window > 0 {
		m.suppress.expires = now.Add(window)
	}
	return m
}

// inferDirection picks the dominant axis. Horizontal wins only when strictly
// larger; a zero delta on the remaining axis yields nothing.
func inferDirection(dx, dy float64) (gesture.Direction, bool) {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return gesture.DirectionRight, true
		}
		return gesture.DirectionLeft, true
	}
	if math.Abs(dy) > 0 {
		if dy > 0 {
			return gesture.DirectionDown, true
		}
		return gesture.DirectionUp, true
	}
	return "", false
}

func containsDirection(seq []gesture.Direction, dir gesture.Direction) bool {
	for _, d := range seq {
		if d == dir {
			return true
		}
	}
	return false
}
