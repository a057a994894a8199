package tracker

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/mgesture/internal/gesture"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type recordingBroadcaster struct {
	mu     sync.Mutex
	states []bool
}

func (r *recordingBroadcaster) BroadcastButtonState(down bool, _ time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, down)
}

func (r *recordingBroadcaster) States() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.states...)
}

type panickingBroadcaster struct{}

func (panickingBroadcaster) BroadcastButtonState(bool, time.Time) {
	panic("transport closed")
}

type harness struct {
	tracker     *Tracker
	clock       *fakeClock
	broadcaster *recordingBroadcaster
	completed   []Completion
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		clock:       &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		broadcaster: &recordingBroadcaster{},
	}
	base := []Option{WithClock(h.clock.Now), WithBroadcaster(h.broadcaster)}
	h.tracker = New(func(c Completion) { h.completed = append(h.completed, c) }, append(base, opts...)...)
	return h
}

func (h *harness) down(x, y float64) Disposition {
	return h.tracker.Handle(Event{Kind: KindPointerDown, PointerID: 1, Button: ButtonSecondary, Position: Point{x, y}})
}

func (h *harness) move(x, y float64) Disposition {
	return h.tracker.Handle(Event{Kind: KindPointerMove, PointerID: 1, Button: ButtonNone, Position: Point{x, y}})
}

func (h *harness) up(x, y float64) Disposition {
	return h.tracker.Handle(Event{Kind: KindPointerUp, PointerID: 1, Button: ButtonSecondary, Position: Point{x, y}})
}

func (h *harness) contextMenu() Disposition {
	return h.tracker.Handle(Event{Kind: KindContextMenu, Button: ButtonSecondary})
}

func dirs(d ...gesture.Direction) []gesture.Direction { return d }

func TestInferDirection(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   gesture.Direction
		wantOK bool
	}{
		{12, 3, gesture.DirectionRight, true},
		{-12, 3, gesture.DirectionLeft, true},
		{-3, 12, gesture.DirectionDown, true},
		{3, -12, gesture.DirectionUp, true},
		{10, 10, gesture.DirectionDown, true},
		{10, -10, gesture.DirectionUp, true},
		{0, 0, "", false},
	}
	for _, tt := range tests {
		got, ok := inferDirection(tt.dx, tt.dy)
		assert.Equal(t, tt.wantOK, ok, "dx=%v dy=%v", tt.dx, tt.dy)
		assert.Equal(t, tt.want, got, "dx=%v dy=%v", tt.dx, tt.dy)
	}
}

func TestScrollUpEndToEnd(t *testing.T) {
	h := newHarness(t)

	h.down(100, 500)
	assert.True(t, h.tracker.Tracking())
	h.clock.Advance(150 * time.Millisecond)
	h.move(100, 400)
	disp := h.up(100, 400)

	require.Len(t, h.completed, 1)
	assert.Equal(t, dirs(gesture.DirectionUp), h.completed[0].Sequence)
	assert.Equal(t, ReasonPointerUp, h.completed[0].Reason)
	assert.Equal(t, 150*time.Millisecond, h.completed[0].Duration)
	assert.Equal(t, Disposition{}, disp)
	assert.False(t, h.tracker.Tracking())
	assert.Equal(t, []bool{true, false}, h.broadcaster.States())

	assert.Equal(t, Disposition{PreventDefault: true, StopPropagation: true}, h.contextMenu())
	assert.Equal(t, Disposition{}, h.contextMenu(), "suppression is one-shot")
}

func TestMovementBelowThresholdAccumulates(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)

	h.move(5, 0)
	assert.Empty(t, h.tracker.Sequence())
	h.move(12, 3)
	assert.Equal(t, dirs(gesture.DirectionRight), h.tracker.Sequence())
}

func TestConsecutiveRepeatsCollapse(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)

	h.move(15, 0)
	h.move(30, 0)
	h.move(45, 2)
	h.move(45, 20)
	h.move(60, 20)

	assert.Equal(t, dirs(gesture.DirectionRight, gesture.DirectionDown, gesture.DirectionRight), h.tracker.Sequence())
}

func TestDurationGate(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		emitted bool
	}{
		{"too fast", 80 * time.Millisecond, false},
		{"slow enough", 120 * time.Millisecond, true},
		{"exactly the delay", 100 * time.Millisecond, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.down(0, 0)
			h.move(20, 0)
			h.clock.Advance(tt.elapsed)
			h.up(20, 0)

			assert.Equal(t, tt.emitted, len(h.completed) == 1)
			assert.Equal(t, tt.emitted, h.tracker.SuppressionArmed())
			assert.False(t, h.tracker.Tracking())
		})
	}
}

func TestLeftClickBypassesDurationGate(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)
	h.move(20, 0)
	h.clock.Advance(10 * time.Millisecond)

	disp := h.tracker.Handle(Event{Kind: KindMouseDown, PointerID: 1, Button: ButtonPrimary, Position: Point{20, 0}})

	require.Len(t, h.completed, 1)
	assert.Equal(t,
		dirs(gesture.DirectionRight, gesture.DirectionRightButton, gesture.DirectionLeftClick),
		h.completed[0].Sequence)
	assert.Equal(t, ReasonLeftClick, h.completed[0].Reason)
	assert.True(t, disp.PreventDefault)
	assert.False(t, h.tracker.Tracking())
}

func TestLeftClickWithoutMovement(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)

	disp := h.tracker.Handle(Event{Kind: KindMouseDown, PointerID: 1, Button: ButtonPrimary})

	require.Len(t, h.completed, 1)
	assert.Equal(t, dirs(gesture.DirectionRightButton, gesture.DirectionLeftClick), h.completed[0].Sequence)
	assert.True(t, disp.PreventDefault)
}

func TestMouseDownIgnoredWhenIdleOrNotPrimary(t *testing.T) {
	h := newHarness(t)

	disp := h.tracker.Handle(Event{Kind: KindMouseDown, Button: ButtonPrimary})
	assert.Equal(t, Disposition{}, disp)

	h.down(0, 0)
	disp = h.tracker.Handle(Event{Kind: KindMouseDown, Button: ButtonAuxiliary})
	assert.Equal(t, Disposition{}, disp)
	assert.True(t, h.tracker.Tracking())
	assert.Empty(t, h.completed)
}

func TestEmptySequenceDoesNotArmSuppression(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)
	h.clock.Advance(500 * time.Millisecond)
	h.up(0, 0)

	assert.Empty(t, h.completed)
	assert.False(t, h.tracker.SuppressionArmed())
	assert.Equal(t, Disposition{}, h.contextMenu())
	assert.Equal(t, []bool{true, false}, h.broadcaster.States())
}

func TestPrimaryPressDoesNotStartGesture(t *testing.T) {
	h := newHarness(t)
	h.tracker.Handle(Event{Kind: KindPointerDown, PointerID: 1, Button: ButtonPrimary})

	assert.False(t, h.tracker.Tracking())
	assert.Empty(t, h.broadcaster.States())
}

func TestPointerIdentityIsEnforced(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)

	h.tracker.Handle(Event{Kind: KindPointerMove, PointerID: 2, Position: Point{50, 0}})
	assert.Empty(t, h.tracker.Sequence())

	h.clock.Advance(time.Second)
	h.tracker.Handle(Event{Kind: KindPointerUp, PointerID: 2, Button: ButtonSecondary})
	assert.True(t, h.tracker.Tracking())

	h.tracker.Handle(Event{Kind: KindPointerUp, PointerID: 1, Button: ButtonPrimary})
	assert.True(t, h.tracker.Tracking(), "only a secondary release completes")

	h.tracker.Handle(Event{Kind: KindPointerCancel, PointerID: 2})
	assert.True(t, h.tracker.Tracking())
}

func TestPointerDownRestartsTracking(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)
	h.move(30, 0)
	h.down(100, 100)

	assert.Empty(t, h.tracker.Sequence())
	h.move(100, 130)
	assert.Equal(t, dirs(gesture.DirectionDown), h.tracker.Sequence())
}

func TestCancelDiscards(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)
	h.move(30, 0)
	h.clock.Advance(time.Second)

	h.tracker.Handle(Event{Kind: KindPointerCancel, PointerID: 1})

	assert.False(t, h.tracker.Tracking())
	assert.Empty(t, h.completed)
	assert.False(t, h.tracker.SuppressionArmed())
	assert.Equal(t, []bool{true, false}, h.broadcaster.States())
}

func TestStrayReleaseResynchronizes(t *testing.T) {
	h := newHarness(t)

	h.up(0, 0)
	assert.Empty(t, h.broadcaster.States(), "nothing to resync")

	h.tracker.SetRemoteButtonState(true)
	h.up(0, 0)
	assert.Equal(t, []bool{false}, h.broadcaster.States())

	h.up(0, 0)
	assert.Equal(t, []bool{false}, h.broadcaster.States(), "released only once")

	h.tracker.SetRemoteButtonState(true)
	h.tracker.Handle(Event{Kind: KindPointerCancel, PointerID: 7})
	assert.Equal(t, []bool{false, false}, h.broadcaster.States())
}

func TestArmedSuppressionExpires(t *testing.T) {
	h := newHarness(t)

	h.tracker.ArmSuppression(500 * time.Millisecond)
	assert.True(t, h.tracker.SuppressionArmed())
	h.clock.Advance(600 * time.Millisecond)

	assert.Equal(t, Disposition{}, h.contextMenu())
	assert.False(t, h.tracker.SuppressionArmed(), "expired flag is cleared")
}

func TestArmedSuppressionWithinWindow(t *testing.T) {
	h := newHarness(t)

	h.tracker.ArmSuppression(500 * time.Millisecond)
	h.clock.Advance(200 * time.Millisecond)

	assert.Equal(t, Disposition{PreventDefault: true, StopPropagation: true}, h.contextMenu())
	assert.False(t, h.tracker.SuppressionArmed())
}

func TestUpdateConfigChangesThresholds(t *testing.T) {
	h := newHarness(t)
	h.tracker.UpdateConfig(gesture.Config{DefaultDelay: 0, MinMoveDistance: 50, Gestures: []gesture.Definition{}})

	assert.Equal(t, Thresholds{MinDuration: 0, MinMoveDistance: 50}, h.tracker.Thresholds())

	h.down(0, 0)
	h.move(40, 0)
	assert.Empty(t, h.tracker.Sequence())
	h.move(60, 0)
	assert.Equal(t, dirs(gesture.DirectionRight), h.tracker.Sequence())
	h.up(60, 0)
	assert.Len(t, h.completed, 1)
}

func TestThresholdsFromAbsentScalars(t *testing.T) {
	cfg := gesture.Config{DefaultDelay: gesture.Absent, MinMoveDistance: gesture.Absent}
	assert.Equal(t, DefaultThresholds, ThresholdsFrom(cfg))
}

func TestHugeDelaySaturates(t *testing.T) {
	h := newHarness(t)
	h.tracker.UpdateConfig(gesture.Config{DefaultDelay: 1e13, MinMoveDistance: 10})
	assert.Equal(t, time.Duration(math.MaxInt64), h.tracker.Thresholds().MinDuration)

	h.down(0, 0)
	h.move(20, 0)
	h.clock.Advance(10 * time.Millisecond)
	h.up(20, 0)
	assert.Empty(t, h.completed, "an unreachable delay blocks every release")
}

func TestBroadcasterPanicDoesNotAffectState(t *testing.T) {
	var completed []Completion
	clock := &fakeClock{now: time.Unix(0, 0)}
	tr := New(func(c Completion) { completed = append(completed, c) },
		WithClock(clock.Now), WithBroadcaster(panickingBroadcaster{}))

	assert.NotPanics(t, func() {
		tr.Handle(Event{Kind: KindPointerDown, PointerID: 1, Button: ButtonSecondary})
		tr.Handle(Event{Kind: KindPointerMove, PointerID: 1, Position: Point{0, -40}})
		clock.Advance(200 * time.Millisecond)
		tr.Handle(Event{Kind: KindPointerUp, PointerID: 1, Button: ButtonSecondary})
	})
	require.Len(t, completed, 1)
	assert.Equal(t, dirs(gesture.DirectionUp), completed[0].Sequence)
}

func TestEmittedSequenceIsACopy(t *testing.T) {
	h := newHarness(t)
	h.down(0, 0)
	h.move(0, 20)
	h.clock.Advance(200 * time.Millisecond)
	h.up(0, 20)

	require.Len(t, h.completed, 1)
	h.completed[0].Sequence[0] = gesture.DirectionLeft

	h.down(0, 0)
	h.move(0, 20)
	assert.Equal(t, dirs(gesture.DirectionDown), h.tracker.Sequence())
}
