// internal/input/mouse.go
package input

import (
	"github.com/bethropolis/mgesture/internal/tracker"
	"github.com/gdamore/tcell/v2"
)

// Terminal mice report cell coordinates; gestures are measured in pixels.
const (
	DefaultCellWidth  = 8
	DefaultCellHeight = 16
)

// PointerID is the id given to the terminal's only pointer.
const PointerID = 1

const trackedButtons = tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle

// MouseTranslator turns tcell mouse events, which only report the current
// button mask, into the pointer events a browser would deliver.
//
// For one tcell event the translation is: presses, then a move when the
// position changed, then releases. A right release is followed by a
// contextmenu event. A left press while the right button is held is reported
// as a chorded mousedown only, with no pointerdown.
type MouseTranslator struct {
	cellWidth  int
	cellHeight int
	buttons    tcell.ButtonMask
	last       tracker.Point
	seen       bool
}

// NewMouseTranslator creates a translator for the given cell size in pixels.
// Non-positive sizes fall back to the defaults.
func NewMouseTranslator(cellWidth, cellHeight int) *MouseTranslator {
	if cellWidth <= 0 {
		cellWidth = DefaultCellWidth
	}
	if cellHeight <= 0 {
		cellHeight = DefaultCellHeight
	}
	return &MouseTranslator{cellWidth: cellWidth, cellHeight: cellHeight}
}

// ToPixels converts a cell position to the pixel at the cell's origin.
func (m *MouseTranslator) ToPixels(col, row int) tracker.Point {
	return tracker.Point{X: float64(col * m.cellWidth), Y: float64(row * m.cellHeight)}
}

// ToCell converts a pixel position back to the cell containing it.
func (m *MouseTranslator) ToCell(p tracker.Point) (col, row int) {
	return int(p.X) / m.cellWidth, int(p.Y) / m.cellHeight
}

// Held reports whether the right button is currently down.
func (m *MouseTranslator) Held() bool {
	return m.buttons&tcell.ButtonSecondary != 0
}

// Translate converts ev into zero or more pointer events.
func (m *MouseTranslator) Translate(ev *tcell.EventMouse) []tracker.Event {
	col, row := ev.Position()
	pos := m.ToPixels(col, row)
	now := ev.Buttons() & trackedButtons
	pressed := now &^ m.buttons
	released := m.buttons &^ now
	moved := !m.seen || pos != m.last

	var out []tracker.Event
	emit := func(kind tracker.Kind, button tracker.Button) {
		out = append(out, tracker.Event{Kind: kind, PointerID: PointerID, Button: button, Position: pos})
	}

	if pressed&tcell.ButtonSecondary != 0 {
		emit(tracker.KindPointerDown, tracker.ButtonSecondary)
	}
	if pressed&tcell.ButtonPrimary != 0 {
		if now&tcell.ButtonSecondary != 0 {
			emit(tracker.KindMouseDown, tracker.ButtonPrimary)
		} else {
			emit(tracker.KindPointerDown, tracker.ButtonPrimary)
			emit(tracker.KindMouseDown, tracker.ButtonPrimary)
		}
	}
	if pressed&tcell.ButtonMiddle != 0 && m.buttons == 0 {
		emit(tracker.KindPointerDown, tracker.ButtonAuxiliary)
	}

	if moved && m.seen {
		emit(tracker.KindPointerMove, tracker.ButtonNone)
	}

	if released&tcell.ButtonSecondary != 0 {
		emit(tracker.KindPointerUp, tracker.ButtonSecondary)
		emit(tracker.KindContextMenu, tracker.ButtonSecondary)
	}
	if released&tcell.ButtonPrimary != 0 && now == 0 && released&tcell.ButtonSecondary == 0 {
		emit(tracker.KindPointerUp, tracker.ButtonPrimary)
	}
	if released&tcell.ButtonMiddle != 0 && now == 0 && released&(tcell.ButtonSecondary|tcell.ButtonPrimary) == 0 {
		emit(tracker.KindPointerUp, tracker.ButtonAuxiliary)
	}

	m.buttons = now
	m.last = pos
	m.seen = true
	return out
}

// Cancel forgets the held buttons. When the right button was down it returns
// the pointercancel the tracker needs to drop its session.
func (m *MouseTranslator) Cancel() []tracker.Event {
	held := m.Held()
	m.buttons = 0
	if !held {
		return nil
	}
	return []tracker.Event{{Kind: tracker.KindPointerCancel, PointerID: PointerID, Button: tracker.ButtonSecondary, Position: m.last}}
}
