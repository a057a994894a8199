// internal/tracker/event.go
package tracker

import "fmt"

// Kind identifies the host input event being fed to the tracker.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindPointerDown
	KindPointerMove
	KindPointerUp
	KindPointerCancel
	// KindMouseDown is the legacy mouse press, which the host still reports
	// for a chorded press while another button is held.
	KindMouseDown
	KindContextMenu
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPointerDown:
		return "pointerdown"
	case KindPointerMove:
		return "pointermove"
	case KindPointerUp:
		return "pointerup"
	case KindPointerCancel:
		return "pointercancel"
	case KindMouseDown:
		return "mousedown"
	case KindContextMenu:
		return "contextmenu"
	default:
		return "unknown"
	}
}

// Button is a host button code.
type Button int8

const (
	// ButtonNone is reported by moves that change no button.
	ButtonNone Button = -1
	// ButtonPrimary is the left button.
	ButtonPrimary Button = 0
	// ButtonAuxiliary is the middle button.
	ButtonAuxiliary Button = 1
	// ButtonSecondary is the right button; pressing it starts a gesture.
	ButtonSecondary Button = 2
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonAuxiliary:
		return "auxiliary"
	case ButtonSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Point is a client coordinate.
type Point struct {
	X float64
	Y float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

// Event is one raw input event.
type Event struct {
	Kind      Kind
	PointerID int
	Button    Button
	Position  Point
}

// Disposition tells the host what to do with the event after the tracker saw it.
type Disposition struct {
	// PreventDefault cancels the host's default handling.
	PreventDefault bool
	// StopPropagation keeps other handlers from seeing the event.
	StopPropagation bool
}
