// internal/event/events.go
package event

import (
	"time"

	"github.com/bethropolis/mgesture/internal/gesture"
)

// Type identifies the kind of message.
type Type int

const (
	TypeUnknown Type = iota

	// Configuration
	TypeConfigUpdated // A new configuration was saved or loaded elsewhere

	// Gestures
	TypeGestureTriggered    // A gesture completed, matched or not
	TypeGestureAction       // A matched action for the background executor
	TypeSuppressContextMenu // Arm contextmenu suppression in every instance

	// Right-button state shared between instances
	TypeButtonStateUpdate  // An instance saw the button change
	TypeButtonStateRequest // An instance asks for the last known state
	TypeButtonStateCurrent // Answer to TypeButtonStateRequest

	// Application lifecycle
	TypeAppReady
	TypeAppQuit
)

// String returns the wire name of the message type.
func (t Type) String() string {
	switch t {
	case TypeConfigUpdated:
		return "config/updated"
	case TypeGestureTriggered:
		return "gesture/triggered"
	case TypeGestureAction:
		return "gesture/action"
	case TypeSuppressContextMenu:
		return "gesture/suppress-contextmenu"
	case TypeButtonStateUpdate:
		return "rmb/state-update"
	case TypeButtonStateRequest:
		return "rmb/state-request"
	case TypeButtonStateCurrent:
		return "rmb/state-current"
	case TypeAppReady:
		return "app/ready"
	case TypeAppQuit:
		return "app/quit"
	default:
		return "unknown"
	}
}

// Event is the structure passed through the bus.
type Event struct {
	Type Type
	Data interface{}
}

// ConfigUpdatedData carries the configuration a peer saved. Cleared is set
// when the peer removed its override instead; Config is then empty.
type ConfigUpdatedData struct {
	Config  gesture.Config
	Cleared bool
}

// GestureTriggeredData is gesture telemetry. Action is empty when nothing
// matched.
type GestureTriggeredData struct {
	Sequence []gesture.Direction
	Action   gesture.Action
	At       time.Time
}

// GestureActionData asks the background executor to run an action.
type GestureActionData struct {
	Definition gesture.Definition
}

// SuppressContextMenuData arms contextmenu suppression for Window.
type SuppressContextMenuData struct {
	Window time.Duration
}

// ButtonStateData is the right-button state at a point in time.
type ButtonStateData struct {
	Down bool
	At   time.Time
}

// AppQuitData could contain exit code or reason later.
type AppQuitData struct{}

// AppReadyData could contain initial config or state later.
type AppReadyData struct{}
