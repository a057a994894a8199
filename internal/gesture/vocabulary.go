// internal/gesture/vocabulary.go

// Package gesture holds the gesture vocabulary and the configuration model:
// parsing, normalization, validation and key-based layering of gesture tables.
package gesture

import "strings"

// Direction is one token of a recorded gesture sequence.
type Direction string

// Spatial directions and event markers.
const (
	DirectionUp    Direction = "UP"
	DirectionDown  Direction = "DOWN"
	DirectionLeft  Direction = "LEFT"
	DirectionRight Direction = "RIGHT"

	// DirectionRightButton marks that the held right button is part of the chord.
	DirectionRightButton Direction = "RIGHT_BUTTON"
	// DirectionLeftClick marks a left click made while the gesture was held.
	DirectionLeftClick Direction = "LEFT_CLICK"
)

var validDirections = []Direction{
	DirectionUp,
	DirectionDown,
	DirectionLeft,
	DirectionRight,
	DirectionRightButton,
	DirectionLeftClick,
}

// Directions returns the closed set of recognised direction tokens.
func Directions() []Direction {
	out := make([]Direction, len(validDirections))
	copy(out, validDirections)
	return out
}

// Valid reports whether d is a recognised token.
func (d Direction) Valid() bool {
	for _, v := range validDirections {
		if d == v {
			return true
		}
	}
	return false
}

// IsMarker reports whether d is an event marker rather than a movement.
func (d Direction) IsMarker() bool {
	return d == DirectionRightButton || d == DirectionLeftClick
}

// NormalizeDirection maps a raw token to a Direction by trimming and
// uppercasing it. The result may still fail Valid.
func NormalizeDirection(raw string) Direction {
	return Direction(strings.ToUpper(strings.TrimSpace(raw)))
}

// Action identifies the effect bound to a gesture.
type Action string

const (
	ActionNavigateBack    Action = "NAVIGATE_BACK"
	ActionNavigateForward Action = "NAVIGATE_FORWARD"
	ActionScrollTop       Action = "SCROLL_TOP"
	ActionScrollBottom    Action = "SCROLL_BOTTOM"
	ActionReload          Action = "RELOAD"
	ActionCloseTab        Action = "CLOSE_TAB"
	ActionReopenClosedTab Action = "REOPEN_CLOSED_TAB"
	ActionSwitchTabLeft   Action = "SWITCH_TAB_LEFT"
	ActionSwitchTabRight  Action = "SWITCH_TAB_RIGHT"
	ActionOpenOptionsPage Action = "OPEN_OPTIONS_PAGE"
	ActionOpenURL         Action = "OPEN_URL"
)

var validActions = []Action{
	ActionNavigateBack,
	ActionNavigateForward,
	ActionScrollTop,
	ActionScrollBottom,
	ActionReload,
	ActionCloseTab,
	ActionReopenClosedTab,
	ActionSwitchTabLeft,
	ActionSwitchTabRight,
	ActionOpenOptionsPage,
	ActionOpenURL,
}

// Actions returns the closed set of recognised actions.
func Actions() []Action {
	out := make([]Action, len(validActions))
	copy(out, validActions)
	return out
}

// Valid reports whether a is a recognised action.
func (a Action) Valid() bool {
	for _, v := range validActions {
		if a == v {
			return true
		}
	}
	return false
}

// IsDOM reports whether the action runs against the page itself rather than
// needing the privileged background executor.
func (a Action) IsDOM() bool {
	switch a {
	case ActionNavigateBack, ActionNavigateForward, ActionScrollTop, ActionScrollBottom, ActionReload:
		return true
	}
	return false
}

// ChangesTab reports whether executing a moves focus away from the current tab.
func (a Action) ChangesTab() bool {
	switch a {
	case ActionCloseTab, ActionReopenClosedTab, ActionSwitchTabLeft, ActionSwitchTabRight, ActionOpenURL, ActionOpenOptionsPage:
		return true
	}
	return false
}

// NormalizeAction trims and uppercases a raw action token.
func NormalizeAction(raw string) Action {
	return Action(strings.ToUpper(strings.TrimSpace(raw)))
}
