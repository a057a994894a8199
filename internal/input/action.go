// internal/input/action.go
package input

// Action represents a command the gesture pad can perform from the keyboard.
type Action int

// Define the set of possible pad actions.
const (
	// --- Meta Actions ---
	ActionUnknown Action = iota // Default/invalid action
	ActionQuit
	ActionToggleHelp
	ActionCycleTheme

	// --- Gesture configuration ---
	ActionExportConfig    // Copy the current gesture table to the clipboard
	ActionImportConfig    // Replace the override with the clipboard contents
	ActionRestoreDefaults // Save the bundled defaults as the override
	ActionReloadConfig    // Re-read storage
	ActionUndoConfig      // Store the configuration from before the last change
	ActionRedoConfig

	// --- Tracking ---
	ActionCancelGesture // Drop the gesture in progress

	// --- Page ---
	ActionScrollUp
	ActionScrollDown
	ActionVisit // Follow a link in the active tab; Rune carries the link digit
)

// String returns a short name for the action, used in the help line.
func (a Action) String() string {
	switch a {
	case ActionQuit:
		return "quit"
	case ActionToggleHelp:
		return "help"
	case ActionCycleTheme:
		return "theme"
	case ActionExportConfig:
		return "export"
	case ActionImportConfig:
		return "import"
	case ActionRestoreDefaults:
		return "defaults"
	case ActionReloadConfig:
		return "reload"
	case ActionUndoConfig:
		return "undo"
	case ActionRedoConfig:
		return "redo"
	case ActionCancelGesture:
		return "cancel"
	case ActionScrollUp:
		return "scroll-up"
	case ActionScrollDown:
		return "scroll-down"
	case ActionVisit:
		return "visit"
	default:
		return "unknown"
	}
}

// ActionEvent represents a decoded input event resulting in an action.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionVisit
}
