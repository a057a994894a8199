// internal/input/keymap.go
package input

import (
	"github.com/gdamore/tcell/v2"
)

// Keymap maps specific key events to pad actions.
type Keymap map[tcell.Key]Action        // For special keys (Esc, arrows, etc.)
type RuneKeymap map[rune]Action         // For plain rune bindings
type ModKeymap map[tcell.ModMask]Keymap // For keys combined with modifiers (Ctrl, Alt, Shift)

// InputProcessor translates tcell key events into ActionEvents.
type InputProcessor struct {
	keymap     Keymap
	runeKeymap RuneKeymap
	modKeymap  ModKeymap
}

// NewInputProcessor creates a processor with default keybindings.
func NewInputProcessor() *InputProcessor {
	p := &InputProcessor{
		keymap:     make(Keymap),
		runeKeymap: make(RuneKeymap),
		modKeymap:  make(ModKeymap),
	}
	p.loadDefaultBindings()
	return p
}

// loadDefaultBindings sets up the initial key mappings.
func (p *InputProcessor) loadDefaultBindings() {
	// --- Simple Keys ---
	p.keymap[tcell.KeyUp] = ActionScrollUp
	p.keymap[tcell.KeyDown] = ActionScrollDown
	p.keymap[tcell.KeyPgUp] = ActionScrollUp
	p.keymap[tcell.KeyPgDn] = ActionScrollDown
	p.keymap[tcell.KeyEscape] = ActionCancelGesture
	p.keymap[tcell.KeyF1] = ActionToggleHelp
	p.keymap[tcell.KeyCtrlC] = ActionQuit

	// --- Modifier Keys ---
	ctrlMap := make(Keymap)
	ctrlMap[tcell.KeyCtrlQ] = ActionQuit
	ctrlMap[tcell.KeyCtrlR] = ActionReloadConfig
	p.modKeymap[tcell.ModCtrl] = ctrlMap

	// --- Rune Mappings ---
	p.runeKeymap['q'] = ActionQuit
	p.runeKeymap['?'] = ActionToggleHelp
	p.runeKeymap['t'] = ActionCycleTheme
	p.runeKeymap['e'] = ActionExportConfig
	p.runeKeymap['i'] = ActionImportConfig
	p.runeKeymap['d'] = ActionRestoreDefaults
	p.runeKeymap['r'] = ActionReloadConfig
	p.runeKeymap['u'] = ActionUndoConfig
	p.runeKeymap['U'] = ActionRedoConfig
	p.runeKeymap['k'] = ActionScrollUp
	p.runeKeymap['j'] = ActionScrollDown
	for r := '1'; r <= '9'; r++ {
		p.runeKeymap[r] = ActionVisit
	}
}

// Bind maps r to action, replacing any existing binding.
func (p *InputProcessor) Bind(r rune, action Action) {
	p.runeKeymap[r] = action
}

// ProcessEvent takes a tcell key event and returns the corresponding ActionEvent.
func (p *InputProcessor) ProcessEvent(ev *tcell.EventKey) ActionEvent {
	key := ev.Key()
	mod := ev.Modifiers()
	runeVal := ev.Rune()

	// 1. Check Modifier + Key combinations
	if modKeyMap, modOk := p.modKeymap[mod]; modOk {
		if action, keyOk := modKeyMap[key]; keyOk {
			return ActionEvent{Action: action}
		}
	}
	// Ctrl+letter keys already carry the modifier in the key itself
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		mod &^= tcell.ModCtrl
	}

	// 2. Check simple Key mappings
	if mod == tcell.ModNone || mod == tcell.ModShift {
		if action, ok := p.keymap[key]; ok {
			return ActionEvent{Action: action}
		}
	}

	// 3. Check Rune mappings
	if key == tcell.KeyRune && (mod == tcell.ModNone || mod == tcell.ModShift) {
		if action, ok := p.runeKeymap[runeVal]; ok {
			return ActionEvent{Action: action, Rune: runeVal}
		}
	}

	// 4. No mapping found
	return ActionEvent{Action: ActionUnknown}
}
