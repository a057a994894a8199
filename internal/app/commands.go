package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/mgesture/internal/clipboard"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/history"
	"github.com/bethropolis/mgesture/internal/input"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/gdamore/tcell/v2"
)

const scrollStep = 5

// handleKey runs the command bound to ev and reports whether the screen needs
// a redraw.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	actionEvent := a.inputProcessor.ProcessEvent(ev)
	logger.DebugTagf("input", "Key %s -> %s", ev.Name(), actionEvent.Action)

	switch actionEvent.Action {
	case input.ActionQuit:
		a.requestQuit()
		return false
	case input.ActionToggleHelp:
		a.mu.Lock()
		a.showHelp = !a.showHelp
		a.mu.Unlock()
	case input.ActionCycleTheme:
		next := a.themeManager.Next()
		a.tuiManager.SetStyle(next.GetStyle(theme.StyleDefault))
		a.statusBar.SetTemporaryMessage("Theme: %s", next.Name)
	case input.ActionExportConfig:
		a.exportConfig()
	case input.ActionImportConfig:
		a.importConfig()
	case input.ActionRestoreDefaults:
		a.restoreDefaults()
	case input.ActionReloadConfig:
		a.reloadFromStorage()
	case input.ActionUndoConfig:
		a.undoConfig()
	case input.ActionRedoConfig:
		a.redoConfig()
	case input.ActionCancelGesture:
		a.cancelGesture()
	case input.ActionScrollUp:
		a.scroll(-scrollStep)
	case input.ActionScrollDown:
		a.scroll(scrollStep)
	case input.ActionVisit:
		a.visit(actionEvent.Rune)
	default:
		return false
	}
	return true
}

// exportConfig copies the gesture table in force to the clipboard as JSON.
func (a *App) exportConfig() {
	data, err := a.loader.Export()
	if err != nil {
		a.statusBar.SetErrorMessage("Export failed: %v", err)
		return
	}
	if err := a.clipboard.Write(string(data)); err != nil {
		a.statusBar.SetErrorMessage("Export failed: %v", err)
		return
	}
	cfg, _ := a.loader.Current()
	target := "clipboard"
	if !a.clipboard.UsesSystem() {
		target = "internal clipboard"
	}
	a.statusBar.SetTemporaryMessage("Exported %d gesture(s) to the %s", len(cfg.Gestures), target)
}

// importConfig stores the JSON document on the clipboard as the override.
func (a *App) importConfig() {
	text, err := a.clipboard.Read()
	if errors.Is(err, clipboard.ErrEmpty) || (err == nil && strings.TrimSpace(text) == "") {
		a.statusBar.SetErrorMessage("Import failed: clipboard is empty")
		return
	}
	if err != nil {
		a.statusBar.SetErrorMessage("Import failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	before, err := a.storedOverride(ctx)
	if err != nil {
		a.statusBar.SetErrorMessage("Import failed: %v", err)
		return
	}
	cfg, err := a.loader.Import(ctx, []byte(text))
	if err != nil {
		logger.Warnf("Import rejected: %v", err)
		a.statusBar.SetErrorMessage("Import failed: %v", err)
		return
	}
	a.history.RecordChange(history.Change{Label: "import", Before: before, After: cfg})
	a.statusBar.SetTemporaryMessage("Imported %d gesture(s)", len(cfg.Gestures))
}

func (a *App) restoreDefaults() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	before, err := a.storedOverride(ctx)
	if err != nil {
		a.statusBar.SetErrorMessage("Restore failed: %v", err)
		return
	}
	cfg, err := a.loader.Restore(ctx)
	if err != nil {
		a.statusBar.SetErrorMessage("Restore failed: %v", err)
		return
	}
	a.history.RecordChange(history.Change{Label: "restore", Before: before, After: cfg})
	a.statusBar.SetTemporaryMessage("Restored %d default gesture(s)", len(cfg.Gestures))
}

// storedOverride returns the override currently in storage, or nil when the
// defaults are used as they are.
func (a *App) storedOverride(ctx context.Context) (*gesture.Config, error) {
	cfg, ok, err := a.loader.Stored(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return &cfg, nil
}

func (a *App) undoConfig() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	change, ok, err := a.history.Undo(ctx)
	switch {
	case err != nil:
		a.statusBar.SetErrorMessage("%v", err)
	case !ok:
		a.statusBar.SetTemporaryMessage("Nothing to undo")
	default:
		a.statusBar.SetTemporaryMessage("Undid %s", change.Label)
	}
}

func (a *App) redoConfig() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()
	change, ok, err := a.history.Redo(ctx)
	switch {
	case err != nil:
		a.statusBar.SetErrorMessage("%v", err)
	case !ok:
		a.statusBar.SetTemporaryMessage("Nothing to redo")
	default:
		a.statusBar.SetTemporaryMessage("Redid %s", change.Label)
	}
}

// cancelGesture drops a gesture in progress, or closes whatever is open over
// the page.
func (a *App) cancelGesture() {
	if events := a.mouse.Cancel(); len(events) > 0 {
		a.feedTracker(events)
		a.statusBar.SetTemporaryMessage("Gesture cancelled")
		return
	}
	a.mu.Lock()
	a.menu = nil
	a.showHelp = false
	a.mu.Unlock()
}

func (a *App) scroll(delta int) {
	tab, ok := a.browser.Active()
	if !ok {
		return
	}
	a.browser.ScrollTo(tab.Scroll + delta)
}

// visit follows link r of the active page.
func (a *App) visit(r rune) {
	tab, ok := a.browser.Active()
	if !ok {
		return
	}
	url := fmt.Sprintf("%s/link-%c", strings.TrimRight(tab.URL, "/"), r)
	a.browser.Visit(url)
	a.statusBar.SetTemporaryMessage("Visited %s", url)
}
