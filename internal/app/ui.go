package app

import (
	"time"

	"github.com/bethropolis/mgesture/internal/config"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/tui"
)

var helpLines = []string{
	"Hold the right button and drag to draw a gesture.",
	"Click the left button while holding right for L.",
	"",
	"← back        → forward      ↑ top        ↓ bottom",
	"↑ ↓ reload    ↓ → close tab  → ← reopen   ↓ ↑ options",
	"↑ ← prev tab  ↑ → next tab   R L reopen",
	"",
	"e export   i import   d defaults   r reload   u/U undo/redo",
	"j/k scroll   1-9 follow link   t theme",
	"Esc cancel   ? help   q quit",
}

// contextMenuItems stand in for the host's own menu, shown when a right-button
// release is not part of a gesture.
var contextMenuItems = []string{"Back", "Forward", "Reload", "View page source"}

// draw clears the screen and redraws all components.
func (a *App) draw() {
	activeTheme := a.themeManager.Current()
	width, height := a.tuiManager.Size()
	top, bottom := tui.PageArea(height, a.cfg.UI.StatusBarHeight)

	logger.DebugTagf("draw", "draw: screen %dx%d page rows %d-%d", width, height, top, bottom)

	a.mu.Lock()
	trail := append([]tui.Cell(nil), a.trail...)
	ov := a.overlay
	menu := a.menu
	showHelp := a.showHelp
	a.mu.Unlock()

	a.tuiManager.Clear()
	tabs, active := a.browser.Tabs()
	tui.DrawTabs(a.tuiManager, tabs, active, activeTheme)
	tab, ok := a.browser.Active()
	tui.DrawPage(a.tuiManager, tab, ok, a.browser.PageLength(), top, bottom, activeTheme)
	tui.DrawTrail(a.tuiManager, trail, top, bottom, activeTheme)
	if ov.text != "" && time.Since(ov.at) <= config.MessageTimeout {
		tui.DrawOverlay(a.tuiManager, top, ov.text, ov.style, activeTheme)
	}
	if menu != nil {
		tui.DrawContextMenu(a.tuiManager, *menu, contextMenuItems, top, bottom, activeTheme)
	}
	if showHelp {
		tui.DrawHelp(a.tuiManager, helpLines, top, bottom, activeTheme)
	}
	a.statusBar.Draw(a.tuiManager.GetScreen(), width, height, activeTheme)
	a.tuiManager.Show()
}
