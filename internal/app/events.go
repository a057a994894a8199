package app

import (
	"fmt"
	"time"

	"github.com/bethropolis/mgesture/internal/configstate"
	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/interpreter"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/bethropolis/mgesture/internal/tracker"
	"github.com/bethropolis/mgesture/internal/tui"
	"github.com/gdamore/tcell/v2"
)

// eventLoop feeds terminal events to the tracker and the key commands.
func (a *App) eventLoop() {
	for {
		ev := a.tuiManager.PollEvent()
		if ev == nil {
			return
		}
		if a.handleEvent(ev) {
			a.requestRedraw()
		}
	}
}

// handleEvent processes one terminal event and reports whether the screen
// needs a redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch eventData := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.GetScreen().Sync()
		return true
	case *tcell.EventFocus:
		if !eventData.Focused {
			logger.DebugTagf("input", "Focus lost, cancelling any gesture")
			return a.feedTracker(a.mouse.Cancel())
		}
		return false
	case *tcell.EventMouse:
		return a.feedTracker(a.mouse.Translate(eventData))
	case *tcell.EventKey:
		return a.handleKey(eventData)
	}
	return false
}

// feedTracker hands translated pointer events to the tracker and applies the
// host default for any context menu the tracker did not swallow.
func (a *App) feedTracker(events []tracker.Event) bool {
	if len(events) == 0 {
		return false
	}
	for _, ev := range events {
		disp := a.tracker.Handle(ev)
		switch ev.Kind {
		case tracker.KindPointerDown:
			a.setMenu(nil)
		case tracker.KindContextMenu:
			if disp.PreventDefault {
				logger.DebugTagf("input", "Context menu suppressed")
				continue
			}
			col, row := a.mouse.ToCell(ev.Position)
			a.setMenu(&tui.Cell{X: col, Y: row})
		}
	}
	a.updateTrail(events[len(events)-1])
	return true
}

func (a *App) setMenu(at *tui.Cell) {
	a.mu.Lock()
	a.menu = at
	a.mu.Unlock()
}

// updateTrail extends the drawn path while a gesture is in progress and
// clears it once the gesture is over.
func (a *App) updateTrail(last tracker.Event) {
	tracking := a.tracker.Tracking()
	a.statusBar.SetTracking(tracking, tui.Arrows(a.tracker.Sequence()))

	a.mu.Lock()
	defer a.mu.Unlock()
	if !tracking {
		a.trail = nil
		return
	}
	col, row := a.mouse.ToCell(last.Position)
	cell := tui.Cell{X: col, Y: row}
	if n := len(a.trail); n == 0 || a.trail[n-1] != cell {
		a.trail = append(a.trail, cell)
	}
}

// --- Event Handlers (App reacts to events) ---

// handleSnapshot runs whenever a new gesture table is put in force.
func (a *App) handleSnapshot(snap configstate.Snapshot) {
	a.tracker.UpdateConfig(snap.Value)
	a.statusBar.SetConfigInfo(string(snap.Source), len(snap.Value.Gestures))
	a.requestRedraw()
}

func (a *App) handleConfigUpdated(e event.Event) bool {
	data, ok := e.Data.(event.ConfigUpdatedData)
	if !ok {
		logger.Warnf("App: unexpected payload %T for %v", e.Data, e.Type)
		return false
	}
	if data.Cleared {
		if _, err := a.loader.ApplyClear(); err != nil {
			logger.Warnf("Ignoring configuration reset: %v", err)
		}
		return false
	}
	if _, err := a.loader.ApplyUpdate(data.Config); err != nil {
		logger.Warnf("Ignoring configuration update: %v", err)
	}
	return false
}

func (a *App) handleSuppressContextMenu(e event.Event) bool {
	data, ok := e.Data.(event.SuppressContextMenuData)
	if !ok {
		logger.Warnf("App: unexpected payload %T for %v", e.Data, e.Type)
		return false
	}
	a.tracker.ArmSuppression(data.Window)
	return false
}

// handleGestureResult shows how a completed gesture was resolved.
func (a *App) handleGestureResult(seq []gesture.Direction, match interpreter.Match, ok bool, err error) {
	summary := tui.Arrows(seq)
	o := overlay{at: time.Now()}
	switch {
	case err != nil:
		summary = fmt.Sprintf("%s → %s (failed)", summary, match.Action)
		o.style = theme.StyleNoMatch
		a.statusBar.SetErrorMessage("%s failed: %v", match.Action, err)
	case ok:
		summary = fmt.Sprintf("%s → %s", summary, match.Action)
		o.style = theme.StyleMatch
	default:
		summary = fmt.Sprintf("%s → no match", summary)
		o.style = theme.StyleNoMatch
	}
	o.text = summary
	a.statusBar.SetLastGesture(summary)

	a.mu.Lock()
	a.overlay = o
	a.mu.Unlock()
	a.requestRedraw()
}
