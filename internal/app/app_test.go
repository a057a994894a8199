package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/mgesture/internal/config"
	"github.com/bethropolis/mgesture/internal/configstate"
	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/store"
	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDefaults = `{
  "defaultDelay": 0,
  "minMoveDistance": 10,
  "gestures": [
    { "sequence": ["LEFT"], "action": "NAVIGATE_BACK" },
    { "sequence": ["UP", "RIGHT"], "action": "SWITCH_TAB_RIGHT" },
    { "sequence": ["RIGHT_BUTTON", "LEFT_CLICK"], "action": "REOPEN_CLOSED_TAB" }
  ]
}`

func newTestApp(t *testing.T) (*App, tcell.SimulationScreen) {
	t.Helper()
	dir := t.TempDir()
	defaultsPath := filepath.Join(dir, "gestures.json")
	require.NoError(t, os.WriteFile(defaultsPath, []byte(testDefaults), 0o644))

	cfg := config.NewDefaultConfig()
	cfg.Gesture.DefaultsFile = defaultsPath
	cfg.Gesture.WatchStorage = false
	cfg.UI.SystemClipboard = false
	cfg.UI.Tabs = []string{"https://a.example", "https://b.example"}

	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := NewApp(cfg,
		WithScreen(screen),
		WithTiers(store.NewMemory(store.SourceSync)),
		WithThemesDir(""),
	)
	require.NoError(t, err)
	screen.SetSize(80, 20)
	t.Cleanup(a.Close)
	return a, screen
}

func mouse(a *App, x, y int, buttons tcell.ButtonMask) {
	a.handleEvent(tcell.NewEventMouse(x, y, buttons, tcell.ModNone))
}

func key(a *App, r rune) bool {
	return a.handleEvent(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
}

func screenText(s tcell.SimulationScreen) string {
	width, height := s.Size()
	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, _, _, _ := s.GetContent(x, y)
			b.WriteRune(r)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func activeURL(t *testing.T, a *App) string {
	t.Helper()
	tab, ok := a.browser.Active()
	require.True(t, ok)
	return tab.URL
}

func TestNewAppResolvesDefaults(t *testing.T) {
	a, _ := newTestApp(t)

	snap, ok := a.service.Current()
	require.True(t, ok)
	assert.Equal(t, configstate.SourceDefault, snap.Source)
	assert.Len(t, snap.Value.Gestures, 3)
	assert.Zero(t, a.tracker.Thresholds().MinDuration)

	text, styleName := a.statusBar.Text()
	assert.Contains(t, text, "gestures: 3 (default)")
	assert.Equal(t, theme.StyleStatusBar, styleName)
}

func TestNewAppFailsOnUnusableDefaults(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Gesture.DefaultsFile = filepath.Join(t.TempDir(), "missing.json")
	cfg.Gesture.WatchStorage = false

	_, err := NewApp(cfg,
		WithScreen(tcell.NewSimulationScreen("UTF-8")),
		WithTiers(store.NewMemory(store.SourceLocal)),
		WithThemesDir(""),
	)
	assert.ErrorIs(t, err, configstate.ErrDefaultConfig)
}

func TestRightDragNavigatesBack(t *testing.T) {
	a, _ := newTestApp(t)
	a.browser.Visit("https://a.example/next")

	mouse(a, 10, 5, tcell.Button2)
	assert.True(t, a.tracker.Tracking())
	mouse(a, 7, 5, tcell.Button2)
	assert.Equal(t, []gesture.Direction{gesture.DirectionLeft}, a.tracker.Sequence())
	assert.NotEmpty(t, a.trail)

	mouse(a, 7, 5, tcell.ButtonNone)
	a.eventManager.Wait()

	assert.False(t, a.tracker.Tracking())
	assert.Equal(t, "https://a.example", activeURL(t, a))
	assert.Contains(t, a.overlay.text, "NAVIGATE_BACK")
	assert.Empty(t, a.trail)
	assert.Nil(t, a.menu, "context menu after a gesture must be swallowed")
}

func TestSwitchTabArmsSuppression(t *testing.T) {
	a, _ := newTestApp(t)

	mouse(a, 10, 10, tcell.Button2)
	mouse(a, 10, 8, tcell.Button2)
	mouse(a, 13, 8, tcell.Button2)
	mouse(a, 13, 8, tcell.ButtonNone)
	a.eventManager.Wait()

	_, active := a.browser.Tabs()
	assert.Equal(t, 1, active)
	assert.True(t, a.tracker.SuppressionArmed())
	assert.Nil(t, a.menu)
}

func TestPlainRightClickOpensContextMenu(t *testing.T) {
	a, _ := newTestApp(t)

	mouse(a, 4, 6, tcell.Button2)
	mouse(a, 4, 6, tcell.ButtonNone)
	require.NotNil(t, a.menu)
	assert.Equal(t, 4, a.menu.X)
	assert.Equal(t, 6, a.menu.Y)

	mouse(a, 20, 6, tcell.Button1)
	assert.Nil(t, a.menu)
}

func TestChordReopensClosedTab(t *testing.T) {
	a, _ := newTestApp(t)
	require.True(t, a.browser.CloseActive())

	mouse(a, 5, 5, tcell.Button2)
	mouse(a, 5, 5, tcell.Button2|tcell.Button1)
	assert.False(t, a.tracker.Tracking())
	mouse(a, 5, 5, tcell.ButtonNone)
	a.eventManager.Wait()

	tabs, _ := a.browser.Tabs()
	assert.Len(t, tabs, 2)
	assert.Nil(t, a.menu)
}

func TestFocusLossCancelsGesture(t *testing.T) {
	a, _ := newTestApp(t)
	a.browser.Visit("https://a.example/next")

	mouse(a, 10, 5, tcell.Button2)
	mouse(a, 7, 5, tcell.Button2)
	a.handleEvent(tcell.NewEventFocus(false))
	a.eventManager.Wait()

	assert.False(t, a.tracker.Tracking())
	assert.Equal(t, "https://a.example/next", activeURL(t, a))
}

func TestExportThenImport(t *testing.T) {
	a, _ := newTestApp(t)

	assert.True(t, key(a, 'e'))
	exported, err := a.clipboard.Read()
	require.NoError(t, err)
	assert.Contains(t, exported, "NAVIGATE_BACK")

	require.NoError(t, a.clipboard.Write(`{
		"defaultDelay": 0,
		"minMoveDistance": 10,
		"gestures": [{ "sequence": ["LEFT"], "action": "RELOAD" }]
	}`))
	assert.True(t, key(a, 'i'))
	a.eventManager.Wait()

	snap, ok := a.service.Current()
	require.True(t, ok)
	assert.Equal(t, configstate.SourceSync, snap.Source)
	require.Len(t, snap.Value.Gestures, 3)
	assert.Equal(t, gesture.ActionReload, snap.Value.Gestures[0].Action)
	assert.NotEmpty(t, snap.Value.Gestures[0].ID)

	text, _ := a.statusBar.Text()
	assert.Equal(t, "Imported 3 gesture(s)", text)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.clipboard.Write(`{"gestures": [{"sequence": ["SIDEWAYS"], "action": "RELOAD"}]}`))

	key(a, 'i')
	a.eventManager.Wait()

	text, styleName := a.statusBar.Text()
	assert.True(t, strings.HasPrefix(text, "Import failed"))
	assert.Equal(t, theme.StyleStatusBarError, styleName)
	snap, _ := a.service.Current()
	assert.Equal(t, configstate.SourceDefault, snap.Source)
}

func TestImportWithEmptyClipboard(t *testing.T) {
	a, _ := newTestApp(t)
	key(a, 'i')
	text, _ := a.statusBar.Text()
	assert.Equal(t, "Import failed: clipboard is empty", text)
}

func TestRestoreDefaultsStoresOverride(t *testing.T) {
	a, _ := newTestApp(t)

	key(a, 'd')
	a.eventManager.Wait()

	snap, _ := a.service.Current()
	assert.Equal(t, configstate.SourceSync, snap.Source)
	assert.Len(t, snap.Value.Gestures, 3)
	stored, ok, err := a.service.Read(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, stored.Value.Gestures, 3)
}

func TestPeerUpdateIsApplied(t *testing.T) {
	a, _ := newTestApp(t)
	def, err := a.loader.Defaults()
	require.NoError(t, err)
	def.MinMoveDistance = 25
	def.Gestures = append(def.Gestures, gesture.Definition{
		Sequence: []gesture.Direction{gesture.DirectionDown},
		Action:   gesture.ActionScrollBottom,
	})

	a.eventManager.Publish(event.TypeConfigUpdated, event.ConfigUpdatedData{Config: def})
	a.eventManager.Wait()

	assert.Equal(t, 25.0, a.tracker.Thresholds().MinMoveDistance)
	text, _ := a.statusBar.Text()
	assert.Contains(t, text, "gestures: 4 (sync)")
}

func TestPeerSuppressionRequestArmsTracker(t *testing.T) {
	a, _ := newTestApp(t)
	a.eventManager.Dispatch(event.TypeSuppressContextMenu, event.SuppressContextMenuData{})
	assert.True(t, a.tracker.SuppressionArmed())

	mouse(a, 4, 6, tcell.Button2)
	mouse(a, 4, 6, tcell.ButtonNone)
	assert.Nil(t, a.menu)
}

func TestScrollAndVisitKeys(t *testing.T) {
	a, _ := newTestApp(t)

	key(a, 'j')
	key(a, 'j')
	key(a, 'k')
	tab, _ := a.browser.Active()
	assert.Equal(t, scrollStep, tab.Scroll)

	key(a, '3')
	assert.Equal(t, "https://a.example/link-3", activeURL(t, a))
}

func TestQuitKey(t *testing.T) {
	a, _ := newTestApp(t)
	assert.False(t, key(a, 'q'))
	select {
	case <-a.quit:
	default:
		t.Fatal("quit was not requested")
	}
}

func TestCycleTheme(t *testing.T) {
	a, _ := newTestApp(t)
	before := a.themeManager.Current().Name
	key(a, 't')
	assert.NotEqual(t, before, a.themeManager.Current().Name)
}

func TestDrawShowsPageHelpAndStatus(t *testing.T) {
	a, screen := newTestApp(t)

	key(a, '?')
	a.draw()
	text := screenText(screen)
	assert.Contains(t, text, "1:a.example")
	assert.Contains(t, text, "Hold the right button")
	assert.Contains(t, text, "gestures: 3 (default)")

	a.handleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	a.draw()
	assert.NotContains(t, screenText(screen), "Hold the right button")
}

func TestUndoImport(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.clipboard.Write(`{
		"defaultDelay": 0,
		"minMoveDistance": 10,
		"gestures": [{ "sequence": ["LEFT"], "action": "RELOAD" }]
	}`))
	key(a, 'i')
	a.eventManager.Wait()

	key(a, 'u')
	a.eventManager.Wait()
	snap, _ := a.service.Current()
	assert.Equal(t, gesture.ActionNavigateBack, snap.Value.Gestures[0].Action)
	assert.Equal(t, configstate.SourceDefault, snap.Source)
	_, stored, err := a.loader.Stored(context.Background())
	require.NoError(t, err)
	assert.False(t, stored, "undoing the first import clears the override")
	text, _ := a.statusBar.Text()
	assert.Equal(t, "Undid import", text)

	key(a, 'U')
	a.eventManager.Wait()
	snap, _ = a.service.Current()
	assert.Equal(t, gesture.ActionReload, snap.Value.Gestures[0].Action)

	key(a, 'U')
	text, _ = a.statusBar.Text()
	assert.Equal(t, "Nothing to redo", text)
}

func TestUndoRestoreKeepsStoredOverride(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.clipboard.Write(`{
		"defaultDelay": 0,
		"minMoveDistance": 10,
		"gestures": [{ "sequence": ["LEFT"], "action": "RELOAD" }]
	}`))
	key(a, 'i')
	a.eventManager.Wait()
	imported, ok, err := a.loader.Stored(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	key(a, 'd')
	a.eventManager.Wait()
	key(a, 'u')
	a.eventManager.Wait()

	stored, ok, err := a.loader.Stored(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, imported.Gestures, stored.Gestures)
	snap, _ := a.service.Current()
	assert.Equal(t, gesture.ActionReload, snap.Value.Gestures[0].Action)
}
