// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/buttonstate"
	"github.com/bethropolis/mgesture/internal/clipboard"
	"github.com/bethropolis/mgesture/internal/config"
	"github.com/bethropolis/mgesture/internal/configstate"
	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/history"
	"github.com/bethropolis/mgesture/internal/input"
	"github.com/bethropolis/mgesture/internal/interpreter"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/plugin"
	"github.com/bethropolis/mgesture/internal/statusbar"
	"github.com/bethropolis/mgesture/internal/store"
	"github.com/bethropolis/mgesture/internal/theme"
	"github.com/bethropolis/mgesture/internal/tracker"
	"github.com/bethropolis/mgesture/internal/tui"
	"github.com/bethropolis/mgesture/internal/watch"
	"github.com/gdamore/tcell/v2"
)

// storageTimeout bounds every storage operation started from a key command.
const storageTimeout = 5 * time.Second

// Option configures NewApp.
type Option func(*options)

type options struct {
	screen    tcell.Screen
	tiers     []store.Tier
	themesDir *string
}

// WithScreen draws on s instead of the terminal.
func WithScreen(s tcell.Screen) Option {
	return func(o *options) { o.screen = s }
}

// WithTiers replaces the storage tiers derived from the configuration. The
// storage watcher is not started for custom tiers.
func WithTiers(tiers ...store.Tier) Option {
	return func(o *options) { o.tiers = tiers }
}

// WithThemesDir loads user themes from dir; an empty dir loads built-ins only.
func WithThemesDir(dir string) Option {
	return func(o *options) { o.themesDir = &dir }
}

// overlay is a short-lived message drawn over the top of the page.
type overlay struct {
	text  string
	style string
	at    time.Time
}

// App encapsulates the core components and main loop of the gesture pad.
type App struct {
	cfg *config.Config

	tuiManager     *tui.TUI
	themeManager   *theme.Manager
	statusBar      *statusbar.StatusBar
	eventManager   *event.Manager
	pluginManager  *plugin.Manager
	inputProcessor *input.InputProcessor
	mouse          *input.MouseTranslator
	clipboard      *clipboard.Manager
	browser        *action.Browser

	service     *configstate.Service
	loader      *configstate.Loader
	history     *history.Manager
	tracker     *tracker.Tracker
	pipeline    *action.Pipeline
	background  *action.Background
	coordinator *buttonstate.Coordinator
	watcher     *watch.Watcher

	// View state shared between the event loop and the draw loop
	mu       sync.Mutex
	trail    []tui.Cell
	overlay  overlay
	menu     *tui.Cell
	showHelp bool

	unsubscribers []func()
	quit          chan struct{}
	quitOnce      sync.Once
	redrawRequest chan struct{}
	closeOnce     sync.Once
}

// NewApp creates and initializes a new application instance. The gesture
// configuration is resolved before NewApp returns.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	// --- Create Core Components ---
	themeManager := theme.NewManager(themesDir(o))
	if cfg.UI.Theme != "" {
		if err := themeManager.SetTheme(cfg.UI.Theme); err != nil {
			logger.Warnf("Theme %q not available, using %s: %v", cfg.UI.Theme, themeManager.Current().Name, err)
		}
	}
	defStyle := themeManager.Current().GetStyle(theme.StyleDefault)

	var tuiManager *tui.TUI
	var err error
	if o.screen != nil {
		tuiManager, err = tui.NewWithScreen(o.screen, defStyle)
	} else {
		tuiManager, err = tui.New(defStyle)
	}
	if err != nil {
		return nil, fmt.Errorf("TUI initialization failed: %w", err)
	}
	tuiManager.GetScreen().EnableFocus()

	a := &App{
		cfg:            cfg,
		tuiManager:     tuiManager,
		themeManager:   themeManager,
		statusBar:      statusbar.New(statusbar.Config{MessageTimeout: config.MessageTimeout}),
		eventManager:   event.NewManager(),
		pluginManager:  plugin.NewManager(),
		inputProcessor: input.NewInputProcessor(),
		mouse:          input.NewMouseTranslator(cfg.UI.CellWidth, cfg.UI.CellHeight),
		clipboard:      clipboard.NewManager(cfg.UI.SystemClipboard),
		browser:        action.NewBrowser(cfg.UI.Tabs...),
		quit:           make(chan struct{}),
		redrawRequest:  make(chan struct{}, 1),
	}

	// --- Configuration state ---
	tiers, watchPaths := o.tiers, []string(nil)
	if tiers == nil {
		tiers, watchPaths = buildTiers(cfg.Storage)
	}
	a.service = configstate.NewService(store.NewTiered(tiers...), a.eventManager)
	var loaderOpts []configstate.LoaderOption
	if cfg.Gesture.DefaultsFile != "" {
		loaderOpts = append(loaderOpts, configstate.WithDefaultsFile(cfg.Gesture.DefaultsFile))
	}
	a.loader = configstate.NewLoader(a.service, loaderOpts...)
	a.history = history.NewManager(a.loader, history.DefaultMaxHistory)

	// --- Gesture pipeline ---
	interp := interpreter.New(a.currentGestures)
	router := action.NewRouter(a.pluginManager, a.eventManager)
	a.pipeline = action.NewPipeline(interp, router, a.eventManager)
	a.pipeline.OnResult = a.handleGestureResult
	a.background = action.NewBackground(a.pluginManager, a.eventManager, cfg.Gesture.SuppressWindowDuration())
	a.tracker = tracker.New(a.pipeline.Handle, tracker.WithBroadcaster(buttonstate.NewBroadcaster(a.eventManager)))
	a.coordinator = buttonstate.NewCoordinator(a.eventManager)

	// --- Subscribe Core Components (App level wiring) ---
	a.unsubscribers = append(a.unsubscribers,
		a.service.Subscribe(a.handleSnapshot),
		a.eventManager.Subscribe(event.TypeConfigUpdated, a.handleConfigUpdated),
		a.eventManager.Subscribe(event.TypeSuppressContextMenu, a.handleSuppressContextMenu),
		buttonstate.Follow(a.eventManager, a.tracker),
	)

	// --- Resolve the gesture table ---
	if err := a.initializeConfig(); err != nil {
		a.Close()
		return nil, err
	}

	// --- Register and initialize plugins ---
	if err := registerPlugins(a.pluginManager); err != nil {
		logger.Warnf("App: %v", err)
	}
	a.pluginManager.InitializePlugins(newPluginAPI(a))

	// --- Storage watcher ---
	if cfg.Gesture.WatchStorage && len(watchPaths) > 0 {
		w, err := watch.New(a.reloadFromStorage, cfg.Gesture.WatchDelayDuration(), watchPaths...)
		if err != nil {
			logger.Warnf("Storage changes will not be picked up: %v", err)
		} else {
			a.watcher = w
		}
	}

	return a, nil
}

func themesDir(o options) string {
	if o.themesDir != nil {
		return *o.themesDir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, config.ConfigDirName, "themes")
}

// initializeConfig puts a configuration in force. Only an unusable default
// table is fatal; storage trouble falls back to the defaults.
func (a *App) initializeConfig() error {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	_, err := a.loader.Initialize(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, configstate.ErrDefaultConfig) {
		return err
	}
	logger.Errorf("Loading stored gestures failed, using defaults: %v", err)
	def, defErr := a.loader.Defaults()
	if defErr != nil {
		return defErr
	}
	a.service.Set(configstate.Snapshot{Source: configstate.SourceDefault, Value: def})
	a.statusBar.SetErrorMessage("Stored gestures unreadable, using defaults")
	return nil
}

func (a *App) currentGestures() gesture.Config {
	snap, _ := a.service.Current()
	return snap.Value
}

// Run starts the application's main event and drawing loops. It returns when
// the user quits.
func (a *App) Run() error {
	defer a.Close()

	go a.eventLoop()

	a.eventManager.Dispatch(event.TypeAppReady, event.AppReadyData{})
	a.statusBar.SetTemporaryMessage("mgesture - hold the right button and drag to draw a gesture | ? help")
	a.requestRedraw()

	// Timed messages expire without any input, so redraw now and then.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// --- Main Drawing Loop ---
	for {
		select {
		case <-a.quit:
			a.eventManager.Dispatch(event.TypeAppQuit, event.AppQuitData{})
			logger.Infof("Exiting application.")
			return nil
		case <-a.redrawRequest:
			a.draw()
		case <-ticker.C:
			a.draw()
		}
	}
}

// Close releases everything NewApp acquired. It is safe to call more than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		if a.watcher != nil {
			if err := a.watcher.Close(); err != nil {
				logger.Warnf("App: closing storage watcher: %v", err)
			}
		}
		for _, unsubscribe := range a.unsubscribers {
			unsubscribe()
		}
		a.background.Close()
		a.coordinator.Close()
		a.pluginManager.ShutdownPlugins()
		a.eventManager.Wait()
		a.tuiManager.Close()
	})
}

// requestQuit signals the draw loop to stop.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// requestRedraw sends a redraw signal non-blockingly.
func (a *App) requestRedraw() {
	select {
	case a.redrawRequest <- struct{}{}:
	default: // Don't block if a redraw is already pending
	}
}

// SetStatusMessage shows a temporary message in the status bar.
func (a *App) SetStatusMessage(format string, args ...interface{}) {
	a.statusBar.SetTemporaryMessage(format, args...)
	a.requestRedraw()
}
