// internal/plugin/manager.go
package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// ErrNoPerformer is returned when no initialized plugin handles an action.
var ErrNoPerformer = errors.New("no plugin handles action")

// Manager handles the registration, initialization, and lifecycle of plugins.
type Manager struct {
	mu          sync.RWMutex
	plugins     []Plugin // registration order
	byName      map[string]Plugin
	initialized map[string]bool
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		byName:      make(map[string]Plugin),
		initialized: make(map[string]bool),
	}
}

// Register adds a plugin instance to the manager.
// This should be called before InitializePlugins.
func (m *Manager) Register(plugin Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := plugin.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.byName[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}

	m.plugins = append(m.plugins, plugin)
	m.byName[name] = plugin
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins calls Initialize on every registered plugin. A plugin
// that fails is logged and left out of Perform.
func (m *Manager) InitializePlugins(api API) {
	toInit := m.snapshot()

	logger.Infof("Plugin Manager: Initializing %d plugins...", len(toInit))
	for _, plugin := range toInit {
		if err := plugin.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: ERROR initializing plugin '%s': %v", plugin.Name(), err)
			continue
		}
		m.mu.Lock()
		m.initialized[plugin.Name()] = true
		m.mu.Unlock()
		logger.Debugf("Plugin Manager: Successfully initialized plugin '%s'", plugin.Name())
	}
}

// ShutdownPlugins calls Shutdown on every initialized plugin in reverse
// registration order.
func (m *Manager) ShutdownPlugins() {
	toShutdown := m.snapshot()

	logger.Infof("Plugin Manager: Shutting down %d plugins...", len(toShutdown))
	for i := len(toShutdown) - 1; i >= 0; i-- {
		plugin := toShutdown[i]
		m.mu.Lock()
		wasInitialized := m.initialized[plugin.Name()]
		delete(m.initialized, plugin.Name())
		m.mu.Unlock()
		if !wasInitialized {
			continue
		}
		if err := plugin.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: ERROR shutting down plugin '%s': %v", plugin.Name(), err)
		}
	}
}

// Perform hands def to the first initialized plugin that handles its action.
func (m *Manager) Perform(ctx context.Context, def gesture.Definition) error {
	for _, plugin := range m.snapshot() {
		performer, ok := plugin.(Performer)
		if !ok || !m.isInitialized(plugin.Name()) || !performer.Handles(def.Action) {
			continue
		}
		logger.DebugTagf("plugin", "Plugin '%s' performing %s", plugin.Name(), def.Action)
		if err := performer.Perform(ctx, def); err != nil {
			return fmt.Errorf("plugin '%s' performing %s: %w", plugin.Name(), def.Action, err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNoPerformer, def.Action)
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.byName[name]
	return p, exists
}

func (m *Manager) snapshot() []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Plugin(nil), m.plugins...)
}

func (m *Manager) isInitialized(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized[name]
}
