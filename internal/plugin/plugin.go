// internal/plugin/plugin.go
package plugin

import (
	"context"

	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
)

// API defines what plugins may use from the host application.
type API interface {
	// Browser is the simulated browser actions operate on.
	Browser() *action.Browser

	// Event bus
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) (unsubscribe func())

	// Status bar
	SetStatusMessage(format string, args ...interface{})

	// Configuration from the [plugins.<name>] table of the settings file.
	GetPluginConfigValue(pluginName, key string) (interface{}, bool)
}

// Plugin defines the interface that all plugins must implement.
type Plugin interface {
	// Name returns the unique identifier name of the plugin.
	Name() string

	// Initialize is called once when the plugin is loaded.
	Initialize(api API) error

	// Shutdown is called once when the application is closing.
	Shutdown() error
}

// Performer is implemented by plugins that carry out gesture actions.
type Performer interface {
	Plugin
	Handles(a gesture.Action) bool
	Perform(ctx context.Context, def gesture.Definition) error
}
