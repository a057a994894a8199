package app

import (
	"fmt"

	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/plugin"
	"github.com/bethropolis/mgesture/plugins/page"
	"github.com/bethropolis/mgesture/plugins/tabs"
	"github.com/bethropolis/mgesture/plugins/telemetry"
)

// registerPlugins registers all known plugins with the manager. Registration
// order decides which performer wins when two handle the same action.
func registerPlugins(pm *plugin.Manager) error {
	if pm == nil {
		return fmt.Errorf("plugin manager is nil")
	}

	pluginConstructors := []func() plugin.Plugin{
		func() plugin.Plugin { return page.New() },
		func() plugin.Plugin { return tabs.New() },
		func() plugin.Plugin { return telemetry.New() },
	}

	var finalErr error
	for _, newPlugin := range pluginConstructors {
		p := newPlugin()
		logger.Debugf("Registering plugin: %s", p.Name())
		if err := pm.Register(p); err != nil {
			wrappedErr := fmt.Errorf("failed to register plugin '%s': %w", p.Name(), err)
			logger.Errorf("%v", wrappedErr)
			if finalErr == nil {
				finalErr = wrappedErr
			}
		}
	}
	return finalErr
}
