package app

import (
	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/plugin"
)

// pluginAPI implements plugin.API on top of the App.
type pluginAPI struct {
	app *App
}

var _ plugin.API = (*pluginAPI)(nil)

func newPluginAPI(a *App) *pluginAPI {
	return &pluginAPI{app: a}
}

func (api *pluginAPI) Browser() *action.Browser {
	return api.app.browser
}

func (api *pluginAPI) DispatchEvent(eventType event.Type, data interface{}) {
	api.app.eventManager.Dispatch(eventType, data)
}

func (api *pluginAPI) SubscribeEvent(eventType event.Type, handler event.Handler) (unsubscribe func()) {
	return api.app.eventManager.Subscribe(eventType, handler)
}

func (api *pluginAPI) SetStatusMessage(format string, args ...interface{}) {
	api.app.SetStatusMessage(format, args...)
}

func (api *pluginAPI) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	return api.app.cfg.PluginValue(pluginName, key)
}
