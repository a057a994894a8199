// Package plugintest provides an in-memory plugin.API for plugin tests.
package plugintest

import (
	"fmt"
	"sync"

	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/event"
)

// API implements plugin.API over a real event manager and browser.
type API struct {
	Bus    *event.Manager
	Window *action.Browser
	Config map[string]map[string]interface{}

	mu     sync.Mutex
	status []string
}

// New creates an API with a fresh bus and a browser holding urls.
func New(urls ...string) *API {
	return &API{
		Bus:    event.NewManager(),
		Window: action.NewBrowser(urls...),
		Config: make(map[string]map[string]interface{}),
	}
}

func (a *API) Browser() *action.Browser { return a.Window }

func (a *API) DispatchEvent(eventType event.Type, data interface{}) {
	a.Bus.Dispatch(eventType, data)
}

func (a *API) SubscribeEvent(eventType event.Type, handler event.Handler) func() {
	return a.Bus.Subscribe(eventType, handler)
}

func (a *API) SetStatusMessage(format string, args ...interface{}) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = append(a.status, fmt.Sprintf(format, args...))
}

func (a *API) GetPluginConfigValue(pluginName, key string) (interface{}, bool) {
	values, ok := a.Config[pluginName]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

// Messages returns every status message set so far.
func (a *API) Messages() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.status...)
}

// LastMessage returns the most recent status message, or "".
func (a *API) LastMessage() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.status) == 0 {
		return ""
	}
	return a.status[len(a.status)-1]
}
