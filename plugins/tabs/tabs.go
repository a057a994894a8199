// plugins/tabs/tabs.go
package tabs

import (
	"context"
	"fmt"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/plugin"
)

// Ensure Tabs implements plugin.Performer
var _ plugin.Performer = (*Tabs)(nil)

// Tabs performs the privileged tab actions on behalf of the background
// executor.
type Tabs struct {
	api plugin.API
}

// New creates a new instance of the Tabs plugin.
func New() *Tabs {
	return &Tabs{}
}

// Name returns the unique name of the plugin.
func (p *Tabs) Name() string {
	return "tabs"
}

// Initialize stores the API for later use.
func (p *Tabs) Initialize(api plugin.API) error {
	p.api = api
	return nil
}

// Shutdown performs cleanup (nothing needed for this plugin).
func (p *Tabs) Shutdown() error {
	return nil
}

// Handles reports whether a is a background action.
func (p *Tabs) Handles(a gesture.Action) bool {
	return a.Valid() && !a.IsDOM()
}

// Perform applies def to the tab strip.
func (p *Tabs) Perform(_ context.Context, def gesture.Definition) error {
	if p.api == nil {
		return fmt.Errorf("tabs plugin not initialized with API")
	}
	browser := p.api.Browser()

	var changed bool
	switch def.Action {
	case gesture.ActionCloseTab:
		changed = browser.CloseActive()
	case gesture.ActionReopenClosedTab:
		changed = browser.ReopenClosed()
	case gesture.ActionSwitchTabLeft:
		changed = browser.SwitchTab(-1)
	case gesture.ActionSwitchTabRight:
		changed = browser.SwitchTab(1)
	case gesture.ActionOpenOptionsPage:
		changed = browser.OpenOptions()
	case gesture.ActionOpenURL:
		if def.URL == "" {
			return fmt.Errorf("%s requires a url", def.Action)
		}
		changed = browser.Open(def.URL)
	default:
		return fmt.Errorf("tabs plugin cannot perform %s", def.Action)
	}

	if !changed {
		logger.DebugTagf("plugin", "tabs: %s had no effect", def.Action)
		p.api.SetStatusMessage("%s: nothing to do", def.Action)
		return nil
	}
	if def.Action == gesture.ActionOpenURL {
		p.api.SetStatusMessage("%s %s", def.Action, def.URL)
	} else {
		p.api.SetStatusMessage("%s", def.Action)
	}
	return nil
}
