// plugins/page/page.go
package page

import (
	"context"
	"fmt"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/plugin"
)

// Ensure Page implements plugin.Performer
var _ plugin.Performer = (*Page)(nil)

// Page performs the actions that run inside the page itself: history
// navigation, scrolling and reload.
type Page struct {
	api plugin.API
}

// New creates a new instance of the Page plugin.
func New() *Page {
	return &Page{}
}

// Name returns the unique name of the plugin.
func (p *Page) Name() string {
	return "page"
}

// Initialize stores the API for later use.
func (p *Page) Initialize(api plugin.API) error {
	p.api = api
	return nil
}

// Shutdown performs cleanup (nothing needed for this plugin).
func (p *Page) Shutdown() error {
	return nil
}

// Handles reports whether a runs against the page.
func (p *Page) Handles(a gesture.Action) bool {
	return a.IsDOM()
}

// Perform applies def to the active tab.
func (p *Page) Perform(_ context.Context, def gesture.Definition) error {
	if p.api == nil {
		return fmt.Errorf("page plugin not initialized with API")
	}
	browser := p.api.Browser()

	var changed bool
	switch def.Action {
	case gesture.ActionNavigateBack:
		changed = browser.Back()
	case gesture.ActionNavigateForward:
		changed = browser.Forward()
	case gesture.ActionScrollTop:
		changed = browser.ScrollTo(0)
	case gesture.ActionScrollBottom:
		changed = browser.ScrollTo(browser.PageLength())
	case gesture.ActionReload:
		changed = browser.Reload()
	default:
		return fmt.Errorf("page plugin cannot perform %s", def.Action)
	}

	if !changed {
		logger.DebugTagf("plugin", "page: %s had no effect", def.Action)
		p.api.SetStatusMessage("%s: nothing to do", def.Action)
		return nil
	}
	p.api.SetStatusMessage("%s", def.Action)
	return nil
}
