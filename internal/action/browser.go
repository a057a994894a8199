// internal/action/browser.go
package action

import (
	"sync"
)

// OptionsURL is the address of the settings page.
const OptionsURL = "mgesture://options"

// DefaultPageLength is the scrollable length of a simulated page, in lines.
const DefaultPageLength = 200

type tab struct {
	id      int
	history []string
	index   int
	scroll  int
	reloads int
}

func (t *tab) url() string { return t.history[t.index] }

// TabView is a read-only copy of one tab.
type TabView struct {
	ID           int
	URL          string
	Scroll       int
	Reloads      int
	CanGoBack    bool
	CanGoForward bool
}

// Browser is a minimal model of a browser window: an ordered tab strip, a
// per-tab history and scroll position, and a stack of closed tabs. Every
// method is safe for concurrent use and reports false when it had nothing to
// do.
type Browser struct {
	mu         sync.Mutex
	tabs       []*tab
	active     int
	closed     []*tab
	nextID     int
	pageLength int
}

// NewBrowser opens one tab per url. With no urls a single blank tab is opened.
func NewBrowser(urls ...string) *Browser {
	b := &Browser{pageLength: DefaultPageLength}
	if len(urls) == 0 {
		urls = []string{"about:blank"}
	}
	for _, u := range urls {
		b.tabs = append(b.tabs, b.newTab(u))
	}
	return b
}

func (b *Browser) newTab(url string) *tab {
	b.nextID++
	return &tab{id: b.nextID, history: []string{url}}
}

func (b *Browser) current() *tab {
	if b.active < 0 || b.active >= len(b.tabs) {
		return nil
	}
	return b.tabs[b.active]
}

func view(t *tab) TabView {
	return TabView{
		ID:           t.id,
		URL:          t.url(),
		Scroll:       t.scroll,
		Reloads:      t.reloads,
		CanGoBack:    t.index > 0,
		CanGoForward: t.index < len(t.history)-1,
	}
}

// Tabs returns every tab in strip order and the index of the active one, or
// -1 when the window is empty.
func (b *Browser) Tabs() ([]TabView, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]TabView, len(b.tabs))
	for i, t := range b.tabs {
		out[i] = view(t)
	}
	if len(b.tabs) == 0 {
		return out, -1
	}
	return out, b.active
}

// Active returns the active tab.
func (b *Browser) Active() (TabView, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t := b.current(); t != nil {
		return view(t), true
	}
	return TabView{}, false
}

// PageLength returns the scrollable length of every page.
func (b *Browser) PageLength() int {
	return b.pageLength
}

// Visit loads url in the active tab, dropping any forward history.
func (b *Browser) Visit(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.current()
	if t == nil {
		return false
	}
	t.history = append(t.history[:t.index+1], url)
	t.index++
	t.scroll = 0
	return true
}

// Back moves the active tab one step back in its history.
func (b *Browser) Back() bool {
	return b.withActive(func(t *tab) bool {
		if t.index == 0 {
			return false
		}
		t.index--
		t.scroll = 0
		return true
	})
}

// Forward moves the active tab one step forward in its history.
func (b *Browser) Forward() bool {
	return b.withActive(func(t *tab) bool {
		if t.index >= len(t.history)-1 {
			return false
		}
		t.index++
		t.scroll = 0
		return true
	})
}

// ScrollTo sets the active tab's scroll position, clamped to the page.
func (b *Browser) ScrollTo(line int) bool {
	return b.withActive(func(t *tab) bool {
		line = max(0, min(line, b.pageLength))
		if t.scroll == line {
			return false
		}
		t.scroll = line
		return true
	})
}

// Reload reloads the active tab.
func (b *Browser) Reload() bool {
	return b.withActive(func(t *tab) bool {
		t.reloads++
		t.scroll = 0
		return true
	})
}

// CloseActive closes the active tab and activates its right neighbour, or
// its left one when it was last.
func (b *Browser) CloseActive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.current()
	if t == nil {
		return false
	}
	b.closed = append(b.closed, t)
	b.tabs = append(b.tabs[:b.active], b.tabs[b.active+1:]...)
	if b.active >= len(b.tabs) {
		b.active = len(b.tabs) - 1
	}
	return true
}

// ReopenClosed restores the most recently closed tab next to the active one
// and activates it.
func (b *Browser) ReopenClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.closed) == 0 {
		return false
	}
	t := b.closed[len(b.closed)-1]
	b.closed = b.closed[:len(b.closed)-1]
	b.insertAfterActive(t)
	return true
}

// SwitchTab activates the adjacent tab delta positions away. Nothing happens
// at either end of the strip.
func (b *Browser) SwitchTab(delta int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	target := b.active + delta
	if len(b.tabs) == 0 || target < 0 || target >= len(b.tabs) {
		return false
	}
	b.active = target
	return true
}

// Open opens url in a new tab next to the active one and activates it.
func (b *Browser) Open(url string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertAfterActive(b.newTab(url))
	return true
}

// OpenOptions activates the options tab, opening it if needed.
func (b *Browser) OpenOptions() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, t := range b.tabs {
		if t.url() == OptionsURL {
			b.active = i
			return true
		}
	}
	b.insertAfterActive(b.newTab(OptionsURL))
	return true
}

func (b *Browser) insertAfterActive(t *tab) {
	at := b.active + 1
	if len(b.tabs) == 0 {
		at = 0
	}
	b.tabs = append(b.tabs, nil)
	copy(b.tabs[at+1:], b.tabs[at:])
	b.tabs[at] = t
	b.active = at
}

func (b *Browser) withActive(fn func(t *tab) bool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	t := b.current()
	if t == nil {
		return false
	}
	return fn(t)
}
