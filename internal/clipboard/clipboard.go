// Package clipboard moves exported gesture configurations in and out of the
// pad, through the system clipboard when available.
package clipboard

import (
	"errors"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/mgesture/internal/logger"
)

// ErrEmpty is returned by Read when nothing has been copied.
var ErrEmpty = errors.New("clipboard is empty")

// Manager reads and writes text. With the system clipboard enabled it is
// tried first and the internal buffer is kept in step as a fallback.
type Manager struct {
	mu        sync.Mutex
	useSystem bool
	internal  string
	hasText   bool

	// hooks for tests
	systemRead  func() (string, error)
	systemWrite func(string) error
}

// NewManager creates a clipboard manager.
func NewManager(useSystem bool) *Manager {
	return &Manager{
		useSystem:   useSystem && !clipboard.Unsupported,
		systemRead:  clipboard.ReadAll,
		systemWrite: clipboard.WriteAll,
	}
}

// UsesSystem reports whether the system clipboard is in use.
func (m *Manager) UsesSystem() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.useSystem
}

// Write stores text.
func (m *Manager) Write(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.internal = text
	m.hasText = true
	if !m.useSystem {
		return nil
	}
	if err := m.systemWrite(text); err != nil {
		logger.Warnf("ClipboardManager: system clipboard write failed, keeping text internally: %v", err)
		return nil
	}
	logger.Debugf("ClipboardManager: Copied %d bytes to system clipboard", len(text))
	return nil
}

// Read returns the clipboard text.
func (m *Manager) Read() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.useSystem {
		text, err := m.systemRead()
		if err == nil && text != "" {
			return text, nil
		}
		if err != nil {
			logger.Warnf("ClipboardManager: system clipboard read failed, using internal clipboard: %v", err)
		}
	}
	if !m.hasText {
		return "", ErrEmpty
	}
	return m.internal, nil
}
