// Package history provides undo/redo of gesture configuration changes via a
// change history stack.
package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

const DefaultMaxHistory = 20

// Change is one replacement of the stored gesture override. Before is nil when
// nothing was stored, so undoing the change clears the override again.
type Change struct {
	Label  string // What caused it, e.g. "import"
	Before *gesture.Config
	After  gesture.Config
}

// Saver stores or removes the user override.
type Saver interface {
	Save(ctx context.Context, cfg gesture.Config) (gesture.Config, error)
	Clear(ctx context.Context) error
}

// Manager handles the undo/redo stack.
type Manager struct {
	saver        Saver
	changes      []Change
	currentIndex int // Index of the *next* change to potentially Redo
	maxHistory   int
	mutex        sync.Mutex
}

// NewManager creates a history manager writing through saver.
func NewManager(saver Saver, maxHistory int) *Manager {
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Manager{
		saver:      saver,
		changes:    make([]Change, 0, maxHistory),
		maxHistory: maxHistory,
	}
}

// RecordChange adds a new change, clearing any redo history.
func (m *Manager) RecordChange(change Change) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex < len(m.changes) {
		m.changes = m.changes[:m.currentIndex]
	}
	if change.Before != nil {
		before := change.Before.Clone()
		change.Before = &before
	}
	change.After = change.After.Clone()
	m.changes = append(m.changes, change)

	// Oldest changes go first
	if len(m.changes) > m.maxHistory {
		m.changes = m.changes[len(m.changes)-m.maxHistory:]
	}
	m.currentIndex = len(m.changes)

	logger.DebugTagf("history", "Recorded %s. Index: %d, Count: %d", change.Label, m.currentIndex, len(m.changes))
}

// Undo puts back the override from before the last recorded change. It
// returns the undone change, or ok=false when there is nothing to undo.
func (m *Manager) Undo(ctx context.Context) (change Change, ok bool, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex <= 0 {
		logger.DebugTagf("history", "Nothing to undo.")
		return Change{}, false, nil
	}

	change = m.changes[m.currentIndex-1]
	if err := m.restore(ctx, change.Before); err != nil {
		return Change{}, false, fmt.Errorf("undo %s failed: %w", change.Label, err)
	}
	m.currentIndex--
	logger.DebugTagf("history", "Undid %s. Index: %d", change.Label, m.currentIndex)
	return change, true, nil
}

// Redo stores the configuration from after the last undone change.
func (m *Manager) Redo(ctx context.Context) (change Change, ok bool, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.currentIndex >= len(m.changes) {
		logger.DebugTagf("history", "Nothing to redo. currentIndex=%d, len(changes)=%d", m.currentIndex, len(m.changes))
		return Change{}, false, nil
	}

	change = m.changes[m.currentIndex]
	if _, err := m.saver.Save(ctx, change.After); err != nil {
		return Change{}, false, fmt.Errorf("redo %s failed: %w", change.Label, err)
	}
	m.currentIndex++
	logger.DebugTagf("history", "Redid %s. Index: %d", change.Label, m.currentIndex)
	return change, true, nil
}

func (m *Manager) restore(ctx context.Context, before *gesture.Config) error {
	if before == nil {
		return m.saver.Clear(ctx)
	}
	_, err := m.saver.Save(ctx, *before)
	return err
}

// Clear resets the history stack.
func (m *Manager) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.changes = m.changes[:0]
	m.currentIndex = 0
}

// CanUndo returns true if there are changes that can be undone.
func (m *Manager) CanUndo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex > 0
}

// CanRedo returns true if there are changes that can be redone.
func (m *Manager) CanRedo() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.currentIndex < len(m.changes)
}
