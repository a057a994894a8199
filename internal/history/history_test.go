package history

import (
	"context"
	"errors"
	"testing"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSaver struct {
	saved   []gesture.Config
	cleared int
	err     error
}

func (f *fakeSaver) Clear(context.Context) error {
	if f.err != nil {
		return f.err
	}
	f.cleared++
	return nil
}

func (f *fakeSaver) Save(_ context.Context, cfg gesture.Config) (gesture.Config, error) {
	if f.err != nil {
		return gesture.Config{}, f.err
	}
	f.saved = append(f.saved, cfg)
	return cfg, nil
}

func cfgWith(actions ...gesture.Action) gesture.Config {
	cfg := gesture.Config{DefaultDelay: 100, MinMoveDistance: 10, Gestures: []gesture.Definition{}}
	for _, a := range actions {
		cfg.Gestures = append(cfg.Gestures, gesture.Definition{
			Sequence: []gesture.Direction{gesture.DirectionLeft},
			Action:   a,
		})
	}
	return cfg
}

func TestUndoRedo(t *testing.T) {
	saver := &fakeSaver{}
	m := NewManager(saver, 0)
	a, b, c := cfgWith(gesture.ActionNavigateBack), cfgWith(gesture.ActionReload), cfgWith(gesture.ActionCloseTab)

	m.RecordChange(Change{Label: "import", Before: &a, After: b})
	m.RecordChange(Change{Label: "restore", Before: &b, After: c})
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())

	change, ok, err := m.Undo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "restore", change.Label)
	assert.Equal(t, b, saver.saved[0])

	_, ok, err = m.Undo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, a, saver.saved[1])

	_, ok, err = m.Undo(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	change, ok, err = m.Redo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "import", change.Label)
	assert.Equal(t, b, saver.saved[2])
}

func TestUndoWithoutPriorOverrideClears(t *testing.T) {
	saver := &fakeSaver{}
	m := NewManager(saver, 0)
	m.RecordChange(Change{Label: "import", After: cfgWith(gesture.ActionReload)})

	_, ok, err := m.Undo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, saver.cleared)
	assert.Empty(t, saver.saved)

	_, ok, err = m.Redo(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []gesture.Config{cfgWith(gesture.ActionReload)}, saver.saved)
}

func TestRecordTruncatesRedo(t *testing.T) {
	m := NewManager(&fakeSaver{}, 0)
	m.RecordChange(Change{Label: "one"})
	m.RecordChange(Change{Label: "two"})
	_, _, err := m.Undo(context.Background())
	require.NoError(t, err)
	require.True(t, m.CanRedo())

	m.RecordChange(Change{Label: "three"})
	assert.False(t, m.CanRedo())
	change, _, _ := m.Undo(context.Background())
	assert.Equal(t, "three", change.Label)
}

func TestMaxHistoryEvictsOldest(t *testing.T) {
	m := NewManager(&fakeSaver{}, 2)
	m.RecordChange(Change{Label: "one"})
	m.RecordChange(Change{Label: "two"})
	m.RecordChange(Change{Label: "three"})

	c1, _, _ := m.Undo(context.Background())
	c2, _, _ := m.Undo(context.Background())
	_, ok, _ := m.Undo(context.Background())
	assert.Equal(t, "three", c1.Label)
	assert.Equal(t, "two", c2.Label)
	assert.False(t, ok)
}

func TestFailedUndoKeepsPosition(t *testing.T) {
	saver := &fakeSaver{err: errors.New("disk full")}
	m := NewManager(saver, 0)
	m.RecordChange(Change{Label: "import"})

	_, ok, err := m.Undo(context.Background())
	assert.ErrorContains(t, err, "disk full")
	assert.False(t, ok)
	assert.True(t, m.CanUndo())

	m.Clear()
	assert.False(t, m.CanUndo())
}
