package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/bethropolis/mgesture/internal/action"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	name      string
	handles   []gesture.Action
	initErr   error
	performed []gesture.Action
	events    *[]string
}

func (f *fakePlugin) Name() string { return f.name }

func (f *fakePlugin) Initialize(API) error {
	*f.events = append(*f.events, "init:"+f.name)
	return f.initErr
}

func (f *fakePlugin) Shutdown() error {
	*f.events = append(*f.events, "shutdown:"+f.name)
	return nil
}

func (f *fakePlugin) Handles(a gesture.Action) bool {
	for _, h := range f.handles {
		if h == a {
			return true
		}
	}
	return false
}

func (f *fakePlugin) Perform(_ context.Context, def gesture.Definition) error {
	f.performed = append(f.performed, def.Action)
	return nil
}

func TestRegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	var events []string
	m := NewManager()
	require.NoError(t, m.Register(&fakePlugin{name: "a", events: &events}))
	assert.Error(t, m.Register(&fakePlugin{name: "a", events: &events}))
	assert.Error(t, m.Register(&fakePlugin{name: "", events: &events}))

	p, ok := m.GetPlugin("a")
	require.True(t, ok)
	assert.Equal(t, "a", p.Name())
}

func TestLifecycleOrder(t *testing.T) {
	var events []string
	m := NewManager()
	require.NoError(t, m.Register(&fakePlugin{name: "a", events: &events}))
	require.NoError(t, m.Register(&fakePlugin{name: "b", events: &events, initErr: errors.New("boom")}))
	require.NoError(t, m.Register(&fakePlugin{name: "c", events: &events}))

	m.InitializePlugins(plugintest.New())
	m.ShutdownPlugins()

	assert.Equal(t, []string{"init:a", "init:b", "init:c", "shutdown:c", "shutdown:a"}, events)
}

func TestPerformUsesFirstInitializedHandler(t *testing.T) {
	var events []string
	broken := &fakePlugin{name: "broken", events: &events, initErr: errors.New("boom"), handles: []gesture.Action{gesture.ActionReload}}
	first := &fakePlugin{name: "first", events: &events, handles: []gesture.Action{gesture.ActionReload}}
	second := &fakePlugin{name: "second", events: &events, handles: []gesture.Action{gesture.ActionReload, gesture.ActionCloseTab}}

	m := NewManager()
	for _, p := range []Plugin{broken, first, second} {
		require.NoError(t, m.Register(p))
	}
	m.InitializePlugins(plugintest.New())

	require.NoError(t, m.Perform(context.Background(), gesture.Definition{Action: gesture.ActionReload}))
	require.NoError(t, m.Perform(context.Background(), gesture.Definition{Action: gesture.ActionCloseTab}))

	assert.Empty(t, broken.performed)
	assert.Equal(t, []gesture.Action{gesture.ActionReload}, first.performed)
	assert.Equal(t, []gesture.Action{gesture.ActionCloseTab}, second.performed)

	err := m.Perform(context.Background(), gesture.Definition{Action: gesture.ActionOpenOptionsPage})
	assert.ErrorIs(t, err, ErrNoPerformer)
}

func TestManagerSatisfiesActionPerformer(t *testing.T) {
	var _ action.Performer = NewManager()
}
