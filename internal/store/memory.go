// internal/store/memory.go
package store

import (
	"context"
	"sync"
)

// Memory is an in-process tier. ReadErr and WriteErr, when set, are returned
// from every Get and from every Put or Remove.
type Memory struct {
	mu       sync.Mutex
	source   Source
	values   map[string]Envelope
	ReadErr  error
	WriteErr error
}

// NewMemory creates an empty memory tier reporting source.
func NewMemory(source Source) *Memory {
	return &Memory{source: source, values: make(map[string]Envelope)}
}

func (m *Memory) Source() Source { return m.source }

func (m *Memory) Get(_ context.Context, key string) (Envelope, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return Envelope{}, m.ReadErr
	}
	env, ok := m.values[key]
	if !ok {
		return Envelope{}, ErrNotFound
	}
	if err := checkVersion(env); err != nil {
		return Envelope{}, err
	}
	return Envelope{Version: env.Version, Config: env.Config.Clone()}, nil
}

func (m *Memory) Put(_ context.Context, key string, env Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.values[key] = Envelope{Version: env.Version, Config: env.Config.Clone()}
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	delete(m.values, key)
	return nil
}
