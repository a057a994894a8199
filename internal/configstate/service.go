// internal/configstate/service.go

// Package configstate owns the configuration in force. Service caches the
// current snapshot and fans it out to subscribers; Loader builds snapshots by
// layering the stored override on the bundled defaults.
package configstate

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bethropolis/mgesture/internal/event"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/store"
)

// Source tags where a snapshot's override came from.
type Source string

const (
	SourceDefault Source = "default"
	SourceSync    Source = Source(store.SourceSync)
	SourceLocal   Source = Source(store.SourceLocal)
)

// Snapshot is an immutable view of a configuration. Holders must not modify
// Value.
type Snapshot struct {
	Source Source
	Value  gesture.Config
}

// Publisher sends fire-and-forget messages to other parts of the system.
type Publisher interface {
	Publish(eventType event.Type, data interface{})
}

// Service is the configuration cache. All methods are safe for concurrent use.
type Service struct {
	store     *store.Tiered
	publisher Publisher

	current atomic.Pointer[Snapshot]
	stored  atomic.Pointer[Snapshot]

	mu          sync.Mutex
	subscribers map[uint64]func(Snapshot)
	nextID      uint64
}

// NewService creates a Service over st. publisher may be nil.
func NewService(st *store.Tiered, publisher Publisher) *Service {
	return &Service{
		store:       st,
		publisher:   publisher,
		subscribers: make(map[uint64]func(Snapshot)),
	}
}

// Current returns the snapshot in force, if any.
func (s *Service) Current() (Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return Snapshot{}, false
	}
	return *snap, true
}

// Set replaces the snapshot in force and notifies every subscriber.
func (s *Service) Set(snap Snapshot) {
	snap.Value = snap.Value.Clone()
	s.current.Store(&snap)
	logger.DebugTagf("configstate", "Configuration snapshot replaced source=%s gestures=%d", snap.Source, len(snap.Value.Gestures))
	s.emit(snap)
}

// Subscribe registers fn for every future snapshot. If a snapshot is already
// in force fn receives it before Subscribe returns.
func (s *Service) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subscribers[id] = fn
	s.mu.Unlock()

	if snap, ok := s.Current(); ok {
		fn(snap)
	}
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

func (s *Service) emit(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

// Read returns the stored override, consulting storage only on the first
// call or after Invalidate. Absence is reported with ok=false.
func (s *Service) Read(ctx context.Context) (Snapshot, bool, error) {
	if snap := s.stored.Load(); snap != nil {
		return *snap, true, nil
	}

	found, ok, err := s.store.Read(ctx, store.ConfigKey)
	if err != nil || !ok {
		return Snapshot{}, false, err
	}
	snap := Snapshot{Source: Source(found.Source), Value: found.Envelope.Config}
	s.stored.Store(&snap)
	return snap, true, nil
}

// Invalidate drops the cached override so the next Read goes to storage.
func (s *Service) Invalidate() {
	s.stored.Store(nil)
}

// Save writes cfg as the stored override and announces it with a
// config/updated message. It does not change the snapshot in force; whoever
// receives the message applies it.
func (s *Service) Save(ctx context.Context, cfg gesture.Config) (Source, error) {
	src, err := s.store.Write(ctx, store.ConfigKey, store.NewEnvelope(cfg))
	if err != nil {
		return "", err
	}

	snap := Snapshot{Source: Source(src), Value: cfg.Clone()}
	s.stored.Store(&snap)
	logger.Infof("Configuration saved to %s storage", src)

	if s.publisher != nil {
		s.publisher.Publish(event.TypeConfigUpdated, event.ConfigUpdatedData{Config: cfg.Clone()})
	}
	return snap.Source, nil
}

// Clear removes the stored override from every tier and announces it with a
// config/updated message marked Cleared.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.store.Remove(ctx, store.ConfigKey); err != nil {
		return err
	}
	s.stored.Store(nil)
	logger.Infof("Stored configuration cleared")

	if s.publisher != nil {
		s.publisher.Publish(event.TypeConfigUpdated, event.ConfigUpdatedData{Cleared: true})
	}
	return nil
}
