// internal/store/store.go

// Package store persists the user's gesture configuration across storage
// tiers. Reads return the first tier holding a value; writes go to the first
// tier that accepts them.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// ConfigKey is the key the gesture configuration is stored under.
const ConfigKey = "gesture-config"

// Version is the only envelope version written and accepted.
const Version = 1

// Source names a storage tier.
type Source string

const (
	SourceSync  Source = "sync"
	SourceLocal Source = "local"
)

// ErrNotFound is returned by a Tier that holds nothing under a key.
var ErrNotFound = errors.New("store: key not found")

// ErrUnsupportedVersion is returned when an envelope carries an unknown version.
var ErrUnsupportedVersion = errors.New("store: unsupported envelope version")

// Envelope wraps a stored configuration.
type Envelope struct {
	Version int            `json:"version"`
	Config  gesture.Config `json:"config"`
}

// NewEnvelope wraps cfg in a current-version envelope.
func NewEnvelope(cfg gesture.Config) Envelope {
	return Envelope{Version: Version, Config: cfg.Clone()}
}

// Tier is one storage area.
type Tier interface {
	Source() Source
	// Get returns ErrNotFound when nothing is stored under key.
	Get(ctx context.Context, key string) (Envelope, error)
	Put(ctx context.Context, key string, env Envelope) error
	// Remove succeeds when nothing is stored under key.
	Remove(ctx context.Context, key string) error
}

// Stored is an envelope together with the tier it came from.
type Stored struct {
	Source   Source
	Envelope Envelope
}

// Tiered reads and writes through an ordered list of tiers.
type Tiered struct {
	tiers []Tier
}

// NewTiered creates a Tiered store. The first tier is primary.
func NewTiered(tiers ...Tier) *Tiered {
	return &Tiered{tiers: tiers}
}

// Tiers returns the tiers in priority order.
func (t *Tiered) Tiers() []Tier {
	return append([]Tier(nil), t.tiers...)
}

// Read returns the value held by the first tier that has one. A tier that
// fails to read is logged and skipped; absence everywhere is not an error.
func (t *Tiered) Read(ctx context.Context, key string) (Stored, bool, error) {
	for _, tier := range t.tiers {
		if err := ctx.Err(); err != nil {
			return Stored{}, false, err
		}

		env, err := tier.Get(ctx, key)
		switch {
		case err == nil:
			logger.InfoTagf("store", "Loaded %q from %s storage", key, tier.Source())
			return Stored{Source: tier.Source(), Envelope: env}, true, nil
		case errors.Is(err, ErrNotFound):
			logger.DebugTagf("store", "No %q in %s storage", key, tier.Source())
		default:
			logger.Errorf("Store: failed reading %s storage: %v", tier.Source(), err)
		}
	}
	logger.InfoTagf("store", "No stored value found for %q", key)
	return Stored{}, false, nil
}

// Write stores env in the first tier that accepts it and reports which one.
func (t *Tiered) Write(ctx context.Context, key string, env Envelope) (Source, error) {
	var errs []error
	for _, tier := range t.tiers {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		if err := tier.Put(ctx, key, env); err != nil {
			logger.Errorf("Store: saving to %s storage failed, trying next tier: %v", tier.Source(), err)
			errs = append(errs, fmt.Errorf("%s: %w", tier.Source(), err))
			continue
		}
		logger.InfoTagf("store", "Saved %q to %s storage", key, tier.Source())
		return tier.Source(), nil
	}
	if len(errs) == 0 {
		return "", errors.New("store: no tiers configured")
	}
	return "", fmt.Errorf("store: every tier rejected the write: %w", errors.Join(errs...))
}

// Remove deletes key from every tier so no stale copy shadows the next Read.
func (t *Tiered) Remove(ctx context.Context, key string) error {
	var errs []error
	for _, tier := range t.tiers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := tier.Remove(ctx, key); err != nil {
			logger.Errorf("Store: removing from %s storage failed: %v", tier.Source(), err)
			errs = append(errs, fmt.Errorf("%s: %w", tier.Source(), err))
			continue
		}
		logger.InfoTagf("store", "Removed %q from %s storage", key, tier.Source())
	}
	return errors.Join(errs...)
}

func checkVersion(env Envelope) error {
	if env.Version != Version {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version)
	}
	return nil
}
