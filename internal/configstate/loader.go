// internal/configstate/loader.go
package configstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/bethropolis/mgesture/defaults"
	"github.com/bethropolis/mgesture/internal/gesture"
	"github.com/bethropolis/mgesture/internal/logger"
)

// ErrDefaultConfig is returned when the bundled defaults cannot be loaded.
// Nothing can run without them.
var ErrDefaultConfig = errors.New("configstate: default configuration unusable")

// ErrNotInitialized is returned before the first successful Initialize.
var ErrNotInitialized = errors.New("configstate: configuration not initialized")

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDefaultsFile reads the default table from path instead of the bundled
// document.
func WithDefaultsFile(path string) LoaderOption {
	return func(l *Loader) {
		l.readDefaults = func() ([]byte, error) { return os.ReadFile(path) }
		l.defaultsOrigin = path
	}
}

// WithDefaultsData uses data as the default table.
func WithDefaultsData(data []byte) LoaderOption {
	return func(l *Loader) {
		l.readDefaults = func() ([]byte, error) { return data, nil }
		l.defaultsOrigin = "inline"
	}
}

// WithIDGenerator replaces the generator used for new gesture IDs.
func WithIDGenerator(fn func() string) LoaderOption {
	return func(l *Loader) { l.newID = fn }
}

// Loader resolves the effective configuration.
type Loader struct {
	service        *Service
	readDefaults   func() ([]byte, error)
	defaultsOrigin string
	newID          func() string

	mu       sync.Mutex
	defaults *gesture.Config
}

// NewLoader creates a loader publishing through service.
func NewLoader(service *Service, opts ...LoaderOption) *Loader {
	l := &Loader{
		service:        service,
		readDefaults:   func() ([]byte, error) { return defaults.Gestures, nil },
		defaultsOrigin: "bundled",
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Defaults returns the validated default configuration, loading it on first
// use.
func (l *Loader) Defaults() (gesture.Config, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.defaults != nil {
		return l.defaults.Clone(), nil
	}

	logger.Infof("Loading default configuration from %s", l.defaultsOrigin)
	data, err := l.readDefaults()
	if err != nil {
		return gesture.Config{}, fmt.Errorf("%w: %v", ErrDefaultConfig, err)
	}
	cfg, err := gesture.ParseConfig(data)
	if err == nil {
		err = gesture.Validate(cfg)
	}
	if err != nil {
		return gesture.Config{}, fmt.Errorf("%w: %w", ErrDefaultConfig, err)
	}

	l.defaults = &cfg
	return cfg.Clone(), nil
}

// Initialize layers the stored override, if any, on the defaults and puts the
// result in force. A stored override that fails validation is logged and
// ignored. Only an unusable default is fatal.
func (l *Loader) Initialize(ctx context.Context) (gesture.Config, error) {
	def, err := l.Defaults()
	if err != nil {
		return gesture.Config{}, err
	}

	stored, ok, err := l.service.Read(ctx)
	if err != nil {
		return gesture.Config{}, fmt.Errorf("read stored configuration: %w", err)
	}
	if !ok {
		logger.Infof("Using default configuration")
		l.service.Set(Snapshot{Source: SourceDefault, Value: def})
		return def, nil
	}

	merged, err := layer(def, stored.Value)
	if err != nil {
		logger.Warnf("Stored configuration from %s rejected, using defaults: %v", stored.Source, err)
		l.service.Set(Snapshot{Source: SourceDefault, Value: def})
		return def, nil
	}

	logger.Infof("Merged configuration from %s", stored.Source)
	l.service.Set(Snapshot{Source: stored.Source, Value: merged})
	return merged, nil
}

// Reload re-reads storage and re-initializes.
func (l *Loader) Reload(ctx context.Context) (gesture.Config, error) {
	l.service.Invalidate()
	return l.Initialize(ctx)
}

// ApplyUpdate layers an override received from elsewhere on the defaults and
// puts it in force. An invalid override is returned as an error and leaves
// the current configuration untouched.
func (l *Loader) ApplyUpdate(override gesture.Config) (gesture.Config, error) {
	def, err := l.Defaults()
	if err != nil {
		return gesture.Config{}, err
	}
	merged, err := layer(def, override)
	if err != nil {
		return gesture.Config{}, err
	}
	l.service.Set(Snapshot{Source: SourceSync, Value: merged})
	return merged, nil
}

// ApplyClear puts the defaults back in force after a peer removed its override.
func (l *Loader) ApplyClear() (gesture.Config, error) {
	def, err := l.Defaults()
	if err != nil {
		return gesture.Config{}, err
	}
	l.service.Set(Snapshot{Source: SourceDefault, Value: def})
	return def, nil
}

// Stored returns the user's override as stored, without the defaults layered
// under it. ok is false when nothing is stored.
func (l *Loader) Stored(ctx context.Context) (cfg gesture.Config, ok bool, err error) {
	snap, ok, err := l.service.Read(ctx)
	if err != nil || !ok {
		return gesture.Config{}, false, err
	}
	return snap.Value.Clone(), true, nil
}

// Clear removes the stored override.
func (l *Loader) Clear(ctx context.Context) error {
	if err := l.service.Clear(ctx); err != nil {
		return fmt.Errorf("clear configuration: %w", err)
	}
	return nil
}

// Current returns the configuration in force.
func (l *Loader) Current() (gesture.Config, error) {
	snap, ok := l.service.Current()
	if !ok {
		return gesture.Config{}, ErrNotInitialized
	}
	return snap.Value, nil
}

// Save validates cfg, gives every gesture without one an ID, and stores it.
func (l *Loader) Save(ctx context.Context, cfg gesture.Config) (gesture.Config, error) {
	cfg = gesture.Normalize(cfg)
	if err := gesture.Validate(cfg); err != nil {
		return gesture.Config{}, err
	}
	l.assignIDs(&cfg)
	if _, err := l.service.Save(ctx, cfg); err != nil {
		return gesture.Config{}, fmt.Errorf("save configuration: %w", err)
	}
	return cfg, nil
}

// Restore stores a copy of the defaults as the override.
func (l *Loader) Restore(ctx context.Context) (gesture.Config, error) {
	def, err := l.Defaults()
	if err != nil {
		return gesture.Config{}, err
	}
	logger.Infof("Restoring default configuration")
	return l.Save(ctx, def)
}

// Import parses a JSON document, layers it on the defaults and stores the
// result.
func (l *Loader) Import(ctx context.Context, data []byte) (gesture.Config, error) {
	parsed, err := gesture.ParseConfig(data)
	if err != nil {
		return gesture.Config{}, err
	}
	if err := gesture.Validate(parsed); err != nil {
		return gesture.Config{}, err
	}
	def, err := l.Defaults()
	if err != nil {
		return gesture.Config{}, err
	}
	logger.Infof("Importing configuration with %d gesture(s)", len(parsed.Gestures))
	return l.Save(ctx, gesture.Merge(def, parsed))
}

// Export renders the configuration in force as indented JSON.
func (l *Loader) Export() ([]byte, error) {
	cfg, err := l.Current()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(cfg, "", "  ")
}

func (l *Loader) assignIDs(cfg *gesture.Config) {
	for i := range cfg.Gestures {
		if cfg.Gestures[i].ID == "" {
			cfg.Gestures[i].ID = l.newID()
		}
	}
}

// layer normalizes and validates override before merging it onto def.
func layer(def, override gesture.Config) (gesture.Config, error) {
	normalized := gesture.Normalize(override)
	if err := gesture.Validate(normalized); err != nil {
		return gesture.Config{}, err
	}
	return gesture.Merge(def, normalized), nil
}
