// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/bethropolis/mgesture/internal/logger"
)

// Config holds the application's combined configuration.
type Config struct {
	Logger  logger.Config                     `toml:"logger"`  // Embed logger config under [logger] table
	Gesture GestureConfig                     `toml:"gesture"` // Gesture recognition host settings
	Storage StorageConfig                     `toml:"storage"` // Where the gesture override is kept
	UI      UIConfig                          `toml:"ui"`      // Gesture pad settings
	Plugins map[string]map[string]interface{} `toml:"plugins"` // [plugins.<name>] tables
}

// GestureConfig holds settings for the gesture host. The gesture table itself
// lives in storage, not here.
type GestureConfig struct {
	// DefaultsFile replaces the bundled default gesture table when set.
	DefaultsFile string `toml:"defaults_file"`
	// SuppressWindow is how long contextmenu suppression stays armed after a
	// tab-changing action, as a duration string ("500ms").
	SuppressWindow string `toml:"suppress_window"`
	// WatchStorage reloads the gesture table when its files change on disk.
	WatchStorage bool `toml:"watch_storage"`
	// WatchDelay debounces storage change notifications.
	WatchDelay string `toml:"watch_delay"`

	suppressWindow time.Duration
	watchDelay     time.Duration
}

// StorageConfig locates the storage tiers.
type StorageConfig struct {
	SyncDir    string `toml:"sync_dir"`    // Empty means the user config dir
	LocalDir   string `toml:"local_dir"`   // Empty means the user cache dir
	SyncFormat string `toml:"sync_format"` // "yaml" or "json"
}

// UIConfig holds gesture pad settings.
type UIConfig struct {
	SystemClipboard bool     `toml:"system_clipboard"`
	StatusBarHeight int      `toml:"status_bar_height"`
	CellWidth       int      `toml:"cell_width"`  // Pixels per terminal column
	CellHeight      int      `toml:"cell_height"` // Pixels per terminal row
	Tabs            []string `toml:"tabs"`        // URLs opened at startup
	Theme           string   `toml:"theme"`       // Empty means the built-in dark theme
}

var (
	loadedConfig *Config
	loadOnce     sync.Once
	loadErr      error
)

// NewDefaultConfig creates a Config struct with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Logger: logger.NewConfig(),
		Gesture: GestureConfig{
			SuppressWindow: DefaultSuppressWindow.String(),
			WatchStorage:   WatchStorage,
			WatchDelay:     DefaultWatchDelay.String(),
			suppressWindow: DefaultSuppressWindow,
			watchDelay:     DefaultWatchDelay,
		},
		Storage: StorageConfig{
			SyncFormat: DefaultSyncFormat,
		},
		UI: UIConfig{
			SystemClipboard: SystemClipboard,
			StatusBarHeight: StatusBarHeight,
			CellWidth:       DefaultCellWidth,
			CellHeight:      DefaultCellHeight,
			Tabs:            []string{"https://example.com", "https://example.org"},
		},
		Plugins: make(map[string]map[string]interface{}),
	}
}

// SuppressWindowDuration returns the parsed suppression window.
func (g GestureConfig) SuppressWindowDuration() time.Duration {
	return g.suppressWindow
}

// WatchDelayDuration returns the parsed watch debounce delay.
func (g GestureConfig) WatchDelayDuration() time.Duration {
	return g.watchDelay
}

// PluginValue returns a value from the [plugins.<name>] table.
func (c *Config) PluginValue(pluginName, key string) (interface{}, bool) {
	values, ok := c.Plugins[strings.ToLower(pluginName)]
	if !ok {
		return nil, false
	}
	v, ok := values[key]
	return v, ok
}

// loadFromFile attempts to load configuration from a TOML file on top of cfg.
// A missing file is not an error.
func loadFromFile(filePath string, cfg *Config) error {
	_, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error checking config file '%s': %w", filePath, err)
	}

	metadata, err := toml.DecodeFile(filePath, cfg)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", filePath, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		// Logger is not initialized yet; surface as a soft error.
		return fmt.Errorf("config file '%s': unrecognized keys: %v", filePath, undecoded)
	}
	return nil
}

// validate checks config values and resets invalid ones to defaults.
func (c *Config) validate() {
	defaults := NewDefaultConfig()

	if c.Logger.LogLevel == "" {
		c.Logger.LogLevel = defaults.Logger.LogLevel
	}
	// The terminal belongs to the UI, so stderr is only used when asked for.
	if c.Logger.LogFilePath == "" {
		c.Logger.LogFilePath = DefaultLogFilePath()
	}

	c.Gesture.suppressWindow = parseDurationOr(c.Gesture.SuppressWindow, DefaultSuppressWindow, true)
	c.Gesture.watchDelay = parseDurationOr(c.Gesture.WatchDelay, DefaultWatchDelay, false)

	switch strings.ToLower(c.Storage.SyncFormat) {
	case "yaml", "yml":
		c.Storage.SyncFormat = "yaml"
	case "json":
		c.Storage.SyncFormat = "json"
	default:
		c.Storage.SyncFormat = defaults.Storage.SyncFormat
	}

	if c.UI.StatusBarHeight <= 0 {
		c.UI.StatusBarHeight = defaults.UI.StatusBarHeight
	}
	if c.UI.CellWidth <= 0 {
		c.UI.CellWidth = defaults.UI.CellWidth
	}
	if c.UI.CellHeight <= 0 {
		c.UI.CellHeight = defaults.UI.CellHeight
	}

	plugins := make(map[string]map[string]interface{}, len(c.Plugins))
	for name, values := range c.Plugins {
		plugins[strings.ToLower(name)] = values
	}
	c.Plugins = plugins
}

// parseDurationOr parses s, falling back when it is empty, malformed or
// negative. Zero is accepted only when allowZero is set.
func parseDurationOr(s string, fallback time.Duration, allowZero bool) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d < 0 || (d == 0 && !allowZero) {
		return fallback
	}
	return d
}

// DefaultConfigPath returns ~/.config/mgesture/config.toml, or "" when the
// user config dir is unknown.
func DefaultConfigPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(configDir, ConfigDirName, DefaultConfigFileName)
}

// DefaultLogFilePath returns ~/.cache/mgesture/mgesture.log, or "-" (stderr)
// when the user cache dir is unknown.
func DefaultLogFilePath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "-"
	}
	return filepath.Join(cacheDir, ConfigDirName, DefaultLogFileName)
}

// Load builds a configuration from defaults, the TOML file at configFilePath
// (or the default location when empty) and flag overrides. The returned error
// is informational; the config is always usable.
func Load(configFilePath string, flags *Flags) (*Config, error) {
	cfg := NewDefaultConfig()

	effectivePath := configFilePath
	if effectivePath == "" {
		effectivePath = DefaultConfigPath()
	}

	var err error
	if effectivePath != "" {
		err = loadFromFile(effectivePath, cfg)
	}

	if flags != nil {
		flags.ApplyOverrides(cfg, false)
	}

	cfg.validate()
	return cfg, err
}

// LoadConfig orchestrates loading defaults, file, applying flags, and validation.
// It should be called only once, typically from main.
func LoadConfig(configFilePath string, flags *Flags) (*Config, error) {
	loadOnce.Do(func() {
		loadedConfig, loadErr = Load(configFilePath, flags)
	})
	return loadedConfig, loadErr
}

// Get returns the loaded application configuration. Panics if LoadConfig wasn't called.
func Get() *Config {
	if loadedConfig == nil {
		panic("config.Get() called before config.LoadConfig()")
	}
	return loadedConfig
}
