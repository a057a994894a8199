package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, DefaultSuppressWindow, cfg.Gesture.SuppressWindowDuration())
	assert.Equal(t, DefaultWatchDelay, cfg.Gesture.WatchDelayDuration())
	assert.True(t, cfg.Gesture.WatchStorage)
	assert.Equal(t, "yaml", cfg.Storage.SyncFormat)
	assert.Equal(t, DefaultCellWidth, cfg.UI.CellWidth)
	assert.NotEmpty(t, cfg.UI.Tabs)
	assert.Equal(t, DefaultLogFilePath(), cfg.Logger.LogFilePath)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
[logger]
log_level = "debug"
disabled_tags = ["tracker"]

[gesture]
defaults_file = "/etc/mgesture/gestures.json"
suppress_window = "250ms"
watch_storage = false

[storage]
sync_dir = "/tmp/sync"
sync_format = "JSON"

[ui]
cell_width = 10
tabs = ["https://go.dev"]

[plugins.Telemetry]
interval = "30s"
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, []string{"tracker"}, cfg.Logger.DisabledTags)
	assert.Equal(t, "/etc/mgesture/gestures.json", cfg.Gesture.DefaultsFile)
	assert.Equal(t, 250*time.Millisecond, cfg.Gesture.SuppressWindowDuration())
	assert.False(t, cfg.Gesture.WatchStorage)
	assert.Equal(t, "/tmp/sync", cfg.Storage.SyncDir)
	assert.Equal(t, "json", cfg.Storage.SyncFormat)
	assert.Equal(t, 10, cfg.UI.CellWidth)
	assert.Equal(t, DefaultCellHeight, cfg.UI.CellHeight)
	assert.Equal(t, []string{"https://go.dev"}, cfg.UI.Tabs)

	v, ok := cfg.PluginValue("telemetry", "interval")
	require.True(t, ok)
	assert.Equal(t, "30s", v)
	_, ok = cfg.PluginValue("telemetry", "enabled")
	assert.False(t, ok)
}

func TestInvalidValuesFallBack(t *testing.T) {
	path := writeConfig(t, `
[gesture]
suppress_window = "soon"
watch_delay = "0s"

[storage]
sync_format = "xml"

[ui]
status_bar_height = -1
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSuppressWindow, cfg.Gesture.SuppressWindowDuration())
	assert.Equal(t, DefaultWatchDelay, cfg.Gesture.WatchDelayDuration())
	assert.Equal(t, "yaml", cfg.Storage.SyncFormat)
	assert.Equal(t, StatusBarHeight, cfg.UI.StatusBarHeight)
}

func TestZeroSuppressWindowAllowed(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[gesture]\nsuppress_window = \"0s\"\n"), nil)
	require.NoError(t, err)
	assert.Zero(t, cfg.Gesture.SuppressWindowDuration())
}

func TestUnknownKeysAreReported(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[ui]\nfancy = true\n"), nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, StatusBarHeight, cfg.UI.StatusBarHeight)
}

func TestMalformedFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, "[ui\n"), nil)
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
}

func TestFlagOverrides(t *testing.T) {
	fs := flag.NewFlagSet("mgesture", flag.ContinueOnError)
	var f Flags
	f.DefineFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"-loglevel", "warn",
		"-sync-dir", "/srv/sync",
		"-no-watch",
		"-log-disable-tags", "tracker, event ,",
		"-defaults", "mine.json",
	}))

	cfg, err := Load(writeConfig(t, "[logger]\nlog_level = \"debug\"\n"), &f)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logger.LogLevel)
	assert.Equal(t, "/srv/sync", cfg.Storage.SyncDir)
	assert.False(t, cfg.Gesture.WatchStorage)
	assert.Equal(t, []string{"tracker", "event"}, cfg.Logger.DisabledTags)
	assert.Equal(t, "mine.json", cfg.Gesture.DefaultsFile)
}

func TestSplitCommaList(t *testing.T) {
	assert.Nil(t, splitCommaList(""))
	assert.Equal(t, []string{"a", "b"}, splitCommaList(" a,,b "))
}
