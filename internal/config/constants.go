package config

import "time"

// Base application details
const AppName = "mgesture"
const ConfigDirName = "mgesture"
const DefaultConfigFileName = "config.toml" // Main config file
const DefaultLogFileName = "mgesture.log"

// UI Layout
const StatusBarHeight = 1
const TabBarHeight = 1

// Status Bar
const MessageTimeout = 4 * time.Second

// Gesture host behaviour
const DefaultSuppressWindow = 500 * time.Millisecond
const DefaultWatchDelay = 150 * time.Millisecond

// These could be moved to NewDefaultConfig(), keeping here for now
const SystemClipboard = true
const WatchStorage = true
const DefaultSyncFormat = "yaml"
const DefaultCellWidth = 8
const DefaultCellHeight = 16
