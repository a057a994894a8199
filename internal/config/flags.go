// internal/config/flags.go
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/bethropolis/mgesture/internal/logger"
)

// Flags holds values parsed from command-line flags.
// Use pointers to distinguish between unset flags and zero-value flags.
type Flags struct {
	ConfigFilePath *string
	Version        *bool
	LogLevel       *string
	LogFilePath    *string
	DefaultsFile   *string
	SyncDir        *string
	LocalDir       *string
	NoWatch        *bool
	// Add flags for logger filters
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	SystemClipboard *bool

	fs *flag.FlagSet
}

// DefineFlags sets up the command-line flags on fs and associates them with
// the Flags struct fields. A nil fs means flag.CommandLine.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	if fs == nil {
		fs = flag.CommandLine
	}
	f.fs = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", ConfigDirName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.DefaultsFile = fs.String("defaults", "", "JSON file replacing the bundled default gestures - Overrides config file")
	f.SyncDir = fs.String("sync-dir", "", "Directory of the synced gesture override - Overrides config file")
	f.LocalDir = fs.String("local-dir", "", "Directory of the local gesture override - Overrides config file")
	f.NoWatch = fs.Bool("no-watch", false, "Do not reload gestures when the stored override changes")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal clipboard")
}

// ParseFlags parses the defined command-line flags into the Flags struct.
// It returns the remaining non-flag arguments.
func (f *Flags) ParseFlags() []string {
	f.DefineFlags(nil)
	flag.Parse()
	return flag.Args()
}

// ApplyOverrides updates the Config struct with values from flags *if* they were set.
func (f *Flags) ApplyOverrides(cfg *Config, verbose bool) {
	fs := f.fs
	if fs == nil {
		fs = flag.CommandLine
	}
	// Visit only processes flags that were actually set
	fs.Visit(func(fl *flag.Flag) {
		if verbose {
			logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		}
		switch fl.Name {
		case "loglevel":
			if f.LogLevel != nil && *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			if f.LogFilePath != nil { // Empty string is valid ("-")
				cfg.Logger.LogFilePath = *f.LogFilePath
			}
		case "defaults":
			if f.DefaultsFile != nil {
				cfg.Gesture.DefaultsFile = *f.DefaultsFile
			}
		case "sync-dir":
			if f.SyncDir != nil && *f.SyncDir != "" {
				cfg.Storage.SyncDir = *f.SyncDir
			}
		case "local-dir":
			if f.LocalDir != nil && *f.LocalDir != "" {
				cfg.Storage.LocalDir = *f.LocalDir
			}
		case "no-watch":
			if f.NoWatch != nil && *f.NoWatch {
				cfg.Gesture.WatchStorage = false
			}
		case "system-clipboard":
			if f.SystemClipboard != nil {
				cfg.UI.SystemClipboard = *f.SystemClipboard
			}
		case "log-tags":
			if f.EnableTags != nil && *f.EnableTags != "" {
				cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
			}
		case "log-disable-tags":
			if f.DisableTags != nil && *f.DisableTags != "" {
				cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
			}
		case "log-packages":
			if f.EnablePkgs != nil && *f.EnablePkgs != "" {
				cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
			}
		case "log-disable-packages":
			if f.DisablePkgs != nil && *f.DisablePkgs != "" {
				cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
			}
		case "log-files":
			if f.EnableFiles != nil && *f.EnableFiles != "" {
				cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
			}
		case "log-disable-files":
			if f.DisableFiles != nil && *f.DisableFiles != "" {
				cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
			}
		}
	})
}

// Helper function to split comma-separated list
func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
