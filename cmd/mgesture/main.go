// cmd/mgesture/main.go
package main

import (
	"fmt"
	stlog "log" // Standard log for fatal errors before the logger is ready
	"os"

	"github.com/bethropolis/mgesture/internal/app"
	"github.com/bethropolis/mgesture/internal/config"
	"github.com/bethropolis/mgesture/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args := flags.ParseFlags()

	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		os.Exit(0)
	}

	// --- Configuration ---
	cfg, cfgErr := config.LoadConfig(*flags.ConfigFilePath, &flags)

	// --- Logger Initialization ---
	if err := logger.Init(cfg.Logger); err != nil {
		stlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Close() }()

	if cfgErr != nil {
		logger.Warnf("Configuration file problem, continuing with defaults where needed: %v", cfgErr)
	}
	if len(args) > 0 {
		logger.Warnf("Ignoring extra arguments: %v", args)
	}

	logger.Infof("Starting %s %s", config.AppName, version)
	logger.Debugf("Log level: %s, log file: %s", cfg.Logger.LogLevel, cfg.Logger.LogFilePath)

	// --- Create and Run App ---
	gestureApp, err := app.NewApp(cfg)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		_ = logger.Close()
		stlog.Fatalf("%s: %v", config.AppName, err)
	}

	if err := gestureApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		_ = logger.Close()
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
