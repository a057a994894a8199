package app

import (
	"context"
	"strings"

	"github.com/bethropolis/mgesture/internal/config"
	"github.com/bethropolis/mgesture/internal/logger"
	"github.com/bethropolis/mgesture/internal/store"
)

// buildTiers creates the sync and local file tiers and returns them with the
// files they keep the gesture override in. A tier whose directory cannot be
// resolved is skipped; with none left the override lives in memory only.
func buildTiers(cfg config.StorageConfig) ([]store.Tier, []string) {
	var tiers []store.Tier
	var paths []string

	add := func(source store.Source, dir string, resolve func() (string, error), codec store.Codec) {
		if dir == "" {
			var err error
			if dir, err = resolve(); err != nil {
				logger.Warnf("Skipping %s storage: %v", source, err)
				return
			}
		}
		tier := store.NewFileTier(source, dir, codec)
		tiers = append(tiers, tier)
		paths = append(paths, tier.Path(store.ConfigKey))
		logger.Debugf("Storage tier %s at %s", source, tier.Path(store.ConfigKey))
	}

	var syncCodec store.Codec = store.YAMLCodec{}
	if strings.EqualFold(cfg.SyncFormat, "json") {
		syncCodec = store.JSONCodec{}
	}
	add(store.SourceSync, cfg.SyncDir, store.DefaultSyncDir, syncCodec)
	add(store.SourceLocal, cfg.LocalDir, store.DefaultLocalDir, store.JSONCodec{})

	if len(tiers) == 0 {
		logger.Warnf("No storage directory available; gesture changes will not persist")
		tiers = append(tiers, store.NewMemory(store.SourceLocal))
	}
	return tiers, paths
}

// reloadFromStorage re-reads the stored override. It runs on the watcher's
// goroutine as well as from the reload command.
func (a *App) reloadFromStorage() {
	ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
	defer cancel()

	cfg, err := a.loader.Reload(ctx)
	if err != nil {
		logger.Errorf("Reloading gestures failed: %v", err)
		a.statusBar.SetErrorMessage("Reload failed: %v", err)
		a.requestRedraw()
		return
	}
	a.SetStatusMessage("Reloaded %d gesture(s)", len(cfg.Gestures))
}
