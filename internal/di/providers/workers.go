package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/polyphonyapp/polyphony-server/internal/config"
	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
	"github.com/polyphonyapp/polyphony-server/internal/watcher"
)

// ManifestWatcherHandle wraps the manifest watcher with shutdown capability.
// The watcher is nil when no watch path is configured.
type ManifestWatcherHandle struct {
	*watcher.ManifestWatcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ManifestWatcherHandle) Shutdown() error {
	if h.ManifestWatcher == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideManifestWatcher provides the import manifest watcher.
func ProvideManifestWatcher(i do.Injector) (*ManifestWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	pipeline := do.MustInvoke[*ingest.Pipeline](i)

	if cfg.Import.WatchPath == "" {
		log.Info("Import watcher disabled - no watch path configured")
		return &ManifestWatcherHandle{}, nil
	}

	w, err := watcher.New(cfg.Import.WatchPath, pipeline, watcher.DefaultSettleDelay, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		return nil, err
	}

	return &ManifestWatcherHandle{
		ManifestWatcher: w,
		cancel:          cancel,
	}, nil
}
