package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/polyphonyapp/polyphony-server/internal/api"
	"github.com/polyphonyapp/polyphony-server/internal/config"
	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/service"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	pipeline := do.MustInvoke[*ingest.Pipeline](i)
	lyrics := do.MustInvoke[*lrclib.Client](i)

	services := &api.Services{
		Song:  do.MustInvoke[*service.SongService](i),
		Vocab: do.MustInvoke[*service.VocabService](i),
	}

	handler := api.NewServer(storeHandle.Store, services, pipeline, lyrics, indexHandle.SongIndex, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "name", cfg.Server.Name)

	return &HTTPServerHandle{Server: srv}, nil
}
