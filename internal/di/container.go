// Package di provides dependency injection configuration for the Polyphony server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/polyphonyapp/polyphony-server/internal/config"
	"github.com/polyphonyapp/polyphony-server/internal/di/providers"
	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/service"
	"github.com/polyphonyapp/polyphony-server/internal/translate"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Translation layer
	do.Provide(injector, providers.ProvideTranslator)
	do.Provide(injector, providers.ProvideLyricsClient)

	// Ingestion
	do.Provide(injector, providers.ProvideIngestPipeline)

	// Business services
	do.Provide(injector, providers.ProvideSongService)
	do.Provide(injector, providers.ProvideVocabService)

	// Workers
	do.Provide(injector, providers.ProvideManifestWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[translate.Translator](injector)
	_ = do.MustInvoke[*lrclib.Client](injector)
	_ = do.MustInvoke[*ingest.Pipeline](injector)
	_ = do.MustInvoke[*service.SongService](injector)
	_ = do.MustInvoke[*service.VocabService](injector)
	_ = do.MustInvoke[*providers.ManifestWatcherHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Repopulate the search index if it was rebuilt
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
