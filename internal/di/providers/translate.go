package providers

import (
	"github.com/samber/do/v2"

	"github.com/polyphonyapp/polyphony-server/internal/config"
	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/service"
	"github.com/polyphonyapp/polyphony-server/internal/translate"
)

// ProvideTranslator provides the DeepL translation client.
func ProvideTranslator(i do.Injector) (translate.Translator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var opts []translate.DeepLOption
	if cfg.Translate.DeepLAPIURL != "" {
		opts = append(opts, translate.WithBaseURL(cfg.Translate.DeepLAPIURL))
	}

	client := translate.NewDeepLClient(cfg.Translate.DeepLAPIKey, log.Logger, opts...)

	if cfg.Translate.DeepLAPIKey == "" {
		log.Warn("DeepL API key not configured - imports must request parse-only mode")
	} else {
		log.Info("Translation client initialized", "engine", client.Name())
	}

	return client, nil
}

// ProvideLyricsClient provides the LRCLIB lyrics lookup client.
func ProvideLyricsClient(i do.Injector) (*lrclib.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return lrclib.NewClient(cfg.LRCLib.BaseURL, log.Logger), nil
}

// ProvideIngestPipeline provides the song ingestion pipeline.
func ProvideIngestPipeline(i do.Injector) (*ingest.Pipeline, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	translator := do.MustInvoke[translate.Translator](i)

	return ingest.NewPipeline(storeHandle.Store, translator, indexHandle.SongIndex, cfg.Translate.TargetLang, log.Logger), nil
}

// ProvideSongService provides the song catalog service.
func ProvideSongService(i do.Injector) (*service.SongService, error) {
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	return service.NewSongService(storeHandle.Store, log.Logger), nil
}

// ProvideVocabService provides the vocabulary lookup service.
func ProvideVocabService(i do.Injector) (*service.VocabService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	translator := do.MustInvoke[translate.Translator](i)

	return service.NewVocabService(translator, cfg.Translate.TargetLang, log.Logger), nil
}
