package providers

import (
	"context"
	"strings"

	"github.com/samber/do/v2"

	"github.com/polyphonyapp/polyphony-server/internal/config"
	"github.com/polyphonyapp/polyphony-server/internal/logger"
	"github.com/polyphonyapp/polyphony-server/internal/search"
	"github.com/polyphonyapp/polyphony-server/internal/store/sqlite"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SongIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index, wired to the store so
// song writes keep the index current.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewSongIndex(search.Options{
		DataPath: cfg.Storage.DataPath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSongIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SongIndex: index}, nil
}

// TriggerSearchReindexIfNeeded repopulates an empty index from the catalog.
// Happens after a mapping version bump or index corruption recovery.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	songs, err := storeHandle.ListSongs(ctx, sqlite.ListFilter{})
	if err != nil || len(songs) == 0 {
		return
	}

	log.Info("Search index is empty but songs exist, triggering reindex",
		"song_count", len(songs),
	)

	go func() {
		docs := make([]*search.SongDocument, len(songs))
		for i := range songs {
			docs[i] = search.FromSong(&songs[i])
			lines, err := storeHandle.GetLyrics(ctx, songs[i].ID)
			if err != nil {
				log.Warn("Reindex could not load lyrics", "song_id", songs[i].ID, "error", err)
				continue
			}
			originals := make([]string, len(lines))
			for j, line := range lines {
				originals[j] = line.OriginalText
			}
			docs[i].Lyrics = strings.Join(originals, "\n")
		}
		if err := indexHandle.IndexDocuments(docs); err != nil {
			log.Error("Search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Search reindex completed", "documents", count)
	}()
}
