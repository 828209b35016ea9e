// Package store defines persistence-layer contracts shared by storage backends.
package store

import (
	"context"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
)

// ErrSongNotFound is returned when a song lookup matches no row.
var ErrSongNotFound = apperrors.NotFound("song not found")

// SongIndexer is the interface for updating the search index.
// The store uses this to keep search in sync without depending on the
// search implementation. lyrics carries the song's original-language
// text so lyric words are searchable.
type SongIndexer interface {
	IndexSong(ctx context.Context, song *domain.Song, lyrics string) error
	DeleteSong(ctx context.Context, songID string) error
}

// NoopIndexer is a no-op implementation for testing and for running
// without search.
type NoopIndexer struct{}

// IndexSong is a no-op.
func (NoopIndexer) IndexSong(context.Context, *domain.Song, string) error { return nil }

// DeleteSong is a no-op.
func (NoopIndexer) DeleteSong(context.Context, string) error { return nil }

// NewNoopIndexer creates a new no-op indexer.
func NewNoopIndexer() SongIndexer {
	return NoopIndexer{}
}
