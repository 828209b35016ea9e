// Package service contains the application services between the HTTP
// layer and storage.
package service

import (
	"context"
	"log/slog"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/store/sqlite"
)

// SongService handles song catalog reads and deletion.
type SongService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewSongService creates a new song service.
func NewSongService(store *sqlite.Store, logger *slog.Logger) *SongService {
	return &SongService{
		store:  store,
		logger: logger,
	}
}

// ListSongs returns songs, optionally filtered by language and difficulty.
func (s *SongService) ListSongs(ctx context.Context, language, difficulty string) ([]domain.Song, error) {
	filter := sqlite.ListFilter{Language: language}

	if difficulty != "" {
		d, err := domain.ParseDifficulty(difficulty)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		filter.Difficulty = d
	}

	return s.store.ListSongs(ctx, filter)
}

// GetSong returns a song with its ordered lyric lines.
func (s *SongService) GetSong(ctx context.Context, id string) (*domain.SongWithLyrics, error) {
	if id == "" {
		return nil, apperrors.Validation("song id is required")
	}
	return s.store.GetSongWithLyrics(ctx, id)
}

// ActiveLineResult reports which lyric line is active at a playback position.
type ActiveLineResult struct {
	Line       *domain.LyricLine `json:"line,omitempty"`
	SongID     string            `json:"song_id"`
	PositionMs int               `json:"position_ms"`
	Index      int               `json:"index"`
}

// ActiveLine computes the active lyric line for a song at positionMs.
// Index is -1 when playback has not reached the first line, and Line is
// nil in that case.
func (s *SongService) ActiveLine(ctx context.Context, songID string, positionMs int) (*ActiveLineResult, error) {
	if positionMs < 0 {
		return nil, apperrors.Validation("position_ms must not be negative")
	}

	song, err := s.store.GetSongWithLyrics(ctx, songID)
	if err != nil {
		return nil, err
	}

	result := &ActiveLineResult{
		SongID:     songID,
		PositionMs: positionMs,
		Index:      domain.ActiveLineIndex(song.Lyrics, positionMs),
	}
	if result.Index >= 0 {
		line := song.Lyrics[result.Index]
		result.Line = &line
	}

	return result, nil
}

// DeleteSong removes a song and its lyrics.
func (s *SongService) DeleteSong(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.Validation("song id is required")
	}

	if err := s.store.DeleteSong(ctx, id); err != nil {
		return err
	}

	s.logger.Info("deleted song", "song_id", id)
	return nil
}
