package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importSong",
		Method:      http.MethodPost,
		Path:        "/api/v1/songs/import",
		Summary:     "Import song",
		Description: "Ingests a song from raw LRC text, translating the lyrics",
		Tags:        []string{"Import"},
	}, s.handleImportSong)

	huma.Register(s.api, huma.Operation{
		OperationID: "importSongAuto",
		Method:      http.MethodPost,
		Path:        "/api/v1/songs/import/auto",
		Summary:     "Import song with fetched lyrics",
		Description: "Fetches synced lyrics from LRCLIB by track metadata, then ingests the song",
		Tags:        []string{"Import"},
	}, s.handleImportSongAuto)
}

// ImportRequest is the request body for importing a song.
type ImportRequest struct {
	TrackID     string `json:"track_id" doc:"External track identifier"`
	Title       string `json:"title" doc:"Song title"`
	Artist      string `json:"artist" doc:"Artist name"`
	Album       string `json:"album,omitempty" doc:"Album name"`
	AlbumArtURL string `json:"album_art_url,omitempty" doc:"Album art URL"`
	AudioURL    string `json:"audio_url,omitempty" doc:"Audio stream URL"`
	Language    string `json:"language" doc:"Lyric language code"`
	Difficulty  string `json:"difficulty" doc:"Difficulty level: beginner, intermediate, or advanced"`
	RawLyrics   string `json:"raw_lyrics" doc:"Raw LRC-format lyric text"`
	TargetLang  string `json:"target_lang,omitempty" doc:"Override translation target language"`
	ParseOnly   bool   `json:"parse_only,omitempty" doc:"Skip translation, keep original text"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// AutoImportRequest is the request body for importing with fetched lyrics.
type AutoImportRequest struct {
	TrackID     string `json:"track_id" doc:"External track identifier"`
	Title       string `json:"title" doc:"Song title, used for the lyric lookup"`
	Artist      string `json:"artist" doc:"Artist name, used for the lyric lookup"`
	Album       string `json:"album,omitempty" doc:"Album name, used for the lyric lookup"`
	AlbumArtURL string `json:"album_art_url,omitempty" doc:"Album art URL"`
	AudioURL    string `json:"audio_url,omitempty" doc:"Audio stream URL"`
	Language    string `json:"language" doc:"Lyric language code"`
	Difficulty  string `json:"difficulty" doc:"Difficulty level: beginner, intermediate, or advanced"`
	TargetLang  string `json:"target_lang,omitempty" doc:"Override translation target language"`
	ParseOnly   bool   `json:"parse_only,omitempty" doc:"Skip translation, keep original text"`
}

// AutoImportInput wraps the auto import request for Huma.
type AutoImportInput struct {
	Body AutoImportRequest
}

// ImportResponse contains the result of an import.
type ImportResponse struct {
	SongID    string `json:"song_id" doc:"ID of the ingested song"`
	LineCount int    `json:"line_count" doc:"Number of lyric lines stored"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

func (s *Server) handleImportSong(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	result, err := s.pipeline.Ingest(ctx, &ingest.Request{
		TrackID:     input.Body.TrackID,
		Title:       input.Body.Title,
		Artist:      input.Body.Artist,
		Album:       input.Body.Album,
		AlbumArtURL: input.Body.AlbumArtURL,
		AudioURL:    input.Body.AudioURL,
		Language:    input.Body.Language,
		Difficulty:  input.Body.Difficulty,
		RawLyrics:   input.Body.RawLyrics,
		TargetLang:  input.Body.TargetLang,
		ParseOnly:   input.Body.ParseOnly,
	})
	if err != nil {
		return nil, err
	}

	return &ImportOutput{
		Body: ImportResponse{SongID: result.SongID, LineCount: result.LineCount},
	}, nil
}

func (s *Server) handleImportSongAuto(ctx context.Context, input *AutoImportInput) (*ImportOutput, error) {
	if s.lyrics == nil {
		return nil, apperrors.Internal("lyric lookup not configured")
	}

	synced, err := s.lyrics.GetSyncedLyrics(ctx, input.Body.Title, input.Body.Artist, input.Body.Album)
	if err != nil {
		if errors.Is(err, lrclib.ErrNotFound) {
			return nil, apperrors.NotFound("track not found in lyrics catalog")
		}
		if errors.Is(err, lrclib.ErrNoSyncedLyrics) {
			return nil, apperrors.NotFound("no synced lyrics available for this track")
		}
		return nil, err
	}

	result, err := s.pipeline.Ingest(ctx, &ingest.Request{
		TrackID:     input.Body.TrackID,
		Title:       input.Body.Title,
		Artist:      input.Body.Artist,
		Album:       input.Body.Album,
		AlbumArtURL: input.Body.AlbumArtURL,
		AudioURL:    input.Body.AudioURL,
		Language:    input.Body.Language,
		Difficulty:  input.Body.Difficulty,
		RawLyrics:   synced,
		TargetLang:  input.Body.TargetLang,
		ParseOnly:   input.Body.ParseOnly,
	})
	if err != nil {
		return nil, err
	}

	return &ImportOutput{
		Body: ImportResponse{SongID: result.SongID, LineCount: result.LineCount},
	}, nil
}
