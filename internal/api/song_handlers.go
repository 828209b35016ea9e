package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
)

func (s *Server) registerSongRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listSongs",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs",
		Summary:     "List songs",
		Description: "Returns the song catalog, optionally filtered by language and difficulty",
		Tags:        []string{"Songs"},
	}, s.handleListSongs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSong",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs/{id}",
		Summary:     "Get song",
		Description: "Returns a song with its full synchronized lyric sheet",
		Tags:        []string{"Songs"},
	}, s.handleGetSong)

	huma.Register(s.api, huma.Operation{
		OperationID: "getActiveLine",
		Method:      http.MethodGet,
		Path:        "/api/v1/songs/{id}/active-line",
		Summary:     "Get active lyric line",
		Description: "Returns the lyric line active at the given playback position",
		Tags:        []string{"Songs"},
	}, s.handleGetActiveLine)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSong",
		Method:      http.MethodDelete,
		Path:        "/api/v1/songs/{id}",
		Summary:     "Delete song",
		Description: "Removes a song, its lyrics, and its search index entry",
		Tags:        []string{"Songs"},
	}, s.handleDeleteSong)
}

// SongResponse contains song data in API responses.
type SongResponse struct {
	ID          string    `json:"id" doc:"Song ID"`
	TrackID     string    `json:"track_id" doc:"External track identifier"`
	Title       string    `json:"title" doc:"Song title"`
	Artist      string    `json:"artist" doc:"Artist name"`
	Album       string    `json:"album,omitempty" doc:"Album name"`
	AlbumArtURL string    `json:"album_art_url,omitempty" doc:"Album art URL"`
	AudioURL    string    `json:"audio_url,omitempty" doc:"Audio stream URL"`
	Language    string    `json:"language" doc:"Lyric language code"`
	Difficulty  string    `json:"difficulty" doc:"Difficulty level"`
	LineCount   int       `json:"line_count" doc:"Number of lyric lines"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation timestamp"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update timestamp"`
}

// LyricLineResponse contains a single synchronized lyric line.
type LyricLineResponse struct {
	LineNumber     int    `json:"line_number" doc:"1-based line number"`
	TimestampMs    int    `json:"timestamp_ms" doc:"Start time in milliseconds"`
	OriginalText   string `json:"original_text" doc:"Line in the source language"`
	TranslatedText string `json:"translated_text" doc:"Line in the target language"`
}

// ListSongsInput contains query parameters for listing songs.
type ListSongsInput struct {
	Language   string `query:"language" doc:"Filter by language code"`
	Difficulty string `query:"difficulty" doc:"Filter by difficulty level"`
}

// ListSongsResponse contains the song catalog.
type ListSongsResponse struct {
	Songs []SongResponse `json:"songs" doc:"Songs matching the filters"`
	Total int            `json:"total" doc:"Number of songs returned"`
}

// ListSongsOutput wraps the list response for Huma.
type ListSongsOutput struct {
	Body ListSongsResponse
}

// GetSongInput contains parameters for getting a song.
type GetSongInput struct {
	ID string `path:"id" doc:"Song ID"`
}

// SongWithLyricsResponse contains a song and its lyric sheet.
type SongWithLyricsResponse struct {
	SongResponse
	Lyrics []LyricLineResponse `json:"lyrics" doc:"Synchronized lyric lines in playback order"`
}

// SongWithLyricsOutput wraps the song detail response for Huma.
type SongWithLyricsOutput struct {
	Body SongWithLyricsResponse
}

// GetActiveLineInput contains parameters for the active line lookup.
type GetActiveLineInput struct {
	ID         string `path:"id" doc:"Song ID"`
	PositionMs int    `query:"position_ms" doc:"Playback position in milliseconds"`
}

// ActiveLineResponse contains the line active at a playback position.
type ActiveLineResponse struct {
	SongID     string             `json:"song_id" doc:"Song ID"`
	PositionMs int                `json:"position_ms" doc:"Queried playback position"`
	Index      int                `json:"index" doc:"Active line index, -1 before the first line"`
	Line       *LyricLineResponse `json:"line,omitempty" doc:"Active line, absent before the first line"`
}

// ActiveLineOutput wraps the active line response for Huma.
type ActiveLineOutput struct {
	Body ActiveLineResponse
}

// DeleteSongInput contains parameters for deleting a song.
type DeleteSongInput struct {
	ID string `path:"id" doc:"Song ID"`
}

// MessageResponse contains a simple confirmation message.
type MessageResponse struct {
	Message string `json:"message" doc:"Confirmation message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

func songToResponse(song *domain.Song) SongResponse {
	return SongResponse{
		ID:          song.ID,
		TrackID:     song.TrackID,
		Title:       song.Title,
		Artist:      song.Artist,
		Album:       song.Album,
		AlbumArtURL: song.AlbumArtURL,
		AudioURL:    song.AudioURL,
		Language:    song.Language,
		Difficulty:  string(song.Difficulty),
		LineCount:   song.LineCount,
		CreatedAt:   song.CreatedAt,
		UpdatedAt:   song.UpdatedAt,
	}
}

func lyricToResponse(line *domain.LyricLine) LyricLineResponse {
	return LyricLineResponse{
		LineNumber:     line.LineNumber,
		TimestampMs:    line.TimestampMs,
		OriginalText:   line.OriginalText,
		TranslatedText: line.TranslatedText,
	}
}

func (s *Server) handleListSongs(ctx context.Context, input *ListSongsInput) (*ListSongsOutput, error) {
	songs, err := s.services.Song.ListSongs(ctx, input.Language, input.Difficulty)
	if err != nil {
		return nil, err
	}

	resp := make([]SongResponse, len(songs))
	for i := range songs {
		resp[i] = songToResponse(&songs[i])
	}

	return &ListSongsOutput{Body: ListSongsResponse{Songs: resp, Total: len(resp)}}, nil
}

func (s *Server) handleGetSong(ctx context.Context, input *GetSongInput) (*SongWithLyricsOutput, error) {
	song, err := s.services.Song.GetSong(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	lyrics := make([]LyricLineResponse, len(song.Lyrics))
	for i := range song.Lyrics {
		lyrics[i] = lyricToResponse(&song.Lyrics[i])
	}

	return &SongWithLyricsOutput{
		Body: SongWithLyricsResponse{
			SongResponse: songToResponse(&song.Song),
			Lyrics:       lyrics,
		},
	}, nil
}

func (s *Server) handleGetActiveLine(ctx context.Context, input *GetActiveLineInput) (*ActiveLineOutput, error) {
	result, err := s.services.Song.ActiveLine(ctx, input.ID, input.PositionMs)
	if err != nil {
		return nil, err
	}

	resp := ActiveLineResponse{
		SongID:     result.SongID,
		PositionMs: result.PositionMs,
		Index:      result.Index,
	}
	if result.Line != nil {
		line := lyricToResponse(result.Line)
		resp.Line = &line
	}

	return &ActiveLineOutput{Body: resp}, nil
}

func (s *Server) handleDeleteSong(ctx context.Context, input *DeleteSongInput) (*MessageOutput, error) {
	if err := s.services.Song.DeleteSong(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "song deleted"}}, nil
}
