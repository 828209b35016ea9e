package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/search"
	"github.com/polyphonyapp/polyphony-server/internal/service"
	"github.com/polyphonyapp/polyphony-server/internal/store/sqlite"
)

// testEnvelope decodes successful API envelope responses.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope decodes structured API error responses.
type testErrorEnvelope struct {
	Version int    `json:"v"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// stubTranslator returns "[target] text" for every translatable input.
type stubTranslator struct{}

func (s *stubTranslator) TranslateBatch(_ context.Context, texts []string, _, targetLang string) ([]string, error) {
	translated := make([]string, len(texts))
	for i, text := range texts {
		translated[i] = "[" + targetLang + "] " + text
	}
	return translated, nil
}

func (s *stubTranslator) TranslateWord(_ context.Context, word, _, targetLang string) (string, error) {
	return "[" + targetLang + "] " + word, nil
}

func (s *stubTranslator) Name() string { return "stub" }

const sampleLRC = "[00:12.00]Hola mundo\n[00:17.50]Adiós amigo\n[00:21.10]¡!\n"

// testServer wraps the API server for handler testing.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired test server with a stub translator.
// The lyrics base URL may be empty; auto import then has no lookup source.
func setupTestServer(t *testing.T, lyricsBaseURL string) *testServer {
	t.Helper()

	tmpDir := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(tmpDir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSongIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "index"),
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	st.SetSongIndexer(idx)

	translator := &stubTranslator{}
	pipeline := ingest.NewPipeline(st, translator, idx, "en", logger)

	services := &Services{
		Song:  service.NewSongService(st, logger),
		Vocab: service.NewVocabService(translator, "en", logger),
	}

	var lyrics *lrclib.Client
	if lyricsBaseURL != "" {
		lyrics = lrclib.NewClient(lyricsBaseURL, logger)
	}

	s := NewServer(st, services, pipeline, lyrics, idx, logger)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// importSong imports a song through the API and returns its ID.
func (ts *testServer) importSong(t *testing.T, trackID, title, language string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/songs/import", map[string]any{
		"track_id":   trackID,
		"title":      title,
		"artist":     "Test Artist",
		"language":   language,
		"difficulty": "beginner",
		"raw_lyrics": sampleLRC,
	})
	require.Equal(t, http.StatusOK, resp.Code, "import failed: %s", resp.Body.String())

	var envelope testEnvelope[ImportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.SongID)
	return envelope.Data.SongID
}

// === Tests ===

func TestImportSong_Success(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Post("/api/v1/songs/import", map[string]any{
		"track_id":   "spotify:track:abc123",
		"title":      "Despacito",
		"artist":     "Luis Fonsi",
		"language":   "es",
		"difficulty": "beginner",
		"raw_lyrics": sampleLRC,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ImportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.True(t, envelope.Success)
	assert.True(t, strings.HasPrefix(envelope.Data.SongID, "song-"))
	assert.Equal(t, 3, envelope.Data.LineCount)
}

func TestImportSong_MissingTitleRejected(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Post("/api/v1/songs/import", map[string]any{
		"track_id":   "spotify:track:abc123",
		"artist":     "Luis Fonsi",
		"language":   "es",
		"difficulty": "beginner",
		"raw_lyrics": sampleLRC,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestImportSong_InvalidDifficulty(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Post("/api/v1/songs/import", map[string]any{
		"track_id":   "spotify:track:abc123",
		"title":      "Despacito",
		"artist":     "Luis Fonsi",
		"language":   "es",
		"difficulty": "expert",
		"raw_lyrics": sampleLRC,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
	assert.Contains(t, envelope.Message, "difficulty")
}

func TestListSongs_FiltersByLanguage(t *testing.T) {
	ts := setupTestServer(t, "")

	ts.importSong(t, "track-es", "Spanish Song", "es")
	ts.importSong(t, "track-fr", "French Song", "fr")

	resp := ts.api.Get("/api/v1/songs?language=es")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListSongsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, 1, envelope.Data.Total)
	assert.Equal(t, "Spanish Song", envelope.Data.Songs[0].Title)
	assert.Equal(t, "es", envelope.Data.Songs[0].Language)
}

func TestListSongs_InvalidDifficulty(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Get("/api/v1/songs?difficulty=extreme")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetSong_ReturnsLyricsInOrder(t *testing.T) {
	ts := setupTestServer(t, "")

	songID := ts.importSong(t, "track-1", "Despacito", "es")

	resp := ts.api.Get("/api/v1/songs/" + songID)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[SongWithLyricsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Lyrics, 3)

	first := envelope.Data.Lyrics[0]
	assert.Equal(t, 1, first.LineNumber)
	assert.Equal(t, 12000, first.TimestampMs)
	assert.Equal(t, "Hola mundo", first.OriginalText)
	assert.Equal(t, "[en] Hola mundo", first.TranslatedText)

	// Letterless line passes through untranslated
	last := envelope.Data.Lyrics[2]
	assert.Equal(t, "¡!", last.OriginalText)
	assert.Equal(t, "¡!", last.TranslatedText)
}

func TestGetSong_NotFound(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Get("/api/v1/songs/song-doesnotexist")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestGetActiveLine(t *testing.T) {
	ts := setupTestServer(t, "")

	songID := ts.importSong(t, "track-1", "Despacito", "es")

	// Before the first line
	resp := ts.api.Get("/api/v1/songs/" + songID + "/active-line?position_ms=5000")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ActiveLineResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, -1, envelope.Data.Index)
	assert.Nil(t, envelope.Data.Line)

	// Mid-song
	resp = ts.api.Get("/api/v1/songs/" + songID + "/active-line?position_ms=18000")
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Index)
	require.NotNil(t, envelope.Data.Line)
	assert.Equal(t, "Adiós amigo", envelope.Data.Line.OriginalText)

	// Past the last line, which stays active
	resp = ts.api.Get("/api/v1/songs/" + songID + "/active-line?position_ms=500000")
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Index)
}

func TestDeleteSong(t *testing.T) {
	ts := setupTestServer(t, "")

	songID := ts.importSong(t, "track-1", "Despacito", "es")

	resp := ts.api.Delete("/api/v1/songs/" + songID)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/songs/" + songID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestSearchSongs(t *testing.T) {
	ts := setupTestServer(t, "")

	songID := ts.importSong(t, "track-1", "Despacito", "es")

	resp := ts.api.Get("/api/v1/search?q=Despacito")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.SearchResult]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Hits)
	assert.Equal(t, songID, envelope.Data.Hits[0].ID)
	assert.Equal(t, "Despacito", envelope.Data.Hits[0].Title)
}

func TestSearchSongs_FiltersByDifficulty(t *testing.T) {
	ts := setupTestServer(t, "")

	ts.importSong(t, "track-1", "Despacito", "es")

	resp := ts.api.Get("/api/v1/search?q=Despacito&difficulty=advanced")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.SearchResult]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Empty(t, envelope.Data.Hits)
}

func TestSearchSongs_MatchesLyricText(t *testing.T) {
	ts := setupTestServer(t, "")

	songID := ts.importSong(t, "track-1", "Despacito", "es")

	// "mundo" appears only in the lyric lines, never in the metadata.
	resp := ts.api.Get("/api/v1/search?q=mundo")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[search.SearchResult]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.Hits)
	assert.Equal(t, songID, envelope.Data.Hits[0].ID)
}

func TestTranslateWord(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Post("/api/v1/translate/word", map[string]any{
		"word":        "hola",
		"source_lang": "es",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[TranslateWordResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "hola", envelope.Data.Word)
	assert.Equal(t, "[en] hola", envelope.Data.Translation)
	assert.Equal(t, "en", envelope.Data.TargetLang)
}

func TestTranslateWord_EmptyWordRejected(t *testing.T) {
	ts := setupTestServer(t, "")

	resp := ts.api.Post("/api/v1/translate/word", map[string]any{
		"word":        "   ",
		"source_lang": "es",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestImportSongAuto(t *testing.T) {
	lyricsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           42,
			"trackName":    "Despacito",
			"artistName":   "Luis Fonsi",
			"syncedLyrics": sampleLRC,
		})
	}))
	defer lyricsServer.Close()

	ts := setupTestServer(t, lyricsServer.URL)

	resp := ts.api.Post("/api/v1/songs/import/auto", map[string]any{
		"track_id":   "spotify:track:abc123",
		"title":      "Despacito",
		"artist":     "Luis Fonsi",
		"language":   "es",
		"difficulty": "beginner",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ImportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 3, envelope.Data.LineCount)
}

func TestImportSongAuto_Instrumental(t *testing.T) {
	lyricsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":           43,
			"trackName":    "Interlude",
			"artistName":   "Some Band",
			"instrumental": true,
		})
	}))
	defer lyricsServer.Close()

	ts := setupTestServer(t, lyricsServer.URL)

	resp := ts.api.Post("/api/v1/songs/import/auto", map[string]any{
		"track_id":   "spotify:track:xyz789",
		"title":      "Interlude",
		"artist":     "Some Band",
		"language":   "es",
		"difficulty": "beginner",
	})
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestImportSongAuto_UnknownTrack(t *testing.T) {
	lyricsServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer lyricsServer.Close()

	ts := setupTestServer(t, lyricsServer.URL)

	resp := ts.api.Post("/api/v1/songs/import/auto", map[string]any{
		"track_id":   "spotify:track:unknown",
		"title":      "Nonexistent",
		"artist":     "Nobody",
		"language":   "es",
		"difficulty": "beginner",
	})
	require.Equal(t, http.StatusNotFound, resp.Code, resp.Body.String())

	var envelope testErrorEnvelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope.Code)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, "")

	// Empty search index reports degraded
	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "degraded", envelope.Data.Status)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)

	ts.importSong(t, "track-1", "Despacito", "es")

	resp = ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "healthy", envelope.Data.Status)
}
