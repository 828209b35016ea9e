package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
	"github.com/polyphonyapp/polyphony-server/internal/store"
)

// makeTestSong creates a domain.Song with sensible defaults for testing.
func makeTestSong(id, trackID, title string) *domain.Song {
	now := time.Now()
	return &domain.Song{
		ID:         id,
		TrackID:    trackID,
		Title:      title,
		Artist:     "Juanes",
		Album:      "Mi Sangre",
		Language:   "es",
		Difficulty: domain.DifficultyIntermediate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestUpsertAndGetSong(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := makeTestSong("song-1", "spotify:track:abc", "La Camisa Negra")
	song.AlbumArtURL = "https://example.com/art.jpg"
	song.AudioURL = "https://example.com/audio.mp3"

	id, err := s.UpsertSong(ctx, song)
	if err != nil {
		t.Fatalf("upsert song: %v", err)
	}
	if id != "song-1" {
		t.Errorf("id = %q, want song-1", id)
	}

	got, err := s.GetSong(ctx, "song-1")
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if got.Title != "La Camisa Negra" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Artist != "Juanes" {
		t.Errorf("artist = %q", got.Artist)
	}
	if got.AlbumArtURL != "https://example.com/art.jpg" {
		t.Errorf("album art = %q", got.AlbumArtURL)
	}
	if got.Language != "es" {
		t.Errorf("language = %q", got.Language)
	}
	if got.Difficulty != domain.DifficultyIntermediate {
		t.Errorf("difficulty = %q", got.Difficulty)
	}
	if got.LineCount != 0 {
		t.Errorf("line count = %d, want 0", got.LineCount)
	}
}

func TestUpsertSong_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := makeTestSong("song-1", "spotify:track:abc", "La Camisa Negra")
	if _, err := s.UpsertSong(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Same track, new generated ID: the original row must win.
	second := makeTestSong("song-2", "spotify:track:abc", "La Camisa Negra (Remastered)")
	second.AudioURL = "https://example.com/new.mp3"
	second.Language = "fr"                        // must not change
	second.Difficulty = domain.DifficultyBeginner // must not change

	id, err := s.UpsertSong(ctx, second)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if id != "song-1" {
		t.Errorf("id = %q, want original song-1", id)
	}
	if second.ID != "song-1" {
		t.Errorf("song.ID = %q, want rewritten to song-1", second.ID)
	}

	got, err := s.GetSong(ctx, "song-1")
	if err != nil {
		t.Fatalf("get song: %v", err)
	}
	if got.Title != "La Camisa Negra (Remastered)" {
		t.Errorf("title not refreshed: %q", got.Title)
	}
	if got.AudioURL != "https://example.com/new.mp3" {
		t.Errorf("audio url not refreshed: %q", got.AudioURL)
	}
	if got.Language != "es" {
		t.Errorf("language changed on re-import: %q", got.Language)
	}
	if got.Difficulty != domain.DifficultyIntermediate {
		t.Errorf("difficulty changed on re-import: %q", got.Difficulty)
	}

	songs, err := s.ListSongs(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list songs: %v", err)
	}
	if len(songs) != 1 {
		t.Errorf("song count = %d, want 1", len(songs))
	}
}

func TestGetSong_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetSong(context.Background(), "missing")
	if !errors.Is(err, store.ErrSongNotFound) {
		t.Errorf("err = %v, want ErrSongNotFound", err)
	}
}

func TestGetSongByTrackID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := makeTestSong("song-1", "spotify:track:abc", "La Camisa Negra")
	if _, err := s.UpsertSong(ctx, song); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetSongByTrackID(ctx, "spotify:track:abc")
	if err != nil {
		t.Fatalf("get by track id: %v", err)
	}
	if got.ID != "song-1" {
		t.Errorf("id = %q", got.ID)
	}

	if _, err := s.GetSongByTrackID(ctx, "spotify:track:other"); !errors.Is(err, store.ErrSongNotFound) {
		t.Errorf("err = %v, want ErrSongNotFound", err)
	}
}

func TestListSongs_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	spanish := makeTestSong("song-1", "track-1", "La Camisa Negra")
	french := makeTestSong("song-2", "track-2", "La Vie en Rose")
	french.Artist = "Édith Piaf"
	french.Language = "fr"
	french.Difficulty = domain.DifficultyAdvanced

	for _, song := range []*domain.Song{spanish, french} {
		if _, err := s.UpsertSong(ctx, song); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	all, err := s.ListSongs(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all count = %d, want 2", len(all))
	}
	// Ordered by artist.
	if all[0].Artist != "Juanes" {
		t.Errorf("first artist = %q, want Juanes", all[0].Artist)
	}

	fr, err := s.ListSongs(ctx, ListFilter{Language: "fr"})
	if err != nil {
		t.Fatalf("list fr: %v", err)
	}
	if len(fr) != 1 || fr[0].ID != "song-2" {
		t.Errorf("fr filter returned %v", fr)
	}

	both, err := s.ListSongs(ctx, ListFilter{Language: "fr", Difficulty: domain.DifficultyAdvanced})
	if err != nil {
		t.Fatalf("list fr+advanced: %v", err)
	}
	if len(both) != 1 {
		t.Errorf("combined filter count = %d, want 1", len(both))
	}

	none, err := s.ListSongs(ctx, ListFilter{Language: "de"})
	if err != nil {
		t.Fatalf("list de: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("de filter count = %d, want 0", len(none))
	}
}

func TestDeleteSong(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	song := makeTestSong("song-1", "track-1", "La Camisa Negra")
	if _, err := s.UpsertSong(ctx, song); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.ReplaceLyrics(ctx, "song-1", []domain.LyricLine{
		{LineNumber: 1, TimestampMs: 19500, OriginalText: "Tengo la camisa negra", TranslatedText: "I have the black shirt"},
	}); err != nil {
		t.Fatalf("replace lyrics: %v", err)
	}

	if err := s.DeleteSong(ctx, "song-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.GetSong(ctx, "song-1"); !errors.Is(err, store.ErrSongNotFound) {
		t.Errorf("song still present after delete")
	}

	// Cascade removes the lyrics too.
	lines, err := s.GetLyrics(ctx, "song-1")
	if err != nil {
		t.Fatalf("get lyrics: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("lyric count after delete = %d, want 0", len(lines))
	}
}

func TestDeleteSong_NotFound(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteSong(context.Background(), "missing"); !errors.Is(err, store.ErrSongNotFound) {
		t.Errorf("err = %v, want ErrSongNotFound", err)
	}
}
