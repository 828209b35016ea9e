// Package search provides full-text song search using Bleve.
// It supports fuzzy matching on titles and artists plus exact filtering
// on language and difficulty.
package search

import (
	"github.com/polyphonyapp/polyphony-server/internal/domain"
)

// SongDocument is the document structure for the Bleve index.
//
// Lyrics text is indexed but not stored; results carry only the song
// metadata and the store remains the source of truth for full lyrics.
type SongDocument struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Album      string `json:"album,omitempty"`
	Lyrics     string `json:"lyrics,omitempty"` // original-language text, newline joined
	Language   string `json:"language"`
	Difficulty string `json:"difficulty"`
	CreatedAt  int64  `json:"created_at"` // Unix millis
	UpdatedAt  int64  `json:"updated_at"` // Unix millis
}

// FromSong builds a search document from a song. Lyrics text is added
// separately by the caller when available.
func FromSong(song *domain.Song) *SongDocument {
	return &SongDocument{
		ID:         song.ID,
		Title:      song.Title,
		Artist:     song.Artist,
		Album:      song.Album,
		Language:   song.Language,
		Difficulty: string(song.Difficulty),
		CreatedAt:  song.CreatedAt.UnixMilli(),
		UpdatedAt:  song.UpdatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *SongDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"artist":     d.Artist,
		"language":   d.Language,
		"difficulty": d.Difficulty,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
	if d.Album != "" {
		m["album"] = d.Album
	}
	if d.Lyrics != "" {
		m["lyrics"] = d.Lyrics
	}
	return m
}
