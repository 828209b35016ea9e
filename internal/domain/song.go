// Package domain contains the core business entities and domain logic for the Polyphony lyric library.
package domain

import (
	"fmt"
	"time"
)

// Difficulty classifies how hard a song's lyrics are for a language learner.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Valid returns true if d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// ParseDifficulty converts a string into a Difficulty, rejecting unknown values.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("invalid difficulty: %q (must be beginner, intermediate, or advanced)", s)
	}
	return d, nil
}

// Song represents a track with synchronized, translated lyrics.
type Song struct {
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ID          string     `json:"id"`
	TrackID     string     `json:"track_id"` // Natural key from the upstream catalog
	Title       string     `json:"title"`
	Artist      string     `json:"artist"`
	Album       string     `json:"album,omitempty"`
	AlbumArtURL string     `json:"album_art_url,omitempty"`
	AudioURL    string     `json:"audio_url,omitempty"`
	Language    string     `json:"language"` // BCP 47 code of the original lyrics: "es", "fr"
	Difficulty  Difficulty `json:"difficulty"`
	LineCount   int        `json:"line_count"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (s *Song) Touch() {
	s.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new song.
func (s *Song) InitTimestamps() {
	now := time.Now()
	s.CreatedAt = now
	s.UpdatedAt = now
}

// SongWithLyrics bundles a song with its ordered lyric lines.
type SongWithLyrics struct {
	Song
	Lyrics []LyricLine `json:"lyrics"`
}
