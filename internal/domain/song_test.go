package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  Difficulty
		valid bool
	}{
		{"beginner", DifficultyBeginner, true},
		{"intermediate", DifficultyIntermediate, true},
		{"advanced", DifficultyAdvanced, true},
		{"expert", "", false},
		{"Beginner", "", false}, // case sensitive
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSong_InitTimestamps(t *testing.T) {
	song := &Song{
		ID:         "song-123",
		TrackID:    "spotify:track:abc",
		Title:      "La Camisa Negra",
		Artist:     "Juanes",
		Language:   "es",
		Difficulty: DifficultyIntermediate,
	}
	song.InitTimestamps()

	assert.False(t, song.CreatedAt.IsZero())
	assert.Equal(t, song.CreatedAt, song.UpdatedAt)

	before := song.UpdatedAt
	song.Touch()
	assert.False(t, song.UpdatedAt.Before(before))
}
