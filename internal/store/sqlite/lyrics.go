package sqlite

import (
	"context"
	"fmt"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
)

// UpsertLyricLine inserts or replaces a single lyric line.
func (s *Store) UpsertLyricLine(ctx context.Context, line *domain.LyricLine) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lyric_lines (song_id, line_number, timestamp_ms, original_text, translated_text)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(song_id, line_number) DO UPDATE SET
			timestamp_ms = excluded.timestamp_ms,
			original_text = excluded.original_text,
			translated_text = excluded.translated_text`,
		line.SongID,
		line.LineNumber,
		line.TimestampMs,
		line.OriginalText,
		line.TranslatedText,
	)
	if err != nil {
		return fmt.Errorf("upsert lyric line %d: %w", line.LineNumber, err)
	}
	return nil
}

// DeleteLyricsForSong removes all lyric lines for a song.
// Called before re-import so a shorter lyric set leaves no stale tail.
func (s *Store) DeleteLyricsForSong(ctx context.Context, songID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM lyric_lines WHERE song_id = ?`, songID)
	if err != nil {
		return fmt.Errorf("delete lyrics: %w", err)
	}
	return nil
}

// ReplaceLyrics clears all lyric lines for a song and writes the new set.
// Lines are written individually; a failure part way through leaves the
// earlier lines in place.
func (s *Store) ReplaceLyrics(ctx context.Context, songID string, lines []domain.LyricLine) error {
	if err := s.DeleteLyricsForSong(ctx, songID); err != nil {
		return err
	}

	for i := range lines {
		lines[i].SongID = songID
		if err := s.UpsertLyricLine(ctx, &lines[i]); err != nil {
			return err
		}
	}

	return nil
}

// GetLyrics returns a song's lyric lines ordered by line number.
func (s *Store) GetLyrics(ctx context.Context, songID string) ([]domain.LyricLine, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id, line_number, timestamp_ms, original_text, translated_text
		FROM lyric_lines
		WHERE song_id = ?
		ORDER BY line_number`, songID)
	if err != nil {
		return nil, fmt.Errorf("get lyrics: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.LyricLine, 0)
	for rows.Next() {
		var line domain.LyricLine
		err := rows.Scan(
			&line.SongID,
			&line.LineNumber,
			&line.TimestampMs,
			&line.OriginalText,
			&line.TranslatedText,
		)
		if err != nil {
			return nil, fmt.Errorf("scan lyric line: %w", err)
		}
		lines = append(lines, line)
	}

	return lines, rows.Err()
}
