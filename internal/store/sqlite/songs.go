package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
	"github.com/polyphonyapp/polyphony-server/internal/store"
)

// songColumns is the ordered list of columns selected in song queries.
// Must match the scan order in scanSong.
const songColumns = `id, track_id, title, artist, album, album_art_url, audio_url,
	language, difficulty, created_at, updated_at,
	(SELECT COUNT(*) FROM lyric_lines WHERE song_id = songs.id) AS line_count`

// scanSong scans a sql.Row (or sql.Rows via its Scan method) into a domain.Song.
func scanSong(scanner interface{ Scan(dest ...any) error }) (*domain.Song, error) {
	var song domain.Song

	var (
		album       sql.NullString
		albumArtURL sql.NullString
		audioURL    sql.NullString
		difficulty  string
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&song.ID,
		&song.TrackID,
		&song.Title,
		&song.Artist,
		&album,
		&albumArtURL,
		&audioURL,
		&song.Language,
		&difficulty,
		&createdAt,
		&updatedAt,
		&song.LineCount,
	)
	if err != nil {
		return nil, err
	}

	song.Album = album.String
	song.AlbumArtURL = albumArtURL.String
	song.AudioURL = audioURL.String
	song.Difficulty = domain.Difficulty(difficulty)

	if song.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if song.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &song, nil
}

// UpsertSong inserts a song keyed by its track ID, or refreshes the
// mutable metadata of the existing row. Language, difficulty, and album
// are fixed at first import. Returns the canonical song ID, which may
// differ from song.ID when the track was imported before.
func (s *Store) UpsertSong(ctx context.Context, song *domain.Song) (string, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO songs (id, track_id, title, artist, album, album_art_url, audio_url,
			language, difficulty, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			title = excluded.title,
			artist = excluded.artist,
			album_art_url = excluded.album_art_url,
			audio_url = excluded.audio_url,
			updated_at = excluded.updated_at`,
		song.ID,
		song.TrackID,
		song.Title,
		song.Artist,
		nullString(song.Album),
		nullString(song.AlbumArtURL),
		nullString(song.AudioURL),
		song.Language,
		string(song.Difficulty),
		formatTime(song.CreatedAt),
		formatTime(song.UpdatedAt),
	)
	if err != nil {
		return "", fmt.Errorf("upsert song: %w", err)
	}

	var id string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM songs WHERE track_id = ?`, song.TrackID).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("select song id: %w", err)
	}

	song.ID = id
	return id, nil
}

// GetSong returns a song by ID.
func (s *Store) GetSong(ctx context.Context, id string) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE id = ?`, id)

	song, err := scanSong(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrSongNotFound
		}
		return nil, fmt.Errorf("get song: %w", err)
	}
	return song, nil
}

// GetSongByTrackID returns a song by its natural key.
func (s *Store) GetSongByTrackID(ctx context.Context, trackID string) (*domain.Song, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE track_id = ?`, trackID)

	song, err := scanSong(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, store.ErrSongNotFound
		}
		return nil, fmt.Errorf("get song by track id: %w", err)
	}
	return song, nil
}

// GetSongWithLyrics returns a song with its lyric lines ordered by line number.
func (s *Store) GetSongWithLyrics(ctx context.Context, id string) (*domain.SongWithLyrics, error) {
	song, err := s.GetSong(ctx, id)
	if err != nil {
		return nil, err
	}

	lyrics, err := s.GetLyrics(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.SongWithLyrics{Song: *song, Lyrics: lyrics}, nil
}

// ListFilter narrows ListSongs results. Zero values mean no filtering.
type ListFilter struct {
	Language   string
	Difficulty domain.Difficulty
}

// ListSongs returns all songs matching the filter, ordered by artist then title.
func (s *Store) ListSongs(ctx context.Context, filter ListFilter) ([]domain.Song, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Language != "" {
		conds = append(conds, "language = ?")
		args = append(args, filter.Language)
	}
	if filter.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, string(filter.Difficulty))
	}

	query := `SELECT ` + songColumns + ` FROM songs`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY artist, title"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	songs := make([]domain.Song, 0)
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, *song)
	}

	return songs, rows.Err()
}

// DeleteSong removes a song and, via cascade, its lyric lines.
func (s *Store) DeleteSong(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM songs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return store.ErrSongNotFound
	}

	if err := s.indexer.DeleteSong(ctx, id); err != nil {
		s.logger.Warn("failed to remove song from search index", "song_id", id, "error", err)
	}

	return nil
}
