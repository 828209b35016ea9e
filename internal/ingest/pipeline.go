// Package ingest orchestrates turning raw LRC text into a stored,
// translated song.
package ingest

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/polyphonyapp/polyphony-server/internal/domain"
	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/id"
	"github.com/polyphonyapp/polyphony-server/internal/lrc"
	"github.com/polyphonyapp/polyphony-server/internal/store"
	"github.com/polyphonyapp/polyphony-server/internal/translate"
)

// validate is a shared validator instance for request validation.
var validate = func() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			return fld.Name
		}
		// Remove any options (like omitempty, -)
		for i := range len(name) {
			if name[i] == ',' {
				return name[:i]
			}
		}
		return name
	})
	return v
}()

// Store is the persistence surface the pipeline writes through.
type Store interface {
	UpsertSong(ctx context.Context, song *domain.Song) (string, error)
	DeleteLyricsForSong(ctx context.Context, songID string) error
	UpsertLyricLine(ctx context.Context, line *domain.LyricLine) error
}

// Request describes one song to ingest.
type Request struct {
	TrackID     string `json:"track_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Artist      string `json:"artist" validate:"required"`
	Album       string `json:"album,omitempty"`
	AlbumArtURL string `json:"album_art_url,omitempty" validate:"omitempty,url"`
	AudioURL    string `json:"audio_url,omitempty" validate:"omitempty,url"`
	Language    string `json:"language" validate:"required"`
	Difficulty  string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	RawLyrics   string `json:"raw_lyrics"`
	TargetLang  string `json:"target_lang,omitempty"`
	// ParseOnly skips translation; every line keeps its original text
	// as its own translation.
	ParseOnly bool `json:"parse_only,omitempty"`
}

// Result reports a completed ingestion run.
type Result struct {
	SongID    string `json:"song_id"`
	LineCount int    `json:"line_count"`
}

// Pipeline ingests songs: upsert metadata, parse LRC, translate, and
// persist the merged lines.
type Pipeline struct {
	store      Store
	translator translate.Translator
	indexer    store.SongIndexer
	logger     *slog.Logger
	targetLang string
}

// NewPipeline creates an ingestion pipeline. targetLang is the default
// translation target when a request does not name one.
func NewPipeline(st Store, translator translate.Translator, indexer store.SongIndexer, targetLang string, logger *slog.Logger) *Pipeline {
	if indexer == nil {
		indexer = store.NewNoopIndexer()
	}
	return &Pipeline{
		store:      st,
		translator: translator,
		indexer:    indexer,
		logger:     logger,
		targetLang: targetLang,
	}
}

// Ingest runs one full ingestion pass for a song. Writes are idempotent,
// so re-running after any failure is always safe and is the recovery
// mechanism for partial runs.
func (p *Pipeline) Ingest(ctx context.Context, req *Request) (*Result, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	sourceLang, err := translate.NormalizeLang(req.Language)
	if err != nil {
		return nil, apperrors.Validationf("invalid language code: %q", req.Language)
	}

	targetLang := p.targetLang
	if req.TargetLang != "" {
		targetLang, err = translate.NormalizeLang(req.TargetLang)
		if err != nil {
			return nil, apperrors.Validationf("invalid target language code: %q", req.TargetLang)
		}
	}

	song := &domain.Song{
		ID:          id.MustGenerate("song"),
		TrackID:     req.TrackID,
		Title:       req.Title,
		Artist:      req.Artist,
		Album:       req.Album,
		AlbumArtURL: req.AlbumArtURL,
		AudioURL:    req.AudioURL,
		Language:    sourceLang,
		Difficulty:  domain.Difficulty(req.Difficulty),
	}
	song.InitTimestamps()

	songID, err := p.store.UpsertSong(ctx, song)
	if err != nil {
		return nil, err
	}

	log := p.logger.With("song_id", songID, "track_id", req.TrackID)

	lines := lrc.Parse(req.RawLyrics)

	// Idempotent cleanup: a re-import with fewer lines must not leave a
	// stale tail from the previous run.
	if err := p.store.DeleteLyricsForSong(ctx, songID); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		log.Warn("no lyric lines parsed, song stored without lyrics")
		return &Result{SongID: songID, LineCount: 0}, nil
	}

	originals := make([]string, len(lines))
	for i, line := range lines {
		originals[i] = line.Text
	}

	merged, err := p.translateLines(ctx, originals, sourceLang, targetLang, req.ParseOnly)
	if err != nil {
		return nil, err
	}

	for i, line := range lines {
		lyric := &domain.LyricLine{
			SongID:         songID,
			LineNumber:     line.Number,
			TimestampMs:    line.Milliseconds(),
			OriginalText:   line.Text,
			TranslatedText: merged[i],
		}
		if err := p.store.UpsertLyricLine(ctx, lyric); err != nil {
			return nil, err
		}
	}

	if err := p.indexer.IndexSong(ctx, song, strings.Join(originals, "\n")); err != nil {
		log.Warn("failed to index song for search", "error", err)
	}

	log.Info("ingested song",
		"lines", len(lines),
		"parse_only", req.ParseOnly,
	)

	return &Result{SongID: songID, LineCount: len(lines)}, nil
}

// translateLines produces one translation per original line. Lines that
// carry no letters pass through with their original text, as do all
// lines in parse-only mode. The translation engine is called exactly
// once per run.
func (p *Pipeline) translateLines(ctx context.Context, originals []string, sourceLang, targetLang string, parseOnly bool) ([]string, error) {
	if parseOnly {
		merged := make([]string, len(originals))
		copy(merged, originals)
		return merged, nil
	}

	cleaned, mask := translate.Partition(originals)

	var translations []string
	if len(cleaned) > 0 {
		var err error
		translations, err = p.translator.TranslateBatch(ctx, cleaned, sourceLang, targetLang)
		if err != nil {
			return nil, err
		}
	}

	return translate.Merge(originals, mask, translations)
}

// formatValidationError converts validator errors to domain errors.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		// Return first validation error as a domain error
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				return apperrors.Validationf("%s is required", field)
			case "oneof":
				return apperrors.Validationf("%s must be one of: %s", field, e.Param())
			case "url":
				return apperrors.Validationf("%s must be a valid URL", field)
			default:
				return apperrors.Validationf("%s is invalid", field)
			}
		}
	}
	return err
}
