package service

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
	"github.com/polyphonyapp/polyphony-server/internal/translate"
)

// VocabService translates individual words a learner taps on during playback.
type VocabService struct {
	translator translate.Translator
	logger     *slog.Logger
	targetLang string
}

// NewVocabService creates a new vocabulary service. targetLang is the
// default translation target when the caller does not name one.
func NewVocabService(translator translate.Translator, targetLang string, logger *slog.Logger) *VocabService {
	return &VocabService{
		translator: translator,
		logger:     logger,
		targetLang: targetLang,
	}
}

// WordTranslation is a single word lookup result.
type WordTranslation struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
	SourceLang  string `json:"source_lang"`
	TargetLang  string `json:"target_lang"`
}

// TranslateWord translates one word or short phrase.
func (s *VocabService) TranslateWord(ctx context.Context, word, sourceLang, targetLang string) (*WordTranslation, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, apperrors.Validation("word is required")
	}
	if sourceLang == "" {
		return nil, apperrors.Validation("source language is required")
	}

	normalized, err := translate.NormalizeLang(sourceLang)
	if err != nil {
		return nil, apperrors.Validationf("invalid source language code: %q", sourceLang)
	}
	sourceLang = normalized

	if targetLang == "" {
		targetLang = s.targetLang
	} else {
		normalized, err = translate.NormalizeLang(targetLang)
		if err != nil {
			return nil, apperrors.Validationf("invalid target language code: %q", targetLang)
		}
		targetLang = normalized
	}

	translation, err := s.translator.TranslateWord(ctx, translate.CleanText(word), sourceLang, targetLang)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("translated word",
		"word", word,
		"source", sourceLang,
		"target", targetLang,
	)

	return &WordTranslation{
		Word:        word,
		Translation: translation,
		SourceLang:  sourceLang,
		TargetLang:  targetLang,
	}, nil
}
