package service

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
)

type fakeTranslator struct {
	lastWord   string
	lastTarget string
}

func (f *fakeTranslator) TranslateBatch(_ context.Context, texts []string, _, targetLang string) ([]string, error) {
	result := make([]string, len(texts))
	for i, text := range texts {
		f.lastWord = text
		f.lastTarget = targetLang
		result[i] = "translated: " + text
	}
	return result, nil
}

func (f *fakeTranslator) TranslateWord(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	translated, err := f.TranslateBatch(ctx, []string{word}, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	return translated[0], nil
}

func (f *fakeTranslator) Name() string { return "fake" }

func newVocabService(translator *fakeTranslator) *VocabService {
	return NewVocabService(translator, "en", slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func TestVocabService_TranslateWord(t *testing.T) {
	translator := &fakeTranslator{}
	svc := newVocabService(translator)

	result, err := svc.TranslateWord(context.Background(), "camisa", "es", "")
	require.NoError(t, err)

	assert.Equal(t, "camisa", result.Word)
	assert.Equal(t, "translated: camisa", result.Translation)
	assert.Equal(t, "es", result.SourceLang)
	assert.Equal(t, "en", result.TargetLang, "default target language applied")
}

func TestVocabService_TranslateWord_ExplicitTarget(t *testing.T) {
	translator := &fakeTranslator{}
	svc := newVocabService(translator)

	result, err := svc.TranslateWord(context.Background(), "camisa", "es", "de")
	require.NoError(t, err)
	assert.Equal(t, "de", result.TargetLang)
	assert.Equal(t, "de", translator.lastTarget)
}

func TestVocabService_TranslateWord_StripsQuotes(t *testing.T) {
	translator := &fakeTranslator{}
	svc := newVocabService(translator)

	_, err := svc.TranslateWord(context.Background(), "«camisa»", "es", "")
	require.NoError(t, err)
	assert.Equal(t, "camisa", translator.lastWord)
}

func TestVocabService_TranslateWord_Validation(t *testing.T) {
	svc := newVocabService(&fakeTranslator{})
	ctx := context.Background()

	_, err := svc.TranslateWord(ctx, "  ", "es", "en")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = svc.TranslateWord(ctx, "camisa", "", "en")
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}
