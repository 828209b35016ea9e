// Package translate turns original lyric lines into learner translations.
package translate

import "context"

// Translator is the common interface for translation engines.
type Translator interface {
	// TranslateBatch translates texts in order and returns one translation
	// per input text.
	TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error)
	// TranslateWord translates a single word or short phrase.
	TranslateWord(ctx context.Context, word, sourceLang, targetLang string) (string, error)
	// Name returns the engine name.
	Name() string
}
