package translate

import (
	"strings"
	"unicode"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
)

// quoteStripper removes ornamental quotation marks that confuse the
// translation engine. The stored original text keeps them.
var quoteStripper = strings.NewReplacer(
	"«", "",
	"»", "",
	"“", "", // left curly double quote
	"”", "", // right curly double quote
	"„", "", // low-9 double quote
)

// HasLetter reports whether s contains at least one letter in any script.
// Lines without letters (instrumental markers, punctuation, numbers) are
// not worth sending to the translation engine.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// CleanText strips ornamental quotes and trims whitespace for translation.
func CleanText(s string) string {
	return strings.TrimSpace(quoteStripper.Replace(s))
}

// Partition splits texts into the subset worth translating and a mask
// recording which positions made the cut. cleaned holds the stripped
// form of each translatable text, in original order.
func Partition(texts []string) (cleaned []string, translatable []bool) {
	translatable = make([]bool, len(texts))
	for i, text := range texts {
		if !HasLetter(text) {
			continue
		}
		translatable[i] = true
		cleaned = append(cleaned, CleanText(text))
	}
	return cleaned, translatable
}

// Merge recombines translations with the lines that were skipped.
// original and mask must be the same length, and translations must hold
// exactly one entry per true position in mask. Skipped lines pass
// through unchanged.
func Merge(original []string, mask []bool, translations []string) ([]string, error) {
	if len(original) != len(mask) {
		return nil, apperrors.MergeMismatch("mask length does not match line count")
	}

	want := 0
	for _, ok := range mask {
		if ok {
			want++
		}
	}
	if len(translations) != want {
		return nil, apperrors.MergeMismatch("translation count does not match translatable line count")
	}

	merged := make([]string, len(original))
	next := 0
	for i := range original {
		if mask[i] {
			merged[i] = translations[next]
			next++
		} else {
			merged[i] = original[i]
		}
	}

	return merged, nil
}
