package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// langNames maps full English language names to ISO 639-1 codes.
// Import manifests written by hand often use the name form.
var langNames = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"turkish":    "tr",
}

// NormalizeLang canonicalizes a language code or name to its lowercase
// ISO 639-1 base form. "ES" -> "es", "pt-BR" -> "pt", "Korean" -> "ko".
// Returns an error for unrecognized input.
func NormalizeLang(code string) (string, error) {
	if mapped, ok := langNames[strings.ToLower(strings.TrimSpace(code))]; ok {
		return mapped, nil
	}

	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// deeplLangCode converts ISO 639-1 codes to DeepL's language format.
func deeplLangCode(code string) string {
	mapping := map[string]string{
		"en": "EN",
		"es": "ES",
		"fr": "FR",
		"de": "DE",
		"it": "IT",
		"pt": "PT-BR",
		"ja": "JA",
		"ko": "KO",
		"zh": "ZH",
		"ru": "RU",
		"nl": "NL",
		"pl": "PL",
		"sv": "SV",
		"tr": "TR",
	}
	if mapped, ok := mapping[strings.ToLower(code)]; ok {
		return mapped
	}
	return strings.ToUpper(code)
}
