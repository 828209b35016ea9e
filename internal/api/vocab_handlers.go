package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerVocabRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "translateWord",
		Method:      http.MethodPost,
		Path:        "/api/v1/translate/word",
		Summary:     "Translate a word",
		Description: "Translates a single word or short phrase tapped during playback",
		Tags:        []string{"Vocabulary"},
	}, s.handleTranslateWord)
}

// TranslateWordRequest is the request body for a word lookup.
type TranslateWordRequest struct {
	Word       string `json:"word" doc:"Word or short phrase to translate"`
	SourceLang string `json:"source_lang" doc:"Language of the word"`
	TargetLang string `json:"target_lang,omitempty" doc:"Override translation target language"`
}

// TranslateWordInput wraps the word lookup request for Huma.
type TranslateWordInput struct {
	Body TranslateWordRequest
}

// TranslateWordResponse contains a word translation.
type TranslateWordResponse struct {
	Word        string `json:"word" doc:"The word as sent to the translator"`
	Translation string `json:"translation" doc:"Translated word"`
	SourceLang  string `json:"source_lang" doc:"Source language code"`
	TargetLang  string `json:"target_lang" doc:"Target language code"`
}

// TranslateWordOutput wraps the word translation response for Huma.
type TranslateWordOutput struct {
	Body TranslateWordResponse
}

func (s *Server) handleTranslateWord(ctx context.Context, input *TranslateWordInput) (*TranslateWordOutput, error) {
	result, err := s.services.Vocab.TranslateWord(ctx, input.Body.Word, input.Body.SourceLang, input.Body.TargetLang)
	if err != nil {
		return nil, err
	}

	return &TranslateWordOutput{
		Body: TranslateWordResponse{
			Word:        result.Word,
			Translation: result.Translation,
			SourceLang:  result.SourceLang,
			TargetLang:  result.TargetLang,
		},
	}, nil
}
