package translate

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	apperrors "github.com/polyphonyapp/polyphony-server/internal/errors"
)

const (
	defaultDeepLURL = "https://api-free.deepl.com/v2/translate"

	// DeepL accepts up to 50 text parameters per request.
	batchSize = 50
)

// DeepLClient translates lyric lines using the DeepL API.
type DeepLClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	apiKey      string
	baseURL     string
}

// DeepLOption configures a DeepLClient.
type DeepLOption func(*DeepLClient)

// WithBaseURL overrides the API endpoint. Used for the paid tier and in tests.
func WithBaseURL(u string) DeepLOption {
	return func(c *DeepLClient) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) DeepLOption {
	return func(c *DeepLClient) {
		c.httpClient = h
	}
}

// NewDeepLClient creates a new DeepL translation client.
// Rate limited to stay well inside the free tier's request quota.
func NewDeepLClient(apiKey string, logger *slog.Logger, opts ...DeepLOption) *DeepLClient {
	c := &DeepLClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 10 requests per second, burst of 5
		rateLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
		logger:      logger,
		apiKey:      apiKey,
		baseURL:     defaultDeepLURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the engine name.
func (c *DeepLClient) Name() string {
	return "deepl"
}

// TranslateBatch translates texts in order, splitting into API-sized chunks.
// The result always has exactly one entry per input text.
func (c *DeepLClient) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if c.apiKey == "" {
		return nil, apperrors.TranslationService("DeepL API key not configured")
	}
	if len(texts) == 0 {
		return nil, nil
	}

	result := make([]string, 0, len(texts))
	totalBatches := (len(texts) + batchSize - 1) / batchSize

	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))
		batch := texts[i:end]

		c.logger.Debug("translating batch",
			"batch", i/batchSize+1,
			"total_batches", totalBatches,
			"lines", len(batch),
		)

		translated, err := c.translateChunk(ctx, batch, sourceLang, targetLang)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i/batchSize+1, err)
		}

		result = append(result, translated...)
	}

	return result, nil
}

// TranslateWord translates a single word or short phrase.
func (c *DeepLClient) TranslateWord(ctx context.Context, word, sourceLang, targetLang string) (string, error) {
	translated, err := c.TranslateBatch(ctx, []string{word}, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	return translated[0], nil
}

func (c *DeepLClient) translateChunk(ctx context.Context, texts []string, sourceLang, targetLang string) ([]string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	form := url.Values{}
	for _, text := range texts {
		form.Add("text", text)
	}
	form.Set("target_lang", deeplLangCode(targetLang))
	if sourceLang != "" && sourceLang != "auto" {
		form.Set("source_lang", deeplLangCode(sourceLang))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.TranslationService("DeepL request failed").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.TranslationService("read DeepL response").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.TranslationServicef("DeepL API error (status %d): %s", resp.StatusCode, string(body))
	}

	var deeplResp struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(body, &deeplResp); err != nil {
		return nil, apperrors.TranslationService("parse DeepL response").WithCause(err)
	}

	// Translations come back positionally, one per text parameter.
	if len(deeplResp.Translations) != len(texts) {
		return nil, apperrors.TranslationServicef("DeepL returned %d translations for %d texts",
			len(deeplResp.Translations), len(texts))
	}

	result := make([]string, len(texts))
	for i := range deeplResp.Translations {
		result[i] = deeplResp.Translations[i].Text
	}

	return result, nil
}
