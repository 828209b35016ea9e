// Package lrclib fetches synchronized lyrics from the LRCLIB catalog.
package lrclib

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://lrclib.net"

// ErrNotFound is returned when LRCLIB has no record for the track.
var ErrNotFound = errors.New("lrclib: track not found")

// ErrNoSyncedLyrics is returned when the record exists but carries no
// synchronized lyrics (plain lyrics only, or instrumental).
var ErrNoSyncedLyrics = errors.New("lrclib: no synced lyrics available")

// Client provides access to the LRCLIB lyrics API.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
	baseURL     string
}

// NewClient creates a new LRCLIB client.
// Rate limited to be polite to the public instance.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 2 requests per second, burst of 5
		rateLimiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 5),
		logger:      logger,
		baseURL:     baseURL,
	}
}

// Search queries LRCLIB for tracks matching the free-text query.
func (c *Client) Search(ctx context.Context, query string) ([]TrackResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)

	searchURL := c.baseURL + "/api/search?" + params.Encode()

	c.logger.Debug("searching lrclib", "query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var results []TrackResult
	if err := json.UnmarshalRead(resp.Body, &results); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("lrclib search results", "query", query, "count", len(results))

	return results, nil
}

// Get fetches the LRCLIB record that best matches the track metadata.
func (c *Client) Get(ctx context.Context, trackName, artistName, albumName string) (*TrackResult, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("track_name", trackName)
	params.Set("artist_name", artistName)
	if albumName != "" {
		params.Set("album_name", albumName)
	}

	getURL := c.baseURL + "/api/get?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get failed: status %d", resp.StatusCode)
	}

	var result TrackResult
	if err := json.UnmarshalRead(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &result, nil
}

// GetSyncedLyrics fetches the raw LRC content for a track.
func (c *Client) GetSyncedLyrics(ctx context.Context, trackName, artistName, albumName string) (string, error) {
	result, err := c.Get(ctx, trackName, artistName, albumName)
	if err != nil {
		return "", err
	}

	if result.Instrumental || result.SyncedLyrics == "" {
		return "", ErrNoSyncedLyrics
	}

	return result.SyncedLyrics, nil
}
