package ingest

import (
	"encoding/json/v2"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is the on-disk description of a song import. Lyric content
// comes either inline via raw_lyrics or from a sibling LRC file named
// by lrc_file (resolved relative to the manifest).
type Manifest struct {
	Request
	LRCFile string `json:"lrc_file,omitempty"`
}

// LoadManifest reads a manifest file and resolves its LRC content.
func LoadManifest(path string) (*Request, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- Manifest path comes from the watched directory or CLI
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", filepath.Base(path), err)
	}

	if m.LRCFile != "" {
		lrcPath := m.LRCFile
		if !filepath.IsAbs(lrcPath) {
			lrcPath = filepath.Join(filepath.Dir(path), lrcPath)
		}
		content, err := os.ReadFile(lrcPath) //#nosec G304 -- Referenced from the manifest itself
		if err != nil {
			return nil, fmt.Errorf("read lrc file: %w", err)
		}
		m.Request.RawLyrics = string(content)
	}

	return &m.Request, nil
}
