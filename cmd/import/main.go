// Package main provides a batch import tool for song manifests.
//
// It ingests one or more manifest files (or every .json manifest in a
// directory) into the Polyphony database without starting the server.
//
// Usage:
//
//	DATA_PATH=~/Polyphony/data go run ./cmd/import manifests/
//	go run ./cmd/import --parse-only song.json
//	go run ./cmd/import --auto song-without-lyrics.json
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/polyphonyapp/polyphony-server/internal/ingest"
	"github.com/polyphonyapp/polyphony-server/internal/lrclib"
	"github.com/polyphonyapp/polyphony-server/internal/search"
	"github.com/polyphonyapp/polyphony-server/internal/store/sqlite"
	"github.com/polyphonyapp/polyphony-server/internal/translate"
)

var (
	parseOnly  = flag.Bool("parse-only", false, "Skip translation for all manifests")
	targetLang = flag.String("target-lang", "", "Override translation target language")
	auto       = flag.Bool("auto", false, "Fetch missing lyrics from LRCLIB by track metadata")
)

func main() {
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: import [flags] <manifest-or-dir>...")
		flag.PrintDefaults()
		os.Exit(2)
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Polyphony/data")
	}
	if err := os.MkdirAll(dataPath, 0o750); err != nil {
		log.Fatalf("Failed to create data path: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fmt.Printf("Opening database at: %s\n", dataPath)

	st, err := sqlite.Open(filepath.Join(dataPath, "polyphony.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	idx, err := search.NewSongIndex(search.Options{DataPath: dataPath, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer idx.Close()

	st.SetSongIndexer(idx)

	translator := translate.NewDeepLClient(os.Getenv("DEEPL_API_KEY"), logger)

	lang := *targetLang
	if lang == "" {
		lang = os.Getenv("TARGET_LANG")
	}
	if lang == "" {
		lang = "en"
	}

	pipeline := ingest.NewPipeline(st, translator, idx, lang, logger)
	lyrics := lrclib.NewClient(os.Getenv("LRCLIB_URL"), logger)

	manifests, err := collectManifests(flag.Args())
	if err != nil {
		log.Fatalf("Failed to collect manifests: %v", err)
	}
	if len(manifests) == 0 {
		log.Fatal("No manifest files found")
	}

	ctx := context.Background()
	imported, failed := 0, 0

	for _, path := range manifests {
		req, err := ingest.LoadManifest(path)
		if err != nil {
			fmt.Printf("  SKIP %s: %v\n", path, err)
			failed++
			continue
		}
		if *parseOnly {
			req.ParseOnly = true
		}

		if req.RawLyrics == "" && *auto {
			synced, err := lyrics.GetSyncedLyrics(ctx, req.Title, req.Artist, req.Album)
			if err != nil {
				fmt.Printf("  FAIL %s: lyric lookup: %v\n", path, err)
				failed++
				continue
			}
			req.RawLyrics = synced
		}

		result, err := pipeline.Ingest(ctx, req)
		if err != nil {
			fmt.Printf("  FAIL %s: %v\n", path, err)
			failed++
			continue
		}

		fmt.Printf("  OK   %s -> %s (%d lines)\n", path, result.SongID, result.LineCount)
		imported++
	}

	fmt.Printf("\nImported %d manifests, %d failed\n", imported, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// collectManifests expands directory arguments into their .json files.
func collectManifests(args []string) ([]string, error) {
	var manifests []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			manifests = append(manifests, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
				continue
			}
			manifests = append(manifests, filepath.Join(arg, entry.Name()))
		}
	}

	return manifests, nil
}
