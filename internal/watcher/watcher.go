// Package watcher monitors a drop directory for song manifest files and
// feeds them to the ingest pipeline once they stop changing.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/polyphonyapp/polyphony-server/internal/ingest"
)

// DefaultSettleDelay is how long a manifest must be quiet before ingestion.
const DefaultSettleDelay = 500 * time.Millisecond

// Ingestor runs one ingest request. Satisfied by *ingest.Pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, req *ingest.Request) (*ingest.Result, error)
}

// pendingFile tracks a manifest that may still be changing
type pendingFile struct {
	timer   *time.Timer
	size    int64
	modTime time.Time
}

// ManifestWatcher watches a directory for .json manifests with debouncing.
type ManifestWatcher struct {
	ingestor Ingestor
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	dir      string
	settle   time.Duration

	pending map[string]*pendingFile // path -> settling state
	mu      sync.Mutex              // protects pending map

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a watcher for the given directory. The directory must exist.
func New(dir string, ingestor Ingestor, settle time.Duration, logger *slog.Logger) (*ManifestWatcher, error) {
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat watch dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path is not a directory: %s", dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	if settle <= 0 {
		settle = DefaultSettleDelay
	}

	return &ManifestWatcher{
		ingestor: ingestor,
		watcher:  fsw,
		logger:   logger,
		dir:      dir,
		settle:   settle,
		pending:  make(map[string]*pendingFile),
		done:     make(chan struct{}),
	}, nil
}

// Start ingests manifests already in the directory, then watches for new
// ones until ctx is cancelled or Stop is called.
func (w *ManifestWatcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("add watch on %s: %w", w.dir, err)
	}

	w.scanExisting(ctx)

	w.wg.Add(1)
	go w.processEvents(ctx)

	w.logger.Info("watching for song manifests", "dir", w.dir, "settle_delay", w.settle)
	return nil
}

// scanExisting ingests manifests that were dropped while the server was down.
func (w *ManifestWatcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Error("failed to read watch dir", "dir", w.dir, "error", err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isManifest(entry.Name()) {
			continue
		}
		w.ingestManifest(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// processEvents processes fsnotify events
func (w *ManifestWatcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watch error", "error", err)
		}
	}
}

func (w *ManifestWatcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if !isManifest(path) {
		return
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(ctx, path)
	}
}

// startSettling begins or restarts the settling window for a manifest
func (w *ManifestWatcher) startSettling(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		w.stopTimer(pending.timer)
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		return
	}
	if info.IsDir() {
		return
	}

	pending := &pendingFile{
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	pending.timer = w.armSettleTimer(ctx, path)

	w.pending[path] = pending
}

// armSettleTimer schedules a settle check and registers it with the
// WaitGroup so Stop waits for an ingest the timer may have started.
func (w *ManifestWatcher) armSettleTimer(ctx context.Context, path string) *time.Timer {
	w.wg.Add(1)
	return time.AfterFunc(w.settle, func() {
		defer w.wg.Done()
		w.checkSettled(ctx, path)
	})
}

// stopTimer stops a settle timer and releases its WaitGroup slot when
// the callback was prevented from running.
func (w *ManifestWatcher) stopTimer(t *time.Timer) {
	if t.Stop() {
		w.wg.Done()
	}
}

// checkSettled ingests the manifest if it stopped changing, otherwise
// restarts the settle timer.
func (w *ManifestWatcher) checkSettled(ctx context.Context, path string) {
	w.mu.Lock()

	pending, exists := w.pending[path]
	if !exists {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		// File was deleted before it settled
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != pending.size || info.ModTime() != pending.modTime {
		// Still being written, restart timer
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = w.armSettleTimer(ctx, path)
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	w.ingestManifest(ctx, path)
}

// ingestManifest loads one manifest file and runs it through the pipeline.
// Failures are logged, not fatal; re-dropping the file retries the import.
func (w *ManifestWatcher) ingestManifest(ctx context.Context, path string) {
	select {
	case <-w.done:
		return
	default:
	}

	req, err := ingest.LoadManifest(path)
	if err != nil {
		w.logger.Error("failed to load manifest", "path", path, "error", err)
		return
	}

	result, err := w.ingestor.Ingest(ctx, req)
	if err != nil {
		w.logger.Error("manifest ingest failed", "path", path, "track_id", req.TrackID, "error", err)
		return
	}

	w.logger.Info("manifest ingested",
		"path", path,
		"song_id", result.SongID,
		"line_count", result.LineCount)
}

// cancelPending cancels the settle timer for a removed manifest
func (w *ManifestWatcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		w.stopTimer(pending.timer)
		delete(w.pending, path)
	}
}

// Stop stops the watcher and waits for in-flight work to finish,
// including ingests already started from a settle timer.
func (w *ManifestWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for _, pending := range w.pending {
			w.stopTimer(pending.timer)
		}
		clear(w.pending)
		w.mu.Unlock()

		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func isManifest(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
