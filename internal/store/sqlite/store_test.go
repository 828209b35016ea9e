package sqlite

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Schema should be idempotent; a second exec must not fail.
	if _, err := s.db.Exec(schemaSQL); err != nil {
		t.Fatalf("re-exec schema: %v", err)
	}
}

func TestOpen_BadPath(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if _, err := Open("/nonexistent/dir/test.db", logger); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
