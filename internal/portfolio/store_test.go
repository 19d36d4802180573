package portfolio

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"coldreach/internal/model"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "portfolio.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func newTestStore(t *testing.T, csvContent string) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := New(writeCSV(t, csvContent), t.TempDir(), logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

const sampleCSV = `Techstack,Links
"Python, AWS, Docker",http://example.com/proj1
"React, Node.js",http://example.com/proj2
"Go, Kubernetes, gRPC",http://example.com/proj3
`

func TestLoad_Idempotent(t *testing.T) {
	store := newTestStore(t, sampleCSV)

	for i := 0; i < 3; i++ {
		if err := store.Load(); err != nil {
			t.Fatalf("Load #%d: %v", i+1, err)
		}
	}

	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d after repeated loads, want 3", count)
	}
}

func TestLoad_KeepsEmptyRows(t *testing.T) {
	store := newTestStore(t, "Techstack,Links\n,http://example.com/empty\n\"Go\",http://example.com/go\n")

	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	count, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (empty tech stack kept, not dropped)", count)
	}
}

func TestQueryLinks_EmptySkillsShortCircuits(t *testing.T) {
	store := newTestStore(t, sampleCSV)
	// Deliberately no Load: the short-circuit must not depend on store state.

	links, err := store.QueryLinks(nil)
	if err != nil {
		t.Fatalf("QueryLinks: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("got %d links for empty skills, want 0", len(links))
	}
}

func TestQueryLinks_CardinalityBound(t *testing.T) {
	store := newTestStore(t, sampleCSV)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	links, err := store.QueryLinks([]string{"Python", "AWS", "React", "Go"})
	if err != nil {
		t.Fatalf("QueryLinks: %v", err)
	}
	if len(links) > 2 {
		t.Errorf("got %d links, want at most 2", len(links))
	}
}

func TestQueryLinks_SingleEntryStore(t *testing.T) {
	store := newTestStore(t, "Techstack,Links\n\"Rust, WASM\",http://example.com/solo\n")
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	links, err := store.QueryLinks([]string{"Rust"})
	if err != nil {
		t.Fatalf("QueryLinks: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("got %d links, want 1", len(links))
	}
	if links[0].Link != "http://example.com/solo" {
		t.Errorf("link = %q", links[0].Link)
	}
}

func TestQueryLinks_EmptyIndex(t *testing.T) {
	store := newTestStore(t, sampleCSV)
	// Index opened but never loaded.

	links, err := store.QueryLinks([]string{"Python"})
	if err != nil {
		t.Fatalf("QueryLinks: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("got %d links from empty index, want 0", len(links))
	}
}

func TestQueryLinks_BestMatchFirst(t *testing.T) {
	store := newTestStore(t, sampleCSV)
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}

	links, err := store.QueryLinks([]string{"Python", "AWS"})
	if err != nil {
		t.Fatalf("QueryLinks: %v", err)
	}
	if len(links) == 0 {
		t.Fatal("expected at least one match")
	}
	if links[0].Link != "http://example.com/proj1" {
		t.Errorf("top link = %q, want the Python/AWS project", links[0].Link)
	}
	for i := 1; i < len(links); i++ {
		if links[i].Score > links[i-1].Score {
			t.Errorf("links not ordered by descending score: %v", links)
		}
	}
}

func TestNew_MissingSource(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(filepath.Join(t.TempDir(), "nope.csv"), t.TempDir(), logger)

	var srcErr *model.SourceNotFoundError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *model.SourceNotFoundError, got %v", err)
	}
}

func TestNew_MissingColumns(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	_, err := New(writeCSV(t, "Name,URL\nfoo,bar\n"), t.TempDir(), logger)

	var srcErr *model.SourceNotFoundError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected *model.SourceNotFoundError, got %v", err)
	}
}

func TestLoad_PersistsAcrossReopen(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	csvPath := writeCSV(t, sampleCSV)
	indexDir := t.TempDir()

	store, err := New(csvPath, indexDir, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := store.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	store.Close()

	reopened, err := New(csvPath, indexDir, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if err := reopened.Load(); err != nil {
		t.Fatalf("Load after reopen: %v", err)
	}
	count, err := reopened.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d after reopen+reload, want 3", count)
	}
}
