package cache

import (
	"os"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutAndGet(t *testing.T) {
	s := testStore(t)

	if err := s.Put("greeting", "hello"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := s.Get("greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || got != "hello" {
		t.Errorf("expected hello, got %q (ok=%v)", got, ok)
	}
}

func TestPutOverwrites(t *testing.T) {
	s := testStore(t)

	s.Put("k", "first")
	if err := s.Put("k", "second"); err != nil {
		t.Fatalf("second put: %v", err)
	}
	got, _, _ := s.Get("k")
	if got != "second" {
		t.Errorf("expected overwrite, got %q", got)
	}
}

func TestGetMissing(t *testing.T) {
	s := testStore(t)

	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Error("expected missing key")
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)
	s.Put("k", "v")

	if err := s.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("expected key to be gone")
	}
	// Deleting again is not an error
	if err := s.Delete("k"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	s.Put("a", "1")
	s.Put("b", "2")

	count, size, err := s.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	s, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	s.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
