package storage

import (
	"path/filepath"
	"testing"

	"github.com/lotas/fenster/internal/types"
)

// testStore creates a temporary store for testing.
func testStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open(%q): %v", path, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetRoundTrip(t *testing.T) {
	s := testStore(t)

	in := []types.Bookmark{
		{ID: 1, Title: "Go", URL: "https://go.dev"},
		{ID: 2, Title: "Example", URL: "https://example.com"},
	}
	if err := s.Put("bookmarks", in); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var out []types.Bookmark
	found, err := s.Get("bookmarks", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !found {
		t.Fatal("Get: key not found after Put")
	}
	if len(out) != 2 || out[0].URL != "https://go.dev" || out[1].ID != 2 {
		t.Errorf("Get returned %+v", out)
	}
}

func TestPutReplaces(t *testing.T) {
	s := testStore(t)

	if err := s.Put("k", "first"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("k", "second"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	var v string
	if _, err := s.Get("k", &v); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "second" {
		t.Errorf("got %q, want second", v)
	}
}

func TestGetMissingKey(t *testing.T) {
	s := testStore(t)

	var v string
	found, err := s.Get("nope", &v)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Error("Get reported a value for an unwritten key")
	}
}

func TestDelete(t *testing.T) {
	s := testStore(t)

	s.Put("k", 1)
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	var v int
	if found, _ := s.Get("k", &v); found {
		t.Error("key still present after Delete")
	}
	// Deleting again is fine.
	if err := s.Delete("k"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "fenster.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Put("k", true); err != nil {
		t.Fatalf("Put after nested Open: %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	s1.Put("k", "v")
	s1.Close()

	// Reopening runs migrations again; they must all be recorded as applied.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer s2.Close()

	var v string
	found, err := s2.Get("k", &v)
	if err != nil || !found || v != "v" {
		t.Errorf("Get after reopen: found=%v v=%q err=%v", found, v, err)
	}
}
