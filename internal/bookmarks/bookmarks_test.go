package bookmarks

import (
	"path/filepath"
	"testing"

	"github.com/lotas/fenster/internal/storage"
	"github.com/lotas/fenster/internal/types"
)

func testKV(t *testing.T) *storage.Store {
	t.Helper()
	kv, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestFirstRunSeedsDefaults(t *testing.T) {
	s := NewStore(testKV(t))

	if len(s.All()) != len(defaults) {
		t.Fatalf("got %d bookmarks, want %d defaults", len(s.All()), len(defaults))
	}
	if !s.Has("https://go.dev") {
		t.Error("default bookmark missing")
	}
}

func TestToggleAddsAndRemoves(t *testing.T) {
	s := NewStore(nil)
	before := len(s.All())

	if on := s.Toggle("https://pkg.go.dev", "Go Packages"); !on {
		t.Error("Toggle on absent URL should report bookmarked")
	}
	if !s.Has("https://pkg.go.dev") {
		t.Fatal("URL not present after toggle-on")
	}
	if len(s.All()) != before+1 {
		t.Errorf("got %d bookmarks, want %d", len(s.All()), before+1)
	}

	if on := s.Toggle("https://pkg.go.dev", "Go Packages"); on {
		t.Error("Toggle on present URL should report removed")
	}
	if s.Has("https://pkg.go.dev") {
		t.Error("URL still present after toggle-off")
	}
}

func TestAddDuplicateURLIsNoop(t *testing.T) {
	s := NewStore(nil)

	s.Add("First", "https://example.com")
	s.Add("Second", "https://example.com")

	count := 0
	var kept types.Bookmark
	for _, b := range s.All() {
		if b.URL == "https://example.com" {
			count++
			kept = b
		}
	}
	if count != 1 {
		t.Fatalf("got %d bookmarks for one URL, want 1", count)
	}
	if kept.Title != "First" {
		t.Errorf("duplicate Add replaced title: %q", kept.Title)
	}
}

func TestIDsAreUniqueAfterRemove(t *testing.T) {
	s := NewStore(nil)

	s.Add("A", "https://a.example")
	s.Add("B", "https://b.example")
	s.Remove("https://a.example")
	s.Add("C", "https://c.example")

	seen := make(map[int64]bool)
	for _, b := range s.All() {
		if seen[b.ID] {
			t.Fatalf("duplicate bookmark id %d", b.ID)
		}
		seen[b.ID] = true
	}
}

func TestResetReinstatesDefaults(t *testing.T) {
	s := NewStore(nil)
	s.Add("Extra", "https://extra.example")
	s.Remove("https://go.dev")

	s.Reset()

	if len(s.All()) != len(defaults) {
		t.Fatalf("got %d bookmarks after Reset, want %d", len(s.All()), len(defaults))
	}
	if !s.Has("https://go.dev") || s.Has("https://extra.example") {
		t.Error("Reset did not reinstate the default set")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := testKV(t)

	s1 := NewStore(kv)
	s1.Add("Go Packages", "https://pkg.go.dev")
	s1.Remove("https://www.wikipedia.org")

	s2 := NewStore(kv)
	if !s2.Has("https://pkg.go.dev") {
		t.Error("added bookmark lost across reload")
	}
	if s2.Has("https://www.wikipedia.org") {
		t.Error("removed bookmark resurrected across reload")
	}
	if len(s2.All()) != len(s1.All()) {
		t.Errorf("got %d bookmarks after reload, want %d", len(s2.All()), len(s1.All()))
	}
}

func TestCorruptBlobFallsBackToDefaults(t *testing.T) {
	kv := testKV(t)
	// A blob that won't unmarshal into []types.Bookmark.
	if err := kv.Put(storageKey, "not a bookmark list"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s := NewStore(kv)
	if len(s.All()) != len(defaults) {
		t.Errorf("got %d bookmarks, want %d defaults after corrupt load", len(s.All()), len(defaults))
	}
}
