// Package bookmarks owns the set of saved pages, keyed by URL.
package bookmarks

import (
	"time"

	"github.com/lotas/fenster/internal/applog"
	"github.com/lotas/fenster/internal/storage"
	"github.com/lotas/fenster/internal/types"
)

const storageKey = "bookmarks"

// defaults is the fixed set reinstated by Reset and used on first run.
var defaults = []types.Bookmark{
	{Title: "The Go Programming Language", URL: "https://go.dev"},
	{Title: "Hacker News", URL: "https://news.ycombinator.com"},
	{Title: "Wikipedia", URL: "https://www.wikipedia.org"},
}

// Store holds bookmarks in memory and writes through to durable storage on
// every mutation. All methods run on the UI goroutine; there is no locking.
type Store struct {
	kv     *storage.Store
	items  []types.Bookmark
	byURL  map[string]int // URL → index into items
	nextID int64
}

// NewStore loads bookmarks from kv. A missing key seeds the default set; a
// read or parse failure is logged and also falls back to the defaults.
func NewStore(kv *storage.Store) *Store {
	s := &Store{kv: kv}
	if kv == nil {
		s.seedDefaults()
		return s
	}

	var items []types.Bookmark
	found, err := kv.Get(storageKey, &items)
	if err != nil {
		applog.Error("bookmarks.load", err)
	}
	if err != nil || !found {
		s.seedDefaults()
		return s
	}

	s.items = items
	s.reindex()
	return s
}

// All returns the bookmarks in insertion order. The returned slice is the
// store's own; callers must not mutate it.
func (s *Store) All() []types.Bookmark {
	return s.items
}

// Has reports whether a bookmark exists for the URL.
func (s *Store) Has(url string) bool {
	_, ok := s.byURL[url]
	return ok
}

// Add saves a bookmark. Adding an already-bookmarked URL is a no-op.
func (s *Store) Add(title, url string) {
	if _, ok := s.byURL[url]; ok {
		return
	}
	s.nextID++
	s.items = append(s.items, types.Bookmark{
		ID:        s.nextID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now(),
	})
	s.byURL[url] = len(s.items) - 1
	s.persist()
}

// Remove deletes the bookmark for the URL, if any.
func (s *Store) Remove(url string) {
	idx, ok := s.byURL[url]
	if !ok {
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.reindex()
	s.persist()
}

// Toggle adds the URL if absent and removes it if present. Returns true if
// the URL is bookmarked afterwards.
func (s *Store) Toggle(url, title string) bool {
	if s.Has(url) {
		s.Remove(url)
		return false
	}
	s.Add(title, url)
	return true
}

// Reset clears all bookmarks and reinstates the default set.
func (s *Store) Reset() {
	s.seedDefaults()
}

func (s *Store) seedDefaults() {
	s.items = make([]types.Bookmark, len(defaults))
	copy(s.items, defaults)
	now := time.Now()
	for i := range s.items {
		s.items[i].ID = int64(i + 1)
		s.items[i].CreatedAt = now
	}
	s.nextID = int64(len(s.items))
	s.reindex()
	s.persist()
}

func (s *Store) reindex() {
	s.byURL = make(map[string]int, len(s.items))
	for i, b := range s.items {
		s.byURL[b.URL] = i
		if b.ID > s.nextID {
			s.nextID = b.ID
		}
	}
}

func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	if err := s.kv.Put(storageKey, s.items); err != nil {
		applog.Error("bookmarks.persist", err)
	}
}
