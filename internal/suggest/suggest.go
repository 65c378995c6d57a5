// Package suggest ranks omnibox autocomplete candidates over bookmarks
// and browsing history.
package suggest

import (
	"sort"
	"strings"

	"github.com/lotas/fenster/internal/types"
)

// MaxResults caps how many suggestions are produced for a query.
const MaxResults = 8

// Source identifies where a suggestion came from.
type Source int

const (
	SourceBookmark Source = iota
	SourceHistory
)

// Suggestion is one ranked autocomplete candidate.
type Suggestion struct {
	Title  string
	URL    string
	Score  float64
	Source Source
}

// Match scores. A title match outranks a URL-only match, and bookmarks
// outrank history at the same match kind.
const (
	scoreBookmarkTitle = 2.0
	scoreBookmarkURL   = 1.0
	scoreHistoryTitle  = 1.5
	scoreHistoryURL    = 0.5
)

// Rank produces up to MaxResults candidates for the query, best first.
// Matching is a case-insensitive substring test against title and URL.
// The sort is stable: ties keep bookmarks ahead of history and preserve
// source iteration order. An empty query produces nothing.
func Rank(query string, bms []types.Bookmark, hist []types.HistoryEntry) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	q := strings.ToLower(query)

	var out []Suggestion
	seen := make(map[string]bool)

	for _, b := range bms {
		score, ok := match(q, b.Title, b.URL, scoreBookmarkTitle, scoreBookmarkURL)
		if !ok {
			continue
		}
		out = append(out, Suggestion{Title: b.Title, URL: b.URL, Score: score, Source: SourceBookmark})
		seen[b.URL] = true
	}

	for _, h := range hist {
		// A URL already represented by a bookmark match is not duplicated,
		// and repeated history visits surface only once.
		if seen[h.URL] {
			continue
		}
		score, ok := match(q, h.Title, h.URL, scoreHistoryTitle, scoreHistoryURL)
		if !ok {
			continue
		}
		out = append(out, Suggestion{Title: h.Title, URL: h.URL, Score: score, Source: SourceHistory})
		seen[h.URL] = true
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if len(out) > MaxResults {
		out = out[:MaxResults]
	}
	return out
}

// match scores one candidate: titleScore for a title match, urlScore for a
// URL-only match. ok is false when neither field matches.
func match(q, title, url string, titleScore, urlScore float64) (score float64, ok bool) {
	if strings.Contains(strings.ToLower(title), q) {
		return titleScore, true
	}
	if strings.Contains(strings.ToLower(url), q) {
		return urlScore, true
	}
	return 0, false
}
