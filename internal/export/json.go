package export

import (
	"encoding/json"
	"net/url"
	"time"

	"github.com/lotas/fenster/internal/types"
)

type jsonExport struct {
	ExportedAt time.Time      `json:"exported_at"`
	Tabs       []jsonTab      `json:"tabs"`
	Bookmarks  []jsonBookmark `json:"bookmarks"`
}

type jsonTab struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Domain string `json:"domain"`
	Pinned bool   `json:"pinned,omitempty"`
	Active bool   `json:"active,omitempty"`
}

type jsonBookmark struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
}

// JSON formats the saved session and bookmarks as a JSON document.
func JSON(snap *types.SessionSnapshot, bms []types.Bookmark) (string, error) {
	out := jsonExport{
		ExportedAt: time.Now(),
		Tabs:       []jsonTab{},
		Bookmarks:  make([]jsonBookmark, 0, len(bms)),
	}

	if snap != nil {
		for i, tab := range snap.Tabs {
			out.Tabs = append(out.Tabs, jsonTab{
				Title:  tab.Title,
				URL:    tab.URL,
				Domain: extractDomain(tab.URL),
				Pinned: tab.Pinned,
				Active: i == snap.ActiveIndex,
			})
		}
	}
	for _, bm := range bms {
		out.Bookmarks = append(out.Bookmarks, jsonBookmark{
			Title:     bm.Title,
			URL:       bm.URL,
			Domain:    extractDomain(bm.URL),
			CreatedAt: bm.CreatedAt,
		})
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func extractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Hostname()
}
