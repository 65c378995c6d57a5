package types

import "time"

// PlaceholderTitle is shown for a tab until the host reports a real title.
const PlaceholderTitle = "New Tab"

// Tab is a single open tab. The id is assigned by the host process when the
// tab's browsing surface is created and is never reused. Tabs are owned by
// session.Store and mutated only through its methods.
type Tab struct {
	ID           string
	Title        string
	URL          string
	CanGoBack    bool
	CanGoForward bool
	IsLoading    bool
	Favicon      string // icon URL or data URI; empty if none reported
	IsPinned     bool
}

// Bookmark is a saved page. URL is the unique key: at most one bookmark
// per URL exists at any time.
type Bookmark struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// HistoryEntry is one visited page. Entries are never updated in place;
// the log only prepends and evicts from the tail.
type HistoryEntry struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionTab is the persisted form of a tab in a session-restore snapshot.
type SessionTab struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Pinned bool   `json:"pinned,omitempty"`
}

// SessionSnapshot is what survives a restart: the ordered open tabs and
// which one was active.
type SessionSnapshot struct {
	Tabs        []SessionTab `json:"tabs"`
	ActiveIndex int          `json:"activeIndex"`
	SavedAt     time.Time    `json:"savedAt"`
}
