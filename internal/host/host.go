// Package host is the boundary to the privileged browser process: the one
// that owns the real webview surfaces and performs navigation. The chrome
// talks to it over a local WebSocket with request/response calls plus
// unsolicited notifications (tab updated, tab closed by host).
package host

import (
	"context"
	"errors"
)

// ErrNotConnected is returned for calls made while no host is attached.
var ErrNotConnected = errors.New("host not connected")

// TabState is the host's view of a tab, carried on createTab responses and
// tabUpdated notifications.
type TabState struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	CanGoBack    bool   `json:"canGoBack"`
	CanGoForward bool   `json:"canGoForward"`
	IsLoading    bool   `json:"isLoading"`
	Favicon      string `json:"favicon,omitempty"`
	// Content is raw page HTML, sent by hosts that could not determine a
	// title so the chrome can derive one itself.
	Content string `json:"content,omitempty"`
}

// Host is what the session store needs from the privileged process.
// Implemented by Bridge; tests substitute a fake.
type Host interface {
	// CreateTab asks the host to create a browsing surface. The host
	// assigns the tab id and makes the new surface visible.
	CreateTab(ctx context.Context, url string) (TabState, error)
	// ActivateTab makes the given tab's surface visible and input-receiving;
	// all other surfaces are hidden with input passthrough enabled so the
	// chrome stays clickable above them.
	ActivateTab(ctx context.Context, id string) error
	// NavigateTo starts a real navigation in the given tab.
	NavigateTo(ctx context.Context, id, url string) error
	// CloseTab tears down the tab's browsing surface.
	CloseTab(ctx context.Context, id string) error
}

// NotificationKind tags an unsolicited host message.
type NotificationKind string

const (
	NotifyTabUpdated NotificationKind = "tabUpdated"
	NotifyTabClosed  NotificationKind = "tabClosed"
)

// Notification is a fire-and-forget message from the host.
// Tab is set for tabUpdated, TabID for tabClosed.
type Notification struct {
	Kind  NotificationKind
	Tab   *TabState
	TabID string
}
