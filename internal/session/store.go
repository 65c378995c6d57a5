// Package session owns the authoritative set of open tabs: their order,
// pin state, active selection, and the controllers that mutate them.
//
// The store runs single-owner, single-goroutine: the UI event loop is the
// only mutator. Host-originated notifications are reconciled through
// ApplyHostUpdate/ApplyHostClosed, which are idempotent and keyed by tab
// id, so duplicate or out-of-order delivery is harmless.
package session

import (
	"context"
	"errors"

	"github.com/lotas/fenster/internal/applog"
	"github.com/lotas/fenster/internal/host"
	"github.com/lotas/fenster/internal/pagemeta"
	"github.com/lotas/fenster/internal/types"
	"github.com/lotas/fenster/internal/urlx"
)

var (
	// ErrUnknownTab is returned for operations on a tab id not in the set.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrTabPinned is returned when closing a pinned tab; callers must
	// unpin first.
	ErrTabPinned = errors.New("tab is pinned")
)

// Store is the tab session: a set of tabs, their user-visible order, and
// the active selection.
//
// Order invariant: order is a permutation of the tab set's keys, and all
// pinned tabs form a contiguous prefix. Every mutation preserves this.
// Active invariant: activeID is empty exactly when the set is empty, and
// otherwise names a tab in the set.
type Store struct {
	host host.Host

	tabs     map[string]*types.Tab
	order    []string
	activeID string

	onChange func()
	onVisit  func(title, url string)
}

// NewStore creates an empty session bound to the given host.
func NewStore(h host.Host) *Store {
	return &Store{
		host: h,
		tabs: make(map[string]*types.Tab),
	}
}

// OnChange registers the single change-notification hook. The UI redraws
// from it and never mutates store state directly.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

// OnVisit registers the hook called when a tab finishes loading a page,
// with the page's title and URL. Wired to the history log.
func (s *Store) OnVisit(fn func(title, url string)) {
	s.onVisit = fn
}

func (s *Store) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Tabs returns the tabs in session order.
func (s *Store) Tabs() []*types.Tab {
	out := make([]*types.Tab, len(s.order))
	for i, id := range s.order {
		out[i] = s.tabs[id]
	}
	return out
}

// Tab returns the tab with the given id, or nil.
func (s *Store) Tab(id string) *types.Tab {
	return s.tabs[id]
}

// Len returns the number of open tabs.
func (s *Store) Len() int {
	return len(s.order)
}

// ActiveID returns the active tab id, or "" when the session is empty.
func (s *Store) ActiveID() string {
	return s.activeID
}

// ActiveTab returns the active tab, or nil when the session is empty.
func (s *Store) ActiveTab() *types.Tab {
	if s.activeID == "" {
		return nil
	}
	return s.tabs[s.activeID]
}

// IndexOf returns the order position of the tab, or -1.
func (s *Store) IndexOf(id string) int {
	for i, oid := range s.order {
		if oid == id {
			return i
		}
	}
	return -1
}

// pinnedCount returns the size of the pinned prefix. Under the order
// invariant this equals the total number of pinned tabs.
func (s *Store) pinnedCount() int {
	n := 0
	for _, id := range s.order {
		if s.tabs[id].IsPinned {
			n++
		}
	}
	return n
}

// CreateTab asks the host for a new browsing surface and adds the returned
// tab at the end of the order, active. The add is atomic: a host failure
// leaves the session untouched.
func (s *Store) CreateTab(ctx context.Context, url string) (*types.Tab, error) {
	state, err := s.host.CreateTab(ctx, url)
	if err != nil {
		applog.Error("session.create", err, "url", url)
		return nil, err
	}

	tab := tabFromState(state)
	s.tabs[tab.ID] = tab
	s.order = append(s.order, tab.ID)
	s.activeID = tab.ID

	applog.Info("session.create", "id", tab.ID, "url", tab.URL)
	s.changed()
	return tab, nil
}

// CloseTab closes an unpinned tab. Unknown ids return ErrUnknownTab and
// pinned tabs ErrTabPinned, both without state change. If the closed tab
// was active, the tab that now occupies its order position becomes active,
// falling back to the new last tab, or to no selection when the session
// empties.
func (s *Store) CloseTab(ctx context.Context, id string) error {
	tab, ok := s.tabs[id]
	if !ok {
		return ErrUnknownTab
	}
	if tab.IsPinned {
		return ErrTabPinned
	}

	if err := s.host.CloseTab(ctx, id); err != nil {
		applog.Error("session.close", err, "id", id)
		return err
	}

	s.removeTab(id)
	applog.Info("session.close", "id", id)
	s.changed()
	return nil
}

// ApplyHostClosed reconciles a tab the host closed on its own. Unknown
// ids are a safe no-op (e.g. a duplicate notification).
func (s *Store) ApplyHostClosed(id string) {
	if _, ok := s.tabs[id]; !ok {
		return
	}
	s.removeTab(id)
	applog.Info("session.hostclosed", "id", id)
	s.changed()
}

// removeTab deletes the tab and its order entry and repairs the active
// selection.
func (s *Store) removeTab(id string) {
	idx := s.IndexOf(id)
	delete(s.tabs, id)
	s.order = append(s.order[:idx], s.order[idx+1:]...)

	if s.activeID != id {
		return
	}
	switch {
	case len(s.order) == 0:
		s.activeID = ""
	case idx < len(s.order):
		s.activeID = s.order[idx]
	default:
		s.activeID = s.order[len(s.order)-1]
	}
}

// SwitchTo makes the tab active and tells the host to swap surface
// visibility. The host call happens first so a rejected switch leaves the
// selection untouched.
func (s *Store) SwitchTo(ctx context.Context, id string) error {
	if _, ok := s.tabs[id]; !ok {
		return ErrUnknownTab
	}
	if id == s.activeID {
		return nil
	}
	if err := s.host.ActivateTab(ctx, id); err != nil {
		applog.Error("session.switch", err, "id", id)
		return err
	}
	s.activeID = id
	s.changed()
	return nil
}

// Navigate normalizes the omnibox input and starts a navigation in the
// given tab. The tab is marked loading; completion arrives later as a
// host update.
func (s *Store) Navigate(ctx context.Context, id, input string) error {
	tab, ok := s.tabs[id]
	if !ok {
		return ErrUnknownTab
	}
	url := urlx.Normalize(input)
	if err := s.host.NavigateTo(ctx, id, url); err != nil {
		applog.Error("session.navigate", err, "id", id, "url", url)
		return err
	}
	tab.URL = url
	tab.IsLoading = true
	applog.Info("session.navigate", "id", id, "url", url)
	s.changed()
	return nil
}

// ApplyHostUpdate merges a host-reported tab state. Unknown ids are an
// implicit creation (unpinned, appended to the order). Applying the same
// update twice leaves the session unchanged.
func (s *Store) ApplyHostUpdate(state host.TabState) {
	if state.ID == "" {
		return
	}

	tab, ok := s.tabs[state.ID]
	if !ok {
		tab = tabFromState(state)
		s.tabs[tab.ID] = tab
		s.order = append(s.order, tab.ID)
		if s.activeID == "" {
			s.activeID = tab.ID
		}
		applog.Info("session.implicit", "id", tab.ID, "url", tab.URL)
	}

	wasLoading := tab.IsLoading

	tab.URL = state.URL
	tab.CanGoBack = state.CanGoBack
	tab.CanGoForward = state.CanGoForward
	tab.IsLoading = state.IsLoading
	if state.Favicon != "" {
		tab.Favicon = state.Favicon
	}
	tab.Title = resolveTitle(state)

	if wasLoading && !state.IsLoading && s.onVisit != nil {
		s.onVisit(tab.Title, tab.URL)
	}
	s.changed()
}

// resolveTitle picks the tab title from a host update: the reported title,
// else one derived from page content, else a placeholder for blank pages.
func resolveTitle(state host.TabState) string {
	if state.Title != "" {
		return state.Title
	}
	if state.Content != "" || state.URL != "" {
		return pagemeta.Title(state.Content, state.URL)
	}
	return types.PlaceholderTitle
}

// TogglePin flips the tab's pin state and re-threads it to the pin
// boundary: the end of the pinned block when pinning, the start of the
// unpinned block when unpinning. The relative order of all other tabs is
// preserved, so pin contiguity survives any reachable prior state.
func (s *Store) TogglePin(id string) error {
	tab, ok := s.tabs[id]
	if !ok {
		return ErrUnknownTab
	}

	idx := s.IndexOf(id)
	s.order = append(s.order[:idx], s.order[idx+1:]...)
	tab.IsPinned = !tab.IsPinned

	// With the tab removed, the remaining pinned tabs are still a
	// contiguous prefix; their count is the boundary index, which is the
	// insertion point in both directions.
	boundary := s.pinnedCount()
	s.order = append(s.order, "")
	copy(s.order[boundary+1:], s.order[boundary:])
	s.order[boundary] = id

	applog.Info("session.pin", "id", id, "pinned", tab.IsPinned)
	s.changed()
	return nil
}

// Reorder moves the tab to targetIndex within its own pin partition,
// shifting intervening tabs. Unknown ids and moves that would cross the
// pin boundary are silent no-ops: they represent disallowed drop targets,
// not failures.
func (s *Store) Reorder(id string, targetIndex int) error {
	tab, ok := s.tabs[id]
	if !ok {
		return nil
	}
	idx := s.IndexOf(id)
	if targetIndex == idx {
		return nil
	}

	boundary := s.pinnedCount()
	if tab.IsPinned {
		if targetIndex < 0 || targetIndex >= boundary {
			return nil
		}
	} else {
		if targetIndex < boundary || targetIndex >= len(s.order) {
			return nil
		}
	}

	s.order = append(s.order[:idx], s.order[idx+1:]...)
	s.order = append(s.order, "")
	copy(s.order[targetIndex+1:], s.order[targetIndex:])
	s.order[targetIndex] = id

	s.changed()
	return nil
}

// Snapshot captures the session for restore on next start.
func (s *Store) Snapshot() *types.SessionSnapshot {
	snap := &types.SessionSnapshot{ActiveIndex: -1}
	for i, id := range s.order {
		tab := s.tabs[id]
		snap.Tabs = append(snap.Tabs, types.SessionTab{
			URL:    tab.URL,
			Title:  tab.Title,
			Pinned: tab.IsPinned,
		})
		if id == s.activeID {
			snap.ActiveIndex = i
		}
	}
	return snap
}

func tabFromState(state host.TabState) *types.Tab {
	return &types.Tab{
		ID:           state.ID,
		Title:        resolveTitle(state),
		URL:          state.URL,
		CanGoBack:    state.CanGoBack,
		CanGoForward: state.CanGoForward,
		IsLoading:    state.IsLoading,
		Favicon:      state.Favicon,
	}
}
