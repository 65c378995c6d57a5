// Package tui is the chrome's terminal front-end: a tab strip, an omnibox,
// and a progress bar over the session store. It is event wiring only; all
// tab/order/selection logic lives in internal/session, and page content is
// rendered by the host process's webview surfaces, not here.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lotas/fenster/internal/applog"
	"github.com/lotas/fenster/internal/bookmarks"
	"github.com/lotas/fenster/internal/history"
	"github.com/lotas/fenster/internal/host"
	"github.com/lotas/fenster/internal/session"
	"github.com/lotas/fenster/internal/types"
)

// hostCallTimeout bounds every request to the host process.
const hostCallTimeout = 5 * time.Second

// --- Messages ---

type hostNotifMsg struct{ n host.Notification }
type hostGoneMsg struct{}
type hostReadyMsg struct{}
type progressTickMsg struct{}

// Model is the bubbletea model for the chrome.
type Model struct {
	store    *session.Store
	drag     *session.Drag
	progress *session.Progress
	bridge   *host.Bridge
	marks    *bookmarks.Store
	visits   *history.Log

	omnibox Omnibox

	restore *types.SessionSnapshot // replayed once the host attaches
	width   int
	height  int
	frame   int // advances with progress ticks, animates the bar
	err     error
}

// NewModel wires the chrome together. restore may be nil.
func NewModel(store *session.Store, bridge *host.Bridge, marks *bookmarks.Store, visits *history.Log, restore *types.SessionSnapshot) Model {
	store.OnVisit(visits.Record)
	return Model{
		store:    store,
		drag:     session.NewDrag(store),
		progress: session.NewProgress(),
		bridge:   bridge,
		marks:    marks,
		visits:   visits,
		restore:  restore,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		serveBridge(m.bridge),
		listenBridge(m.bridge),
		waitForHost(m.bridge),
	)
}

func serveBridge(b *host.Bridge) tea.Cmd {
	return func() tea.Msg {
		b.ListenAndServe(context.Background())
		return hostGoneMsg{}
	}
}

func listenBridge(b *host.Bridge) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-b.Notifications()
		if !ok {
			return hostGoneMsg{}
		}
		return hostNotifMsg{n}
	}
}

// waitForHost polls until the host process attaches, then triggers the
// session restore.
func waitForHost(b *host.Bridge) tea.Cmd {
	return func() tea.Msg {
		for !b.Connected() {
			time.Sleep(200 * time.Millisecond)
		}
		return hostReadyMsg{}
	}
}

func progressTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case hostNotifMsg:
		m.applyNotification(msg.n)
		return m, tea.Batch(listenBridge(m.bridge), progressTick())

	case hostReadyMsg:
		m.replayRestore()
		return m, progressTick()

	case hostGoneMsg:
		applog.Info("tui.hostgone")
		return m, nil

	case progressTickMsg:
		m.frame++
		if m.progress.Tick(time.Now()) || m.progress.Visible() {
			return m, progressTick()
		}
		return m, nil
	}
	return m, nil
}

// applyNotification reconciles one host message into the store and keeps
// the progress indicator in step with the active tab.
func (m *Model) applyNotification(n host.Notification) {
	switch n.Kind {
	case host.NotifyTabUpdated:
		m.store.ApplyHostUpdate(*n.Tab)
		if n.Tab.ID == m.store.ActiveID() {
			if n.Tab.IsLoading {
				m.progress.Start(time.Now())
			} else {
				m.progress.Finish(time.Now())
			}
		}
	case host.NotifyTabClosed:
		m.store.ApplyHostClosed(n.TabID)
	}
}

// replayRestore recreates the saved session through the host.
func (m *Model) replayRestore() {
	snap := m.restore
	m.restore = nil
	if snap == nil || len(snap.Tabs) == 0 {
		return
	}
	applog.Info("tui.restore", "tabs", len(snap.Tabs))

	var activeID string
	for i, st := range snap.Tabs {
		ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
		tab, err := m.store.CreateTab(ctx, st.URL)
		cancel()
		if err != nil {
			applog.Error("tui.restore", err, "url", st.URL)
			continue
		}
		if st.Pinned {
			m.store.TogglePin(tab.ID)
		}
		if i == snap.ActiveIndex {
			activeID = tab.ID
		}
	}
	if activeID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
		m.store.SwitchTo(ctx, activeID)
		cancel()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+q":
		return m, tea.Quit

	case "ctrl+t":
		ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
		defer cancel()
		if _, err := m.store.CreateTab(ctx, ""); err != nil {
			m.err = err
		}
		m.omnibox.Focus()
		return m, nil

	case "ctrl+w":
		if id := m.store.ActiveID(); id != "" {
			ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
			defer cancel()
			if err := m.store.CloseTab(ctx, id); err != nil {
				m.err = err
			}
		}
		return m, nil

	case "ctrl+p":
		if id := m.store.ActiveID(); id != "" {
			m.store.TogglePin(id)
		}
		return m, nil

	case "ctrl+d":
		if tab := m.store.ActiveTab(); tab != nil && tab.URL != "" {
			m.marks.Toggle(tab.URL, tab.Title)
		}
		return m, nil

	case "ctrl+l":
		m.omnibox.Focus()
		return m, nil

	case "ctrl+right":
		m.switchRelative(1)
		return m, nil

	case "ctrl+left":
		m.switchRelative(-1)
		return m, nil
	}

	if m.omnibox.Focused() {
		return m.handleOmniboxKey(msg)
	}
	return m, nil
}

// switchRelative activates the neighbor tab in the given direction,
// wrapping around the strip.
func (m *Model) switchRelative(delta int) {
	n := m.store.Len()
	if n < 2 {
		return
	}
	idx := m.store.IndexOf(m.store.ActiveID())
	next := (idx + delta + n) % n
	ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
	defer cancel()
	m.store.SwitchTo(ctx, m.store.Tabs()[next].ID)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	rects := TabRects(m.store.Tabs(), m.width)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != tabStripRow {
			return m, nil
		}
		if id := hitTab(rects, msg.X); id != "" {
			ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
			m.store.SwitchTo(ctx, id)
			cancel()
			m.drag.Start(id, msg.X)
		}
		return m, nil

	case tea.MouseActionMotion:
		if m.drag.Active() {
			m.drag.Move(msg.X, rects)
		}
		return m, nil

	case tea.MouseActionRelease:
		m.drag.Release()
		return m, nil
	}
	return m, nil
}

// navigate drives the active tab (creating one if the session is empty)
// to the omnibox input.
func (m *Model) navigate(input string) {
	ctx, cancel := context.WithTimeout(context.Background(), hostCallTimeout)
	defer cancel()

	id := m.store.ActiveID()
	if id == "" {
		tab, err := m.store.CreateTab(ctx, "")
		if err != nil {
			m.err = err
			return
		}
		id = tab.ID
	}
	if err := m.store.Navigate(ctx, id, input); err != nil {
		m.err = err
		return
	}
	m.progress.Start(time.Now())
}
