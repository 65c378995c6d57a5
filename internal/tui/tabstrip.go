package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lotas/fenster/internal/session"
	"github.com/lotas/fenster/internal/types"
)

// Screen rows of the fixed chrome.
const (
	tabStripRow = 0
	toolbarRow  = 1
	progressRow = 2
)

const (
	tabCellWidth    = 24 // regular tabs
	pinnedCellWidth = 6  // pinned tabs collapse to the favicon/pin glyph
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("236"))
	draggedTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("96"))
	stripFillStyle = lipgloss.NewStyle().Background(lipgloss.Color("234"))
)

// TabRects computes each tab's horizontal extent in the strip, in cells.
// The same layout feeds rendering and mouse hit-testing, so the two can
// never disagree.
func TabRects(tabs []*types.Tab, width int) []session.TabRect {
	rects := make([]session.TabRect, 0, len(tabs))
	x := 0
	for _, tab := range tabs {
		w := tabCellWidth
		if tab.IsPinned {
			w = pinnedCellWidth
		}
		if width > 0 && x >= width {
			w = 0 // off-screen; still present so indices line up
		}
		rects = append(rects, session.TabRect{ID: tab.ID, X: x, W: w})
		x += w
	}
	return rects
}

// hitTab returns the id of the tab under x, or "".
func hitTab(rects []session.TabRect, x int) string {
	for _, r := range rects {
		if r.W > 0 && x >= r.X && x < r.X+r.W {
			return r.ID
		}
	}
	return ""
}

// renderTabStrip draws the strip: pinned tabs first (by the order
// invariant), the active tab highlighted, the dragged tab tinted.
func renderTabStrip(tabs []*types.Tab, activeID string, drag *session.Drag, width int) string {
	var b strings.Builder
	used := 0

	for _, tab := range tabs {
		w := tabCellWidth
		if tab.IsPinned {
			w = pinnedCellWidth
		}
		if used+w > width && width > 0 {
			break
		}

		style := inactiveTabStyle
		switch {
		case drag.Active() && tab.ID == drag.ID():
			style = draggedTabStyle
		case tab.ID == activeID:
			style = activeTabStyle
		}

		b.WriteString(style.Width(w).MaxWidth(w).Render(tabLabel(tab, w)))
		used += w
	}

	if width > used {
		b.WriteString(stripFillStyle.Width(width - used).Render(""))
	}
	return b.String()
}

func tabLabel(tab *types.Tab, w int) string {
	glyph := " "
	switch {
	case tab.IsLoading:
		glyph = "⟳"
	case tab.IsPinned:
		glyph = "📌"
	}

	if tab.IsPinned {
		return " " + glyph
	}

	title := tab.Title
	if title == "" {
		title = types.PlaceholderTitle
	}
	label := " " + glyph + " " + title
	if runes := []rune(label); len(runes) > w-2 {
		label = string(runes[:w-2]) + "…"
	}
	return label
}
