package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lotas/fenster/internal/session"
)

var (
	progressFillStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	progressTrackStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	errStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	contentStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderTabStrip(m.store.Tabs(), m.store.ActiveID(), m.drag, m.width))
	b.WriteString("\n")
	b.WriteString(m.renderToolbar())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n")

	rows := 3
	if lines := m.renderSuggestions(); len(lines) > 0 {
		for _, line := range lines {
			b.WriteString(line)
			b.WriteString("\n")
			rows++
		}
	} else {
		b.WriteString(m.renderContent())
		b.WriteString("\n")
		rows++
	}

	if m.err != nil {
		b.WriteString(errStyle.Render(" " + m.err.Error()))
		b.WriteString("\n")
		rows++
	}

	for ; rows < m.height; rows++ {
		b.WriteString("\n")
	}
	return b.String()
}

// renderProgress draws the loading bar row. Indeterminate shows a sliding
// segment, Completing a full bar, Hidden a blank row.
func (m Model) renderProgress() string {
	switch m.progress.State() {
	case session.ProgressIndeterminate:
		const segment = 12
		if m.width <= segment {
			return progressFillStyle.Render(strings.Repeat("━", m.width))
		}
		offset := (m.frame * 3) % (m.width - segment + 1)
		return progressTrackStyle.Render(strings.Repeat("─", offset)) +
			progressFillStyle.Render(strings.Repeat("━", segment)) +
			progressTrackStyle.Render(strings.Repeat("─", m.width-offset-segment))
	case session.ProgressCompleting:
		return progressFillStyle.Render(strings.Repeat("━", m.width))
	}
	return strings.Repeat(" ", m.width)
}

// renderContent stands in for the page area. Actual pages are painted by
// the host's webview surfaces, so the terminal shows where the active tab
// points.
func (m Model) renderContent() string {
	tab := m.store.ActiveTab()
	if tab == nil {
		return contentStyle.Render("  ctrl+t opens a tab, ctrl+l focuses the address bar")
	}
	if tab.URL == "" {
		return contentStyle.Render("  " + tab.Title)
	}
	return contentStyle.Render("  " + tab.Title + " · " + tab.URL)
}
