package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lotas/fenster/internal/suggest"
)

// Omnibox is the address/search input with its suggestion dropdown.
type Omnibox struct {
	focused     bool
	input       string
	suggestions []suggest.Suggestion
	selected    int // -1 = free text, otherwise index into suggestions
}

// Focused reports whether the omnibox has keyboard focus.
func (o *Omnibox) Focused() bool {
	return o.focused
}

// Focus opens the omnibox with an empty input. The active tab's URL stays
// visible in the toolbar until the first keystroke replaces the display.
func (o *Omnibox) Focus() {
	o.focused = true
	o.input = ""
	o.suggestions = nil
	o.selected = -1
}

// Blur closes the omnibox and drops its state.
func (o *Omnibox) Blur() {
	o.focused = false
	o.input = ""
	o.suggestions = nil
	o.selected = -1
}

// Text returns what navigation should use: the selected suggestion's URL
// if one is highlighted, else the typed input.
func (o *Omnibox) Text() string {
	if o.selected >= 0 && o.selected < len(o.suggestions) {
		return o.suggestions[o.selected].URL
	}
	return o.input
}

// handleOmniboxKey edits the omnibox and re-ranks suggestions on every
// input change.
func (m Model) handleOmniboxKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	o := &m.omnibox

	switch msg.String() {
	case "esc":
		o.Blur()
		return m, nil

	case "enter":
		input := o.Text()
		o.Blur()
		if strings.TrimSpace(input) != "" {
			m.navigate(input)
		}
		return m, progressTick()

	case "up":
		if o.selected > -1 {
			o.selected--
		}
		return m, nil

	case "down":
		if o.selected < len(o.suggestions)-1 {
			o.selected++
		}
		return m, nil

	case "backspace":
		if len(o.input) > 0 {
			runes := []rune(o.input)
			o.input = string(runes[:len(runes)-1])
			m.rerank()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		o.input += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			o.input += " "
		}
		m.rerank()
	}
	return m, nil
}

// rerank refreshes the dropdown from bookmarks and history.
func (m *Model) rerank() {
	o := &m.omnibox
	o.suggestions = suggest.Rank(o.input, m.marks.All(), m.visits.Entries())
	o.selected = -1
}

var (
	omniboxStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("237"))
	urlStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	starStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	suggestionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	suggestionSelSty = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62"))
	suggestionURLSty = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// renderToolbar draws the back/forward indicators, the address display or
// input, and the bookmark star.
func (m Model) renderToolbar() string {
	tab := m.store.ActiveTab()

	nav := " "
	if tab != nil {
		nav += arrow("◀", tab.CanGoBack) + " " + arrow("▶", tab.CanGoForward) + " "
	} else {
		nav += "◀ ▶ "
	}

	star := "  "
	if tab != nil && m.marks.Has(tab.URL) {
		star = starStyle.Render("★ ")
	}

	var address string
	if m.omnibox.Focused() {
		address = omniboxStyle.Render(" " + m.omnibox.input + "▏")
	} else if tab != nil {
		address = urlStyle.Render(" " + tab.URL)
	} else {
		address = urlStyle.Render(" — no tabs —")
	}

	line := nav + address
	gap := m.width - lipgloss.Width(line) - lipgloss.Width(star) - 1
	if gap < 1 {
		gap = 1
	}
	return line + strings.Repeat(" ", gap) + star
}

func arrow(glyph string, enabled bool) string {
	if enabled {
		return glyph
	}
	return urlStyle.Render(glyph)
}

// renderSuggestions draws the dropdown under the toolbar.
func (m Model) renderSuggestions() []string {
	if !m.omnibox.Focused() || len(m.omnibox.suggestions) == 0 {
		return nil
	}
	lines := make([]string, 0, len(m.omnibox.suggestions))
	for i, s := range m.omnibox.suggestions {
		marker := "  "
		if s.Source == suggest.SourceBookmark {
			marker = starStyle.Render("★ ")
		}
		row := marker + s.Title + "  " + suggestionURLSty.Render(s.URL)
		if i == m.omnibox.selected {
			row = suggestionSelSty.Render("▸ " + s.Title + "  " + s.URL)
		} else {
			row = suggestionStyle.Render("  ") + row
		}
		lines = append(lines, row)
	}
	return lines
}
