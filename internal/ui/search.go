package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleSearchKey routes keys while the search input has focus. Every edit is
// handed to the debouncer; only the settled value reaches the controller.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm), key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	case msg.Type == tea.KeyUp:
		return m, m.fetch(m.moveSelection(-1))
	case msg.Type == tea.KeyDown:
		return m, m.fetch(m.moveSelection(1))
	}

	before := m.searchInput.Value()
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if after := m.searchInput.Value(); after != before {
		m.onSearchTextChanged(after)
	}
	return m, cmd
}

func (m *Model) onSearchTextChanged(text string) {
	if m.debouncer != nil {
		m.debouncer.Input(text)
	}
}

// renderSearchBar renders the search input line.
func (m Model) renderSearchBar() string {
	bg := NewBgStyle(m.theme.Background)
	styles := m.theme.Styles().WithBackground(m.theme.Background)

	content := m.searchInput.View()
	if !m.searching && m.searchInput.Value() == "" {
		content = bg.Render("/", styles.AccentText) + bg.Spaces(1) +
			bg.Render("Search movies...", styles.FaintText)
	}
	return bg.FillLine(bg.Spaces(1)+content, m.width)
}
