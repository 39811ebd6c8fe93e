package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

const (
	unknownYear   = "Unknown year"
	noImage       = "No image"
	loadingText   = "Loading movies..."
	emptyText     = "No movies found."
	retryHint     = "Press r to try again"
	chromeHeight  = 3 // header + command bar + search bar
	listFooterGap = 1 // row reserved for the load-more indicator
)

// handleBrowseKey processes keyboard input for the browse view.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.ClearSearch):
		if m.searchInput.Value() != "" {
			m.searchInput.SetValue("")
			m.onSearchTextChanged("")
		}
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		if m.ctrl == nil {
			return m, nil
		}
		req := m.ctrl.Retry()
		m.refresh()
		return m, m.fetch(req)

	case key.Matches(msg, m.keys.TogglePoster):
		m.showPosters = !m.showPosters
		m.savePrefs()
		return m, nil
	}

	rows := m.listRows()
	switch {
	case key.Matches(msg, m.keys.Down):
		return m, m.fetch(m.moveSelection(1))
	case key.Matches(msg, m.keys.Up):
		return m, m.fetch(m.moveSelection(-1))
	case key.Matches(msg, m.keys.Top):
		return m, m.fetch(m.moveSelection(-len(m.snapshot.Items)))
	case key.Matches(msg, m.keys.Bottom):
		return m, m.fetch(m.moveSelection(len(m.snapshot.Items)))
	case key.Matches(msg, m.keys.PageDown):
		return m, m.fetch(m.moveSelection(rows))
	case key.Matches(msg, m.keys.PageUp):
		return m, m.fetch(m.moveSelection(-rows))
	case key.Matches(msg, m.keys.HalfPageDown):
		return m, m.fetch(m.moveSelection(max(1, rows/2)))
	case key.Matches(msg, m.keys.HalfPageUp):
		return m, m.fetch(m.moveSelection(-max(1, rows/2)))
	}
	return m, nil
}

// handleQuery feeds a settled search value to the controller.
func (m *Model) handleQuery(query string) *state.Request {
	if m.ctrl == nil {
		return nil
	}
	req := m.ctrl.QueryChanged(query)
	if req != nil {
		m.selectedRow = 0
		m.offset = 0
	}
	m.refresh()
	return req
}

// handlePage applies a fetch result. When a page loaded and the list still
// ends inside the visible window it asks for the next page straight away. A
// failed load waits for the user to move again.
func (m *Model) handlePage(res state.Result) *state.Request {
	if m.ctrl == nil || !m.ctrl.Apply(res) {
		return nil
	}
	m.refresh()
	m.ensureVisible()
	if res.Err != nil {
		return nil
	}
	return m.loadMoreIfNearEnd()
}

// moveSelection moves the cursor by delta rows and signals end-of-list when
// the cursor gets close to the last item.
func (m *Model) moveSelection(delta int) *state.Request {
	count := len(m.snapshot.Items)
	if count == 0 {
		return nil
	}
	m.selectedRow = clamp(m.selectedRow+delta, 0, count-1)
	m.ensureVisible()
	return m.loadMoreIfNearEnd()
}

func (m *Model) loadMoreIfNearEnd() *state.Request {
	if m.ctrl == nil || !nearEnd(m.selectedRow, len(m.snapshot.Items), m.listRows()) {
		return nil
	}
	req := m.ctrl.EndReached()
	if req != nil {
		m.refresh()
	}
	return req
}

// nearEnd reports whether the cursor is within half a screen of the last
// item.
func nearEnd(selected, total, visible int) bool {
	if total == 0 {
		return false
	}
	threshold := max(1, visible/2)
	return total-1-selected <= threshold
}

// listRows is the number of item rows that fit in the list pane.
func (m Model) listRows() int {
	return max(1, m.height-chromeHeight-2-listFooterGap)
}

// ensureVisible keeps the selected row inside the scroll window.
func (m *Model) ensureVisible() {
	count := len(m.snapshot.Items)
	if count == 0 {
		m.selectedRow = 0
		m.offset = 0
		return
	}
	m.selectedRow = clamp(m.selectedRow, 0, count-1)
	rows := m.listRows()
	if m.selectedRow < m.offset {
		m.offset = m.selectedRow
	}
	if m.selectedRow >= m.offset+rows {
		m.offset = m.selectedRow - rows + 1
	}
	m.offset = clamp(m.offset, 0, max(0, count-rows))
}

func (m Model) selectedMovie() *tmdb.Movie {
	if m.selectedRow < 0 || m.selectedRow >= len(m.snapshot.Items) {
		return nil
	}
	movie := m.snapshot.Items[m.selectedRow]
	return &movie
}

// renderBrowse renders the content area for the current controller phase.
func (m Model) renderBrowse() string {
	styles := m.theme.Styles()
	contentHeight := m.height - chromeHeight
	snap := m.snapshot

	switch snap.Phase() {
	case state.PhaseIdle, state.PhaseInitialLoading:
		msg := m.spinner.View() + " " + styles.MutedText.Render(loadingText)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)

	case state.PhaseFailed:
		msg := lipgloss.JoinVertical(lipgloss.Center,
			styles.DangerText.Width(min(m.width, 60)).Align(lipgloss.Center).Render(snap.ErrMessage),
			"",
			styles.AccentText.Render(retryHint),
		)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	if len(snap.Items) == 0 {
		msg := styles.MutedText.Render(emptyText)
		return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, msg)
	}

	// Extra wide (>= 160): 40% list, 60% detail. Default: 55% list.
	var listWidth int
	if m.width >= 160 {
		listWidth = m.width * 40 / 100
	} else {
		listWidth = m.width * 55 / 100
	}
	detailWidth := m.width - listWidth

	listTitle := fmt.Sprintf("Movies (%d)", len(snap.Items))
	listPane := m.renderBox(listTitle, m.renderList(listWidth-2), listWidth, contentHeight, true)

	var detail string
	if movie := m.selectedMovie(); movie != nil {
		detail = m.renderDetail(*movie, detailWidth-4)
	}
	detailPane := m.renderBox("Details", detail, detailWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// renderList renders the visible slice of items plus the load-more footer.
func (m Model) renderList(width int) string {
	items := m.snapshot.Items
	rows := m.listRows()
	end := min(len(items), m.offset+rows)

	lines := make([]string, 0, rows+listFooterGap)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.formatRow(items[i], width, i == m.selectedRow))
	}
	for len(lines) < rows {
		lines = append(lines, "")
	}

	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	switch {
	case m.snapshot.LoadingMore:
		lines = append(lines, bg.Render(m.spinner.View()+" Loading more...", styles.MutedText))
	case !m.snapshot.HasMore():
		lines = append(lines, bg.Render("End of results", styles.FaintText))
	default:
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// formatRow formats one list row as "Title  Year".
func (m Model) formatRow(movie tmdb.Movie, width int, selected bool) string {
	bgColor := m.theme.FocusBg
	if selected {
		bgColor = m.theme.SelectionBg
	}
	bg := NewBgStyle(bgColor)
	styles := m.theme.Styles()

	titleStyle := styles.Text
	yearStyle := styles.MutedText
	if selected {
		titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText)).Bold(true)
		yearStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
	}

	year := yearLabel(movie)
	titleWidth := max(1, width-lipgloss.Width(year)-3)
	content := bg.Spaces(1) +
		bg.Render(truncate(movie.Title, titleWidth), titleStyle) +
		bg.Spaces(2) +
		bg.Render(year, yearStyle)
	return bg.FillLine(content, width)
}

// renderDetail renders the selected movie's details.
func (m Model) renderDetail(movie tmdb.Movie, width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	label := func(s string) string { return styles.MutedText.Render(fmt.Sprintf("%-10s", s)) }

	lines := []string{
		styles.Title.Render(truncate(movie.Title, width)),
		"",
		label("Year") + styles.Text.Render(yearLabel(movie)),
	}
	if date := strings.TrimSpace(movie.ReleaseDate); date != "" {
		lines = append(lines, label("Released")+styles.Text.Render(date))
	}
	lines = append(lines, label("TMDB ID")+styles.Text.Render(fmt.Sprintf("%d", movie.ID)))

	lines = append(lines, "")
	switch {
	case !m.showPosters:
		lines = append(lines, styles.FaintText.Render("Posters hidden (p to show)"))
	case movie.PosterURL(m.imageBase) == "":
		lines = append(lines, label("Poster")+styles.WarningText.Render(noImage))
	default:
		lines = append(lines, label("Poster")+styles.AccentText.Render(truncateMiddle(movie.PosterURL(m.imageBase), max(1, width-10))))
	}
	return strings.Join(lines, "\n")
}

func yearLabel(movie tmdb.Movie) string {
	if year := movie.Year(); year != "" {
		return year
	}
	return unknownYear
}

// renderBox draws a bordered pane with the title embedded in the top border.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	borderColor, bgColor := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColor, bgColor = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColor)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColor))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(0, width-2)
	title = truncate(title, max(0, innerWidth-4))
	titleLen := lipgloss.Width(title)
	leftPad := max(0, (innerWidth-titleLen-2)/2)
	rightPad := max(0, innerWidth-titleLen-2-leftPad)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(lipgloss.Color(bgColor))
	contentLines := strings.Split(content, "\n")
	boxHeight := max(0, height-2)

	lines := make([]string, 0, boxHeight+2)
	lines = append(lines, top)
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		lines = append(lines, bg.Render("│", borderStyle)+contentStyle.Render(line)+bg.Render("│", borderStyle))
	}
	lines = append(lines, bottom)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
