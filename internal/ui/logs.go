package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/marquee/internal/logtail"
)

const logTailLines = 400

// logState holds all log-related state.
type logState struct {
	lines        []string
	problemsOnly bool
	err          error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// initLogViewport initializes the log viewport.
func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(max(0, m.width-4), max(0, m.height-5))
	m.logViewport.Style = lipgloss.NewStyle()
}

// updateLogViewport resizes the viewport and re-renders its content.
func (m *Model) updateLogViewport() {
	if m.logViewport.Width == 0 {
		m.initLogViewport()
	}
	// Box inner height = content height (m.height - 3) minus two borders.
	m.logViewport.Width = max(0, m.width-4)
	m.logViewport.Height = max(0, m.height-5)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
}

// refreshLogs reads the tail of the log file off the update loop.
func (m *Model) refreshLogs() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	problemsOnly := m.logState.problemsOnly
	return func() tea.Msg {
		var keep func(string) bool
		if problemsOnly {
			keep = logtail.IsProblem
		}
		lines, err := logtail.ReadMatching(path, logTailLines, keep)
		return logLinesMsg{lines: lines, err: err}
	}
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.lines = msg.lines
	}
	m.updateLogViewport()
	m.logViewport.GotoBottom()
}

// handleLogsKey processes keyboard input for the log view.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleProblems):
		m.logState.problemsOnly = !m.logState.problemsOnly
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Reload):
		return m, m.refreshLogs()
	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logViewport.PageUp()
	}
	return m, nil
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	title := "Log"
	if m.logState.problemsOnly {
		title = "Log (problems)"
	}
	return m.renderBox(title, m.logViewport.View(), m.width, m.height-chromeHeight, true)
}

func (m Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	switch {
	case m.logPath == "":
		return bg.FillLine(bg.Render("Logging to file is disabled", styles.MutedText), width)
	case m.logState.err != nil:
		return bg.FillLine(bg.Render("Cannot read log: "+m.logState.err.Error(), styles.DangerText), width)
	case len(m.logState.lines) == 0:
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logState.lines {
		lineContent := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText) +
			bg.Render(truncate(line, max(1, width-7)), m.levelStyle(logtail.Level(line), styles))
		b.WriteString(bg.FillLine(lineContent, width))
		if i < len(m.logState.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// levelStyle returns the style for a console log level token.
func (m Model) levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "WRN":
		return styles.WarningText
	case "ERR", "FTL", "PNC":
		return styles.DangerText
	case "DBG", "TRC":
		return styles.FaintText
	default:
		return styles.Text
	}
}
