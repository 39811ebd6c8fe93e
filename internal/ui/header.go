package ui

import (
	"fmt"
	"strings"

	"github.com/five82/marquee/internal/state"
)

// headerTitle describes what the list currently shows.
func headerTitle(snap state.Snapshot) string {
	if snap.IsSearch() {
		return fmt.Sprintf("Searching for: %q", snap.Query)
	}
	return "Popular"
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)
	snap := m.snapshot

	parts := []string{
		bg.Render("marquee", styles.AccentText.Bold(true)),
		bg.Render(headerTitle(snap), styles.Title),
	}

	switch snap.Phase() {
	case state.PhaseReady:
		parts = append(parts,
			bg.Render("Page", styles.MutedText)+bg.Spaces(1)+
				bg.Render(fmt.Sprintf("%d/%d", snap.Page, snap.TotalPages), styles.Text),
			bg.Render(fmt.Sprintf("%d", len(snap.Items)), styles.Text)+bg.Spaces(1)+
				bg.Render("movies", styles.MutedText),
		)
		if snap.LoadingMore {
			parts = append(parts, bg.Render("Loading more...", styles.WarningText))
		}
	case state.PhaseFailed:
		parts = append(parts, bg.Render("Offline", styles.DangerText))
	default:
		parts = append(parts, bg.Render("Loading...", styles.WarningText))
	}

	if !snap.LastUpdated.IsZero() && m.width >= 100 {
		parts = append(parts, bg.Render(snap.LastUpdated.Format("15:04:05"), styles.FaintText))
	}

	return styles.Header.Width(m.width).Render(strings.Join(parts, sep))
}

// renderCommandBar renders the command hints bar.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	switch {
	case m.searching:
		commands = []cmd{
			{"enter", "Done"},
			{"esc", "Done"},
			{"up/down", "Navigate"},
		}
	case m.currentView == ViewLogs:
		filterLabel := "Problems"
		if m.logState.problemsOnly {
			filterLabel = "All lines"
		}
		commands = []cmd{
			{"f", filterLabel},
			{"r", "Reload"},
			{"j/k", "Scroll"},
			{"l", "Movies"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"/", "Search"},
			{"c", "Clear"},
			{"j/k", "Navigate"},
			{"p", "Posters"},
			{"l", "Logs"},
			{"?", "More"},
		}
		if m.snapshot.Phase() == state.PhaseFailed {
			commands = append([]cmd{{"r", "Try again"}}, commands...)
		}
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
