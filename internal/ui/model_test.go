package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/marquee/internal/debounce"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
	"github.com/five82/marquee/internal/tmdb"
)

type stubFetcher struct {
	mu         sync.Mutex
	queries    []string
	perPage    int
	totalPages int
	fail       []error
}

func (f *stubFetcher) FetchPage(_ context.Context, query string, page int) (tmdb.ResultPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, fmt.Sprintf("%s#%d", query, page))
	if len(f.fail) > 0 {
		err := f.fail[0]
		f.fail = f.fail[1:]
		if err != nil {
			return tmdb.ResultPage{}, err
		}
	}
	items := make([]tmdb.Movie, f.perPage)
	for i := range items {
		items[i] = tmdb.Movie{
			ID:          int64(page*100 + i),
			Title:       fmt.Sprintf("Film %d-%d", page, i),
			ReleaseDate: "2008-07-16",
			PosterPath:  "/poster.jpg",
		}
	}
	return tmdb.ResultPage{Items: items, Page: page, TotalPages: f.totalPages}, nil
}

func (f *stubFetcher) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

func newTestModel(t *testing.T, f *stubFetcher, d *debounce.Debouncer) Model {
	t.Helper()
	ctrl := state.NewController(f, zerolog.Nop())
	m := New(Options{
		Controller:   ctrl,
		Debouncer:    d,
		ImageBaseURL: tmdb.DefaultImageBaseURL,
		ShowPosters:  true,
		PrefsPath:    filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 30})
	return next.(Model)
}

// drain performs req and every follow-up load the model asks for.
func drain(t *testing.T, m *Model, req *state.Request) {
	t.Helper()
	for i := 0; req != nil; i++ {
		require.Less(t, i, 50, "too many follow-up loads")
		req = m.handlePage(m.ctrl.Fetch(context.Background(), *req))
	}
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyPress(s))
	return next.(Model), cmd
}

func TestModel_MountShowsLoadingThenPopular(t *testing.T) {
	f := &stubFetcher{perPage: 20, totalPages: 3}
	m := newTestModel(t, f, nil)

	req := m.handleQuery("")
	require.NotNil(t, req)
	assert.Contains(t, m.View(), loadingText)

	drain(t, &m, req)
	view := m.View()
	assert.Contains(t, view, "Popular")
	assert.Contains(t, view, "Film 1-0")
	assert.Contains(t, view, "2008")
	assert.Equal(t, []string{"#1"}, f.calls())
}

func TestModel_ShortListLoadsUntilScreenFills(t *testing.T) {
	f := &stubFetcher{perPage: 5, totalPages: 10}
	m := newTestModel(t, f, nil)

	drain(t, &m, m.handleQuery(""))

	rows := m.listRows()
	items := len(m.snapshot.Items)
	assert.False(t, nearEnd(0, items, rows))
	assert.Greater(t, items, 5)
	assert.Equal(t, items/5, m.snapshot.Page)
}

func TestModel_ScrollingToEndAppendsNextPage(t *testing.T) {
	f := &stubFetcher{perPage: 20, totalPages: 2}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))
	require.Len(t, m.snapshot.Items, 20)

	m, cmd := press(t, m, "G")
	require.NotNil(t, cmd)
	assert.True(t, m.snapshot.LoadingMore)

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Len(t, m.snapshot.Items, 40)
	assert.Equal(t, 2, m.snapshot.Page)
	assert.False(t, m.snapshot.HasMore())

	// No further pages.
	_, cmd = press(t, m, "G")
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"#1", "#2"}, f.calls())
}

func TestModel_LoadMoreFailureDoesNotRetry(t *testing.T) {
	f := &stubFetcher{perPage: 20, totalPages: 5, fail: []error{nil, errors.New("timeout")}}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))
	require.Len(t, m.snapshot.Items, 20)

	m, cmd := press(t, m, "G")
	require.NotNil(t, cmd)

	next, cmd := m.Update(cmd())
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"#1", "#2"}, f.calls())
	assert.Len(t, m.snapshot.Items, 20)
	assert.Equal(t, 1, m.snapshot.Page)
	assert.False(t, m.snapshot.LoadingMore)
	assert.Equal(t, state.PhaseReady, m.snapshot.Phase())

	// Moving again is what asks for the page a second time.
	m, cmd = press(t, m, "k")
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, []string{"#1", "#2", "#2"}, f.calls())
	assert.Len(t, m.snapshot.Items, 40)
}

func TestModel_ErrorViewAndRetry(t *testing.T) {
	f := &stubFetcher{perPage: 20, totalPages: 1, fail: []error{&tmdb.NetworkError{Path: "/movie/popular", Message: "offline"}}}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))

	view := m.View()
	assert.Contains(t, view, "Something went wrong")
	assert.Contains(t, view, retryHint)
	assert.Equal(t, state.PhaseFailed, m.snapshot.Phase())

	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), loadingText)

	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, state.PhaseReady, m.snapshot.Phase())
	assert.Contains(t, m.View(), "Film 1-0")
	assert.Equal(t, []string{"#1", "#1"}, f.calls())
}

func TestModel_EmptyResults(t *testing.T) {
	f := &stubFetcher{perPage: 0, totalPages: 1}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery("zzzz"))

	view := m.View()
	assert.Contains(t, view, emptyText)
	assert.Contains(t, view, `Searching for: "zzzz"`)
}

func TestModel_StaleResultIsIgnored(t *testing.T) {
	f := &stubFetcher{perPage: 3, totalPages: 1}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))

	old := m.handleQuery("bat")
	newer := m.handleQuery("batman")
	require.NotNil(t, old)
	require.NotNil(t, newer)

	drain(t, &m, newer)
	assert.Nil(t, m.handlePage(m.ctrl.Fetch(context.Background(), *old)))
	assert.Equal(t, "batman", m.snapshot.Query)
	assert.Equal(t, []string{"#1", "batman#1", "bat#1"}, f.calls())
	assert.Contains(t, m.View(), `Searching for: "batman"`)
}

func TestModel_TypingIsDebounced(t *testing.T) {
	f := &stubFetcher{perPage: 3, totalPages: 1}
	d := debounce.New(20 * time.Millisecond)
	m := newTestModel(t, f, d)
	drain(t, &m, m.handleQuery(""))

	m, _ = press(t, m, "/")
	require.True(t, m.searching)
	for _, r := range "batman" {
		m, _ = press(t, m, string(r))
	}
	assert.Equal(t, "batman", m.searchInput.Value())

	// A slow machine may let an intermediate value settle first; only the
	// final one matters.
	var q string
	deadline := time.After(2 * time.Second)
	for q != "batman" {
		select {
		case q = <-d.C():
		case <-deadline:
			t.Fatalf("debouncer did not settle on the final value, last %q", q)
		}
	}

	next, _ := m.Update(queryMsg(q))
	m = next.(Model)
	assert.True(t, m.snapshot.InitialLoading)
	assert.Equal(t, "batman", m.snapshot.Query)

	m, _ = press(t, m, "enter")
	assert.False(t, m.searching)
	d.Stop()
}

func TestModel_SearchAndClearReturnToPopular(t *testing.T) {
	f := &stubFetcher{perPage: 3, totalPages: 1}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))
	drain(t, &m, m.handleQuery("alien"))
	assert.True(t, m.snapshot.IsSearch())

	// A query of only whitespace is the popular listing.
	drain(t, &m, m.handleQuery("   "))
	assert.False(t, m.snapshot.IsSearch())
	assert.Contains(t, m.View(), "Popular")
	assert.Equal(t, []string{"#1", "alien#1", "#1"}, f.calls())
}

func TestModel_TogglePostersPersistsPrefs(t *testing.T) {
	f := &stubFetcher{perPage: 3, totalPages: 1}
	m := newTestModel(t, f, nil)
	drain(t, &m, m.handleQuery(""))
	assert.Contains(t, m.View(), "poster.jpg")

	m, _ = press(t, m, "p")
	assert.False(t, m.showPosters)
	assert.Contains(t, m.View(), "Posters hidden")
	assert.False(t, prefs.Load(m.prefsPath).ShowPosters)

	m, _ = press(t, m, "T")
	assert.Equal(t, NextTheme("Nightfox"), m.theme.Name)
	assert.Equal(t, m.theme.Name, prefs.Load(m.prefsPath).Theme)
}

func TestModel_DetailPlaceholders(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, nil)
	detail := m.renderDetail(tmdb.Movie{ID: 7, Title: "Untitled"}, 60)
	assert.Contains(t, detail, unknownYear)
	assert.Contains(t, detail, noImage)
}

func TestModel_QuitDisposesController(t *testing.T) {
	f := &stubFetcher{perPage: 3, totalPages: 1}
	d := debounce.New(time.Hour)
	m := newTestModel(t, f, d)
	req := m.handleQuery("")
	require.NotNil(t, req)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, ok := <-d.C()
	assert.False(t, ok, "debouncer channel should be closed")

	// A response landing after quit changes nothing.
	assert.Nil(t, m.handlePage(m.ctrl.Fetch(context.Background(), *req)))
	snap := m.ctrl.Snapshot()
	assert.False(t, snap.Loaded)
	assert.Empty(t, snap.Items)
}

func TestModel_HelpOverlay(t *testing.T) {
	m := newTestModel(t, &stubFetcher{}, nil)
	m, _ = press(t, m, "?")
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = press(t, m, "x")
	assert.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestModel_LogView(t *testing.T) {
	path := filepath.Join(t.TempDir(), "marquee.log")
	content := strings.Join([]string{
		"2026-01-02 10:00:00 INF first page loaded component=state",
		"2026-01-02 10:00:01 WRN load more failed component=state",
		"2026-01-02 10:00:02 DBG request done component=tmdb",
	}, "\n") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := newTestModel(t, &stubFetcher{}, nil)
	m.logPath = path

	m, cmd := press(t, m, "l")
	require.Equal(t, ViewLogs, m.currentView)
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)
	assert.Len(t, m.logState.lines, 3)
	assert.Contains(t, m.View(), "first page loaded")

	m, cmd = press(t, m, "f")
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	require.Len(t, m.logState.lines, 1)
	assert.Contains(t, m.logState.lines[0], "WRN")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ViewBrowse, m.currentView)
}

func TestNearEnd(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		total    int
		visible  int
		want     bool
	}{
		{"empty list", 0, 0, 20, false},
		{"top of long list", 0, 100, 20, false},
		{"just outside threshold", 88, 100, 20, false},
		{"at threshold", 89, 100, 20, true},
		{"last row", 99, 100, 20, true},
		{"short list", 0, 5, 20, true},
		{"tiny window", 8, 10, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nearEnd(tt.selected, tt.total, tt.visible))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Batman", truncate("Batman", 10))
	assert.Equal(t, "The Da...", truncate("The Dark Knight", 9))
	assert.Equal(t, "Amé", truncate("Amélie", 3))
	assert.Equal(t, "http…o.jpg", truncateMiddle("https://image.tmdb.org/t/p/w500/photo.jpg", 10))
}
