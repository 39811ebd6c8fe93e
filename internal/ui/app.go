package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/marquee/internal/debounce"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewBrowse View = iota
	ViewLogs
)

// Options configures the UI.
type Options struct {
	Context      context.Context
	Controller   *state.Controller
	Debouncer    *debounce.Debouncer
	ImageBaseURL string
	LogPath      string
	ThemeName    string
	ShowPosters  bool
	PrefsPath    string
	Logger       *zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *state.Controller
	debouncer *debounce.Debouncer
	imageBase string
	logPath   string
	prefsPath string
	log       zerolog.Logger
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	showPosters bool

	// Browse state
	snapshot    state.Snapshot
	selectedRow int
	offset      int
	searchInput textinput.Model
	searching   bool
	spinner     spinner.Model

	// Log state
	logViewport viewport.Model
	logState    logState
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "ui").Logger()
	}

	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.Prompt = "/ "
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	theme := GetTheme(themeName)
	m := Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		debouncer:   opts.Debouncer,
		imageBase:   opts.ImageBaseURL,
		logPath:     opts.LogPath,
		prefsPath:   prefsPath,
		log:         logger,
		keys:        DefaultKeyMap(),
		theme:       theme,
		currentView: ViewBrowse,
		showPosters: opts.ShowPosters,
		searchInput: ti,
		spinner:     sp,
	}
	m.applyThemeToWidgets()
	return m
}

// Init implements tea.Model. Mounting the screen is the first effective
// query change: the popular listing.
func (m Model) Init() tea.Cmd {
	var req *state.Request
	if m.ctrl != nil {
		req = m.ctrl.QueryChanged("")
	}
	return tea.Batch(
		m.spinner.Tick,
		m.fetch(req),
		waitForQuery(m.debouncer),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.refresh()
		m.ensureVisible()
		m.updateLogViewport()
		return m, nil

	case queryMsg:
		req := m.handleQuery(string(msg))
		return m, tea.Batch(m.fetch(req), waitForQuery(m.debouncer))

	case pageMsg:
		return m, m.fetch(m.handlePage(state.Result(msg)))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderBrowse())
	}
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyThemeToWidgets()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		if m.currentView == ViewLogs {
			m.currentView = ViewBrowse
			return m, nil
		}
		m.currentView = ViewLogs
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewBrowse
		return m, nil
	}

	switch m.currentView {
	case ViewLogs:
		return m.handleLogsKey(msg)
	default:
		return m.handleBrowseKey(msg)
	}
}

// quit releases the debounce timer and stops the controller so that nothing
// in flight is applied after the screen goes away.
func (m *Model) quit() tea.Cmd {
	m.shutdown()
	return tea.Quit
}

func (m *Model) shutdown() {
	if m.debouncer != nil {
		m.debouncer.Stop()
	}
	if m.ctrl != nil {
		m.ctrl.Dispose()
	}
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, ShowPosters: m.showPosters}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save prefs failed")
	}
}

func (m *Model) applyThemeToWidgets() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.searchInput.PromptStyle = styles.AccentText
	m.searchInput.TextStyle = styles.Text
	m.searchInput.PlaceholderStyle = styles.FaintText
}

// refresh pulls a fresh snapshot from the controller.
func (m *Model) refresh() {
	if m.ctrl != nil {
		m.snapshot = m.ctrl.Snapshot()
	}
}

// Messages

type queryMsg string

type pageMsg state.Result

// Commands

// fetch turns a controller request into a command that runs the HTTP call off
// the update loop and reports back with a pageMsg.
func (m Model) fetch(req *state.Request) tea.Cmd {
	if req == nil || m.ctrl == nil {
		return nil
	}
	ctx, ctrl, r := m.ctx, m.ctrl, *req
	return func() tea.Msg {
		return pageMsg(ctrl.Fetch(ctx, r))
	}
}

// waitForQuery blocks until the debouncer settles on a value. It is re-armed
// after every queryMsg and returns nothing once the debouncer is stopped.
func waitForQuery(d *debounce.Debouncer) tea.Cmd {
	if d == nil {
		return nil
	}
	return func() tea.Msg {
		q, ok := <-d.C()
		if !ok {
			return nil
		}
		return queryMsg(q)
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx is
// cancelled.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	m.shutdown()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
