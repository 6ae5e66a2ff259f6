// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/logging"
)

const (
	defaultSearchDebounce = 300 * time.Millisecond
	defaultToastTTL       = 3 * time.Second

	minListHeight = 4
)

// CatalogModelConfig holds optional settings for the catalog browser.
type CatalogModelConfig struct {
	CardWidth int
	// SearchDebounce delays live search while typing (default 300ms).
	SearchDebounce time.Duration
	// ToastTTL is how long a status notification stays visible (default 3s).
	ToastTTL time.Duration
}

// CatalogModel is the Bubble Tea model for the interactive character browser.
type CatalogModel struct {
	// UI components
	list    list.Model
	search  textinput.Model
	help    help.Model
	spinner spinner.Model
	keys    styles.CatalogKeyMap

	// State
	view       usecase.SessionView
	searchMode bool
	showHelp   bool
	toast      styles.Toast
	toastID    int
	debounceID int
	width      int
	height     int

	// Dependencies
	ctx     context.Context
	session *usecase.BrowseSession
	theme   *styles.Theme
	cfg     CatalogModelConfig
}

// NewCatalogModel creates a new catalog browser model over session.
func NewCatalogModel(
	ctx context.Context,
	theme *styles.Theme,
	session *usecase.BrowseSession,
	cfg CatalogModelConfig,
) CatalogModel {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating catalog model")

	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = defaultSearchDebounce
	}
	if cfg.ToastTTL <= 0 {
		cfg.ToastTTL = defaultToastTTL
	}

	const width, height = 80, 24
	m := CatalogModel{
		list:    styles.NewCharacterList(theme, cfg.CardWidth, width, height),
		search:  styles.NewSearchInput(theme),
		help:    styles.NewStyledHelp(theme),
		spinner: styles.NewDefaultSpinner(theme),
		keys:    styles.DefaultCatalogKeyMap(),
		view:    session.Snapshot(),
		ctx:     ctx,
		session: session,
		theme:   theme,
		cfg:     cfg,
		width:   width,
		height:  height,
	}
	m.fitList()
	return m
}

// ThemeChangedMsg swaps the theme at runtime (config hot reload).
type ThemeChangedMsg struct {
	Theme     *styles.Theme
	CardWidth int
}

// pageLoadedMsg carries the outcome of one session request.
type pageLoadedMsg struct {
	req  usecase.PageRequest
	page *entity.Page
	err  error
}

// searchDebounceMsg fires when typing paused long enough.
type searchDebounceMsg struct {
	id   int
	term string
}

// toastExpiredMsg clears the toast it was scheduled for.
type toastExpiredMsg struct {
	id int
}

// Init implements tea.Model.
func (m CatalogModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(m.session.Mount()))
}

// load fetches req off the UI goroutine.
func (m CatalogModel) load(req usecase.PageRequest) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		page, err := session.Fetch(ctx, req)
		return pageLoadedMsg{req: req, page: page, err: err}
	}
}

// Update implements tea.Model.
func (m CatalogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.dispatch(msg)
	if cm, ok := next.(CatalogModel); ok {
		// Toasts, help and the filter input change the chrome height.
		cm.fitList()
		return cm, cmd
	}
	return next, cmd
}

func (m CatalogModel) dispatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case pageLoadedMsg:
		return m.handlePageLoaded(msg)
	case searchDebounceMsg:
		return m.handleSearchDebounce(msg)
	case toastExpiredMsg:
		if msg.id == m.toastID {
			m.toast = styles.Toast{}
		}
		return m, nil
	case ThemeChangedMsg:
		return m.handleThemeChanged(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m CatalogModel) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width
	m.search.Width = max(msg.Width-10, 10)
	return m, nil
}

func (m CatalogModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searchMode {
		return m.handleSearchKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m CatalogModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searchMode = false
		m.search.Blur()
		return m, nil
	case tea.KeyEnter:
		m.searchMode = false
		m.search.Blur()
		cmd := m.submitSearch(m.search.Value())
		return m, cmd
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}

	m.debounceID++
	id, term := m.debounceID, m.search.Value()
	return m, tea.Batch(cmd, tea.Tick(m.cfg.SearchDebounce, func(time.Time) tea.Msg {
		return searchDebounceMsg{id: id, term: term}
	}))
}

func (m CatalogModel) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		cmd := m.search.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Next):
		req, ok := m.session.NextPage()
		if !ok {
			return m, nil
		}
		return m.begin(req)
	case key.Matches(msg, m.keys.Prev):
		req, ok := m.session.PrevPage()
		if !ok {
			return m, nil
		}
		return m.begin(req)
	case key.Matches(msg, m.keys.Reset):
		m.debounceID++
		m.search.SetValue("")
		toastCmd := m.showToast("filter reset", styles.ToastSuccess)
		req := m.session.Reset()
		m.view = m.session.Snapshot()
		return m, tea.Batch(toastCmd, m.load(req))
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(styles.CharacterItem)
		if !ok {
			return m, nil
		}
		cmd := m.showToast(fmt.Sprintf("%s is a %s", item.Name, item.Species), styles.ToastInfo)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// submitSearch runs an explicit search. An empty term still loads page 1
// of the unfiltered catalog but warns the user.
func (m *CatalogModel) submitSearch(raw string) tea.Cmd {
	m.debounceID++
	term := strings.TrimSpace(raw)

	var toastCmd tea.Cmd
	if term == "" {
		toastCmd = m.showToast("type a name to search", styles.ToastError)
	} else {
		toastCmd = m.showToast(fmt.Sprintf("searched for %s", term), styles.ToastSuccess)
	}

	req := m.session.Search(term)
	m.view = m.session.Snapshot()
	return tea.Batch(toastCmd, m.load(req))
}

func (m CatalogModel) handleSearchDebounce(msg searchDebounceMsg) (tea.Model, tea.Cmd) {
	if msg.id != m.debounceID {
		return m, nil
	}
	return m.begin(m.session.SetTerm(msg.term))
}

// begin records the loading state for req and schedules its fetch.
func (m CatalogModel) begin(req usecase.PageRequest) (tea.Model, tea.Cmd) {
	m.view = m.session.Snapshot()
	return m, m.load(req)
}

func (m CatalogModel) handlePageLoaded(msg pageLoadedMsg) (tea.Model, tea.Cmd) {
	log := logging.FromContext(m.ctx)

	if !m.session.Resolve(msg.req, msg.page, msg.err) {
		log.Debug().
			Uint64("generation", msg.req.Generation).
			Str("term", msg.req.Term).
			Int("page", msg.req.Page).
			Msg("ignoring stale page")
		return m, nil
	}
	if msg.err != nil {
		log.Debug().Err(msg.err).Str("term", msg.req.Term).Int("page", msg.req.Page).Msg("page not found")
	}

	m.view = m.session.Snapshot()
	cmd := m.list.SetItems(styles.CharacterItems(m.view.Results))
	m.list.Select(0)
	return m, cmd
}

func (m CatalogModel) handleThemeChanged(msg ThemeChangedMsg) (tea.Model, tea.Cmd) {
	if msg.Theme == nil {
		return m, nil
	}
	m.theme = msg.Theme
	if msg.CardWidth > 0 {
		m.cfg.CardWidth = msg.CardWidth
	}

	items := m.list.Items()
	index := m.list.Index()
	m.list = styles.NewCharacterList(m.theme, m.cfg.CardWidth, m.width, m.list.Height())
	cmd := m.list.SetItems(items)
	m.list.Select(index)

	value, focused := m.search.Value(), m.search.Focused()
	m.search = styles.NewSearchInput(m.theme)
	m.search.SetValue(value)
	if focused {
		m.search.Focus()
	}
	m.help = styles.NewStyledHelp(m.theme)
	m.help.ShowAll = m.showHelp
	m.spinner.Style = lipgloss.NewStyle().Foreground(m.theme.Accent)
	return m, cmd
}

// showToast sets the toast and schedules its expiry.
func (m *CatalogModel) showToast(message string, level styles.ToastLevel) tea.Cmd {
	m.toastID++
	m.toast = styles.Toast{Message: message, Level: level}
	id := m.toastID
	return tea.Tick(m.cfg.ToastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// View implements tea.Model.
func (m CatalogModel) View() string {
	top, bottom := m.chrome()
	sections := append(append(top, m.renderBody()), bottom...)
	return lipgloss.NewStyle().Padding(0, 1).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// chrome renders everything above and below the card list.
func (m CatalogModel) chrome() (top, bottom []string) {
	t := m.theme
	top = []string{
		m.renderHeader(),
		t.InputBox(m.search.View(), m.searchMode),
	}
	bottom = []string{
		t.RenderPager(m.view.Page, m.view.TotalPages, m.view.CanPrev(), m.view.CanNext()),
	}
	if toast := t.RenderToast(m.toast); toast != "" {
		bottom = append(bottom, toast)
	}
	bottom = append(bottom, m.help.View(m.keys))
	return top, bottom
}

// chromeHeight measures the rendered chrome in lines.
func (m CatalogModel) chromeHeight() int {
	top, bottom := m.chrome()
	return lipgloss.Height(lipgloss.JoinVertical(lipgloss.Left, append(top, bottom...)...))
}

// fitList gives the card list whatever height the chrome leaves.
func (m *CatalogModel) fitList() {
	m.list.SetSize(m.width, max(m.height-m.chromeHeight(), minListHeight))
}

func (m CatalogModel) renderHeader() string {
	t := m.theme
	title := t.Highlight.Render(styles.IconUser + " cardex")

	filter := t.MutedBadge("all characters")
	if m.view.Term != "" {
		filter = t.AccentBadge(m.view.Term)
	}

	status := ""
	if m.view.Loading() {
		status = m.spinner.View() + " " + t.Subtle.Render(fmt.Sprintf("loading page %d", m.view.Page))
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", filter, "  ", status)
}

func (m CatalogModel) renderBody() string {
	t := m.theme
	switch {
	case m.view.NotFound:
		return t.RenderNotFound(m.view.Term)
	case m.view.State == usecase.SessionIdle:
		return t.Subtle.Render("Starting...")
	case len(m.view.Results) == 0 && !m.view.Loading():
		return t.Subtle.Render("This page has no characters")
	}
	return m.list.View()
}
