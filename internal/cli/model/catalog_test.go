package model

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/cardex/internal/application/usecase"
	"github.com/bnema/cardex/internal/cli/styles"
	"github.com/bnema/cardex/internal/domain/entity"
	"github.com/bnema/cardex/internal/infrastructure/config"
)

type catalogStub struct {
	mu    sync.Mutex
	pages map[entity.PageKey]*entity.Page
	calls []entity.PageKey
}

func (s *catalogStub) RequestPage(_ context.Context, term string, page int) (*entity.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := entity.NewPageKey(term, page)
	s.calls = append(s.calls, key)
	if p, ok := s.pages[key]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", usecase.ErrNotFound, key)
}

func newCatalogStub() *catalogStub {
	rick := entity.Character{ID: 1, Name: "Rick Sanchez", Species: "Human", Status: "Alive", Gender: "Male"}
	morty := entity.Character{ID: 2, Name: "Morty Smith", Species: "Human", Status: "Alive", Gender: "Male"}
	squanchy := entity.Character{ID: 331, Name: "Squanchy", Species: "Alien", Type: "Cat-Person", Status: "Alive"}

	return &catalogStub{pages: map[entity.PageKey]*entity.Page{
		entity.NewPageKey("", 1):     {Results: []entity.Character{rick, morty}, TotalPages: 3},
		entity.NewPageKey("", 2):     {Results: []entity.Character{squanchy}, TotalPages: 3},
		entity.NewPageKey("", 3):     {Results: []entity.Character{morty}, TotalPages: 3},
		entity.NewPageKey("rick", 1): {Results: []entity.Character{rick}, TotalPages: 1},
		entity.NewPageKey("void", 1): {Results: []entity.Character{}, TotalPages: 1},
	}}
}

func newTestCatalogModel(t *testing.T) (CatalogModel, *usecase.BrowseSession) {
	t.Helper()
	session := usecase.NewBrowseSession(newCatalogStub())
	theme := styles.NewTheme(config.DefaultConfig())
	m := NewCatalogModel(context.Background(), theme, session, CatalogModelConfig{
		CardWidth:      48,
		SearchDebounce: time.Millisecond,
		ToastTTL:       time.Millisecond,
	})
	return m, session
}

// deliver runs the fetch for req and feeds the result to the model.
func deliver(t *testing.T, m CatalogModel, req usecase.PageRequest) CatalogModel {
	t.Helper()
	return update(t, m, m.load(req)())
}

func update(t *testing.T, m CatalogModel, msg tea.Msg) CatalogModel {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(CatalogModel)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m CatalogModel, k string) (CatalogModel, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(CatalogModel), cmd
}

// collect runs cmd and returns the messages it produced, flattening batches.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// applyLoads feeds every pageLoadedMsg produced by cmd to the model.
func applyLoads(t *testing.T, m CatalogModel, cmd tea.Cmd) CatalogModel {
	t.Helper()
	for _, msg := range collect(cmd) {
		if loaded, ok := msg.(pageLoadedMsg); ok {
			m = update(t, m, loaded)
		}
	}
	return m
}

func mounted(t *testing.T) (CatalogModel, *usecase.BrowseSession) {
	t.Helper()
	m, session := newTestCatalogModel(t)
	return deliver(t, m, session.Mount()), session
}

func TestCatalogModel_MountShowsFirstPage(t *testing.T) {
	m, session := mounted(t)

	view := m.View()
	assert.Contains(t, view, "Page 1 of 3")
	assert.Contains(t, view, "Rick Sanchez")
	assert.Contains(t, view, "all characters")
	assert.Equal(t, usecase.SessionLoaded, session.Snapshot().State)
}

func TestCatalogModel_InitStartsMount(t *testing.T) {
	m, session := newTestCatalogModel(t)
	require.NotNil(t, m.Init())
	assert.Equal(t, usecase.SessionLoading, session.Snapshot().State)
}

func TestCatalogModel_NextAndPrev(t *testing.T) {
	m, session := mounted(t)

	_, cmd := press(t, m, "p")
	assert.Nil(t, cmd, "no previous page on page 1")

	m, cmd = press(t, m, "n")
	require.NotNil(t, cmd)
	assert.True(t, m.view.Loading())
	assert.Equal(t, 2, m.view.Page)

	m = applyLoads(t, m, cmd)
	assert.Contains(t, m.View(), "Page 2 of 3")
	assert.Contains(t, m.View(), "Squanchy")

	m, cmd = press(t, m, "n")
	m = applyLoads(t, m, cmd)
	_, cmd = press(t, m, "n")
	assert.Nil(t, cmd, "no next page on last page")

	m, cmd = press(t, m, "p")
	m = applyLoads(t, m, cmd)
	assert.Equal(t, 2, session.Snapshot().Page)
	assert.Contains(t, m.View(), "Page 2 of 3")
}

func TestCatalogModel_StaleResponseIgnored(t *testing.T) {
	m, session := newTestCatalogModel(t)

	first := session.Mount()
	second := session.Search("rick")

	m = deliver(t, m, first)
	assert.Empty(t, m.list.Items(), "stale mount result must not render")

	m = deliver(t, m, second)
	require.Len(t, m.list.Items(), 1)
	assert.Contains(t, m.View(), "Page 1 of 1")
	assert.Contains(t, m.View(), "rick")
}

func TestCatalogModel_NotFoundBanner(t *testing.T) {
	m, session := mounted(t)

	m = deliver(t, m, session.Search("nobody"))

	view := m.View()
	assert.Contains(t, view, "No characters found")
	assert.False(t, m.view.CanNext())
	assert.False(t, m.view.CanPrev())

	_, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
}

func TestCatalogModel_EmptyPageIsNotNotFound(t *testing.T) {
	m, session := mounted(t)

	m = deliver(t, m, session.Search("void"))

	assert.False(t, m.view.NotFound)
	assert.Contains(t, m.View(), "This page has no characters")
	assert.NotContains(t, m.View(), "No characters found")
}

func TestCatalogModel_SearchSubmit(t *testing.T) {
	m, session := mounted(t)

	m, _ = press(t, m, "/")
	require.True(t, m.searchMode)

	m, _ = press(t, m, "rick")
	assert.Equal(t, "rick", m.search.Value())

	m, cmd := press(t, m, "enter")
	assert.False(t, m.searchMode)
	assert.Equal(t, "searched for rick", m.toast.Message)
	assert.Equal(t, styles.ToastSuccess, m.toast.Level)

	m = applyLoads(t, m, cmd)
	snap := session.Snapshot()
	assert.Equal(t, "rick", snap.Term)
	assert.Equal(t, 1, snap.Page)
	assert.Contains(t, m.View(), "Page 1 of 1")
}

func TestCatalogModel_EmptySearchWarnsAndLoads(t *testing.T) {
	m, session := mounted(t)

	m, _ = press(t, m, "/")
	m, cmd := press(t, m, "enter")

	assert.Equal(t, "type a name to search", m.toast.Message)
	assert.Equal(t, styles.ToastError, m.toast.Level)

	applyLoads(t, m, cmd)
	assert.Equal(t, "", session.Snapshot().Term)
	assert.Equal(t, 1, session.Snapshot().Page)
}

func TestCatalogModel_LiveSearchDebounce(t *testing.T) {
	m, session := mounted(t)

	m, _ = press(t, m, "/")
	m, cmd := press(t, m, "r")
	require.NotNil(t, cmd)
	m, _ = press(t, m, "ick")

	_, cmd = m.Update(searchDebounceMsg{id: m.debounceID - 1, term: "r"})
	assert.Nil(t, cmd, "superseded keystroke is dropped")
	assert.Equal(t, "", session.Snapshot().Term)

	next, cmd := m.Update(searchDebounceMsg{id: m.debounceID, term: "rick"})
	require.NotNil(t, cmd)
	m = applyLoads(t, next.(CatalogModel), cmd)
	assert.Equal(t, "rick", session.Snapshot().Term)
	assert.True(t, m.searchMode, "live search keeps focus")
}

func TestCatalogModel_EscLeavesSearch(t *testing.T) {
	m, _ := mounted(t)

	m, _ = press(t, m, "/")
	m, cmd := press(t, m, "esc")
	assert.False(t, m.searchMode)
	assert.Nil(t, cmd)
}

func TestCatalogModel_Reset(t *testing.T) {
	m, session := mounted(t)
	m = deliver(t, m, session.Search("rick"))
	m.search.SetValue("rick")

	m, cmd := press(t, m, "r")
	assert.Equal(t, "filter reset", m.toast.Message)
	assert.Equal(t, "", m.search.Value())

	m = applyLoads(t, m, cmd)
	snap := session.Snapshot()
	assert.Equal(t, "", snap.Term)
	assert.Equal(t, 1, snap.Page)
	assert.Contains(t, m.View(), "Page 1 of 3")
}

func TestCatalogModel_SelectShowsSpecies(t *testing.T) {
	m, _ := mounted(t)

	m, cmd := press(t, m, "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, "Rick Sanchez is a Human", m.toast.Message)
	assert.Contains(t, m.View(), "Rick Sanchez is a Human")
}

func TestCatalogModel_ToastExpiry(t *testing.T) {
	m, _ := mounted(t)
	m, _ = press(t, m, "enter")
	m, _ = press(t, m, "enter")

	m = update(t, m, toastExpiredMsg{id: m.toastID - 1})
	assert.NotEmpty(t, m.toast.Message, "older expiry keeps the newer toast")

	m = update(t, m, toastExpiredMsg{id: m.toastID})
	assert.Empty(t, m.toast.Message)
}

func TestCatalogModel_HelpToggle(t *testing.T) {
	m, _ := mounted(t)
	m, _ = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "leave search")
}

func TestCatalogModel_Quit(t *testing.T) {
	m, _ := mounted(t)
	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCatalogModel_WindowResize(t *testing.T) {
	m, _ := mounted(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40-m.chromeHeight(), m.list.Height())
	assert.LessOrEqual(t, lipgloss.Height(m.View()), 40)
}

func TestCatalogModel_ListShrinksForHelpAndToast(t *testing.T) {
	m, _ := mounted(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	base := m.list.Height()

	m, _ = press(t, m, "?")
	withHelp := m.list.Height()
	assert.Less(t, withHelp, base, "full help takes rows from the list")

	m, _ = press(t, m, "enter")
	require.NotEmpty(t, m.toast.Message)
	assert.Less(t, m.list.Height(), withHelp, "toast takes rows from the list")
	assert.LessOrEqual(t, lipgloss.Height(m.View()), 40, "pager stays on screen")

	m = update(t, m, toastExpiredMsg{id: m.toastID})
	assert.Equal(t, withHelp, m.list.Height())
}

func TestCatalogModel_ThemeChanged(t *testing.T) {
	m, _ := mounted(t)

	palette := config.DefaultDarkPalette()
	palette.Accent = "#ff00ff"
	m = update(t, m, ThemeChangedMsg{Theme: styles.NewThemeFromPalette(palette), CardWidth: 60})

	assert.Equal(t, "#ff00ff", string(m.theme.Accent))
	assert.Equal(t, 60, m.cfg.CardWidth)
	assert.Len(t, m.list.Items(), 2, "items survive a theme swap")
}
