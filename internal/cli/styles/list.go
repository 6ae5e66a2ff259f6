package styles

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/cardex/internal/domain/entity"
)

const (
	defaultCardWidth = 48
	cardIndent       = 3
	ellipsis         = "…"
)

// CharacterItem adapts a character to list.Item.
type CharacterItem struct {
	entity.Character
}

// FilterValue implements list.Item.
func (i CharacterItem) FilterValue() string {
	return i.Name
}

// Summary returns the species/type/gender line of the card.
func (i CharacterItem) Summary() string {
	return strings.Join([]string{
		orUnknown(i.Species),
		i.DisplayType(),
		orUnknown(i.Gender),
	}, " · ")
}

// CharacterItems converts characters to list items.
func CharacterItems(chars []entity.Character) []list.Item {
	items := make([]list.Item, len(chars))
	for i, c := range chars {
		items[i] = CharacterItem{Character: c}
	}
	return items
}

// CharacterDelegate renders characters as three-line cards.
type CharacterDelegate struct {
	Theme *Theme
	Width int
}

// NewCharacterDelegate creates a themed card delegate.
func NewCharacterDelegate(theme *Theme, width int) CharacterDelegate {
	if width <= 0 {
		width = defaultCardWidth
	}
	return CharacterDelegate{Theme: theme, Width: width}
}

// Height returns the height of each card.
func (d CharacterDelegate) Height() int { return 3 }

// Spacing returns the spacing between cards.
func (d CharacterDelegate) Spacing() int { return 1 }

// Update handles item-level events.
func (d CharacterDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single card.
func (d CharacterDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ci, ok := item.(CharacterItem)
	if !ok {
		return
	}

	t := d.Theme
	isSelected := index == m.Index()
	textWidth := d.Width - cardIndent

	cursor := cursorEmpty
	nameStyle := t.ListItemTitle.Bold(true)
	descStyle := t.ListItemDesc
	if isSelected {
		cursor = cursorSelected
		nameStyle = nameStyle.Foreground(t.Accent)
		descStyle = descStyle.Foreground(t.Text)
	}

	line1 := lipgloss.JoinHorizontal(
		lipgloss.Left,
		t.Highlight.Render(cursor),
		nameStyle.Render(Truncate(ci.Name, textWidth-12)),
		" ",
		t.LifeBadge(ci.Status),
	)

	indent := strings.Repeat(" ", cardIndent)
	line2 := indent + descStyle.Render(Truncate(ci.Summary(), textWidth))
	line3 := indent + t.Subtle.Render(Truncate(
		fmt.Sprintf("%s  %s", CreatedLabel(ci.Created), ci.Image), textWidth))

	_, _ = fmt.Fprintf(w, "%s\n%s\n%s", line1, line2, line3)
}

// NewCharacterList creates a themed list for character cards.
func NewCharacterList(theme *Theme, cardWidth, width, height int) list.Model {
	l := list.New(nil, NewCharacterDelegate(theme, cardWidth), width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()

	l.Styles.PaginationStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	l.Styles.ActivePaginationDot = lipgloss.NewStyle().Foreground(theme.Accent)
	l.Styles.InactivePaginationDot = lipgloss.NewStyle().Foreground(theme.Muted)
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(theme.Muted)

	return l
}

// Truncate shortens s to at most n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return ellipsis
	}
	return string(runes[:n-1]) + ellipsis
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
