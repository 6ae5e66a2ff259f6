package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/cardex/internal/domain/entity"
)

const tableHeaderHeight = 2

// NewStyledTable creates a themed, unfocused table model.
// Height counts rows only; room for the header is added here.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, height int) table.Model {
	width := 0
	for _, c := range columns {
		width += c.Width + 2 // default cell padding
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height+tableHeaderHeight),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	// Static output: no row highlight.
	s.Selected = s.Cell.Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// CacheStatsColumns returns columns for the page cache counters table.
func CacheStatsColumns() []table.Column {
	return []table.Column{
		{Title: "Counter", Width: 18},
		{Title: "Value", Width: 8},
	}
}

// CacheStatsRow is one counter of the page cache.
type CacheStatsRow struct {
	Name  string
	Value int64
}

// ToRow converts to table.Row.
func (r CacheStatsRow) ToRow() table.Row {
	return table.Row{r.Name, strconv.FormatInt(r.Value, 10)}
}

// RenderCacheStats renders counters and the resident keys (oldest first).
func (t *Theme) RenderCacheStats(rows []CacheStatsRow, resident []entity.PageKey) string {
	tableRows := make([]table.Row, len(rows))
	for i, r := range rows {
		tableRows[i] = r.ToRow()
	}
	tbl := NewStyledTable(t, CacheStatsColumns(), tableRows, len(tableRows))

	keys := make([]string, len(resident))
	for i, k := range resident {
		keys[i] = k.String()
	}
	residentLine := t.Subtle.Render("resident: ") + t.Normal.Render(strings.Join(keys, ", "))
	if len(keys) == 0 {
		residentLine = t.Subtle.Render("resident: (none)")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Subtitle.Render(IconCache+" Page cache"),
		tbl.View(),
		residentLine,
	)
}
