package styles

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

const maxSearchLength = 64

// NewSearchInput creates the character name search field.
func NewSearchInput(theme *Theme) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Search characters by name..."
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.Muted)
	ti.TextStyle = lipgloss.NewStyle().Foreground(theme.Text)
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.Accent)
	ti.Prompt = IconSearch + " "
	ti.CharLimit = maxSearchLength
	return ti
}

// InputBox wraps a text input in a styled box.
func (t *Theme) InputBox(input string, focused bool) string {
	style := t.Input
	if focused {
		style = t.InputFocused
	}
	return style.Render(input)
}
