package styles

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewDefaultSpinner creates the themed loading spinner.
func NewDefaultSpinner(theme *Theme) spinner.Model {
	s := spinner.New()
	s.Style = lipgloss.NewStyle().Foreground(theme.Accent)
	s.Spinner = spinner.MiniDot
	return s
}

// LoadingModel wraps a spinner with a message.
type LoadingModel struct {
	Spinner spinner.Model
	Message string
	theme   *Theme
}

// NewLoading creates a loading indicator with message.
func NewLoading(theme *Theme, message string) LoadingModel {
	return LoadingModel{
		Spinner: NewDefaultSpinner(theme),
		Message: message,
		theme:   theme,
	}
}

// View renders the loading indicator.
func (m LoadingModel) View() string {
	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		m.Spinner.View(),
		" ",
		m.theme.Subtle.Render(m.Message),
	)
}
