package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders config status messages with styled output.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

// RenderConfigInfo renders the config file path.
func (r *ConfigRenderer) RenderConfigInfo(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Accent)
	return fmt.Sprintf("\n  %s Config %s\n", iconStyle.Render(IconConfig), r.theme.Subtle.Render(path))
}

// RenderSettings renders key/value pairs as an aligned block.
func (r *ConfigRenderer) RenderSettings(title string, rows [][2]string) string {
	width := 0
	for _, row := range rows {
		width = max(width, len(row[0]))
	}

	var sb strings.Builder
	sb.WriteString(r.theme.BoxHeader.Render(title))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s  %s\n",
			r.theme.Subtle.Render(fmt.Sprintf("%-*s", width, row[0])),
			r.theme.Normal.Render(row[1]),
		))
	}
	return r.theme.Box.Render(strings.TrimRight(sb.String(), "\n"))
}

// RenderSchemaWritten renders the success message after writing the schema file.
func (r *ConfigRenderer) RenderSchemaWritten(path string) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Success)
	return fmt.Sprintf("\n  %s Schema written to %s\n", iconStyle.Render(IconCheck), r.theme.Subtle.Render(path))
}

// RenderError renders an error message.
func (r *ConfigRenderer) RenderError(err error) string {
	iconStyle := lipgloss.NewStyle().Foreground(r.theme.Error)
	return fmt.Sprintf("\n  %s %s\n", iconStyle.Render(IconX), r.theme.ErrorStyle.Render(err.Error()))
}
