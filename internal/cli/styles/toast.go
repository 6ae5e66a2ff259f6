package styles

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ToastLevel selects the toast color.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastSuccess
	ToastError
)

// Toast is a short-lived status notification.
type Toast struct {
	Message string
	Level   ToastLevel
}

// RenderToast renders a status notification line.
func (t *Theme) RenderToast(toast Toast) string {
	if toast.Message == "" {
		return ""
	}

	icon, color := IconInfo, t.Accent
	switch toast.Level {
	case ToastSuccess:
		icon, color = IconCheck, t.Success
	case ToastError:
		icon, color = IconWarning, t.Error
	}

	style := lipgloss.NewStyle().
		Foreground(color).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	return style.Render(fmt.Sprintf("%s %s", icon, toast.Message))
}

// RenderPager renders "Page P of T" between prev/next hints that dim
// when the move is not allowed.
func (t *Theme) RenderPager(page, total int, canPrev, canNext bool) string {
	arrow := func(icon, label string, enabled bool) string {
		if enabled {
			return t.Highlight.Render(icon + " " + label)
		}
		return t.Subtle.Faint(true).Render(icon + " " + label)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Center,
		arrow(IconPrev, "prev", canPrev),
		"   ",
		t.Normal.Render(fmt.Sprintf("Page %d of %d", page, total)),
		"   ",
		arrow("next", IconCursor, canNext),
	)
}

// RenderNotFound renders the empty-state banner.
func (t *Theme) RenderNotFound(term string) string {
	msg := "No characters found"
	if term != "" {
		msg = fmt.Sprintf("No characters found for %q", term)
	}
	return t.Banner.Render(IconX + " " + msg)
}
