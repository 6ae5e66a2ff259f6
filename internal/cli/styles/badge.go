package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// AccentBadge renders a badge with accent color.
func (t *Theme) AccentBadge(text string) string {
	return t.Badge.Render(text)
}

// MutedBadge renders a badge with muted colors.
func (t *Theme) MutedBadge(text string) string {
	return t.BadgeMuted.Render(text)
}

// LifeBadge renders a character status (Alive, Dead, unknown).
func (t *Theme) LifeBadge(status string) string {
	var bg lipgloss.Color
	switch strings.ToLower(status) {
	case "alive":
		bg = t.Success
	case "dead":
		bg = t.Error
	default:
		bg = t.Muted
	}
	if status == "" {
		status = "unknown"
	}
	return lipgloss.NewStyle().
		Foreground(t.Background).
		Background(bg).
		Padding(0, 1).
		Render(status)
}

// RelativeTime formats a time as a human-readable relative string.
func RelativeTime(tm time.Time) string {
	return relativeTimeFrom(time.Now(), tm)
}

func relativeTimeFrom(now, tm time.Time) string {
	diff := now.Sub(tm)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "m")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "h")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "d")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "w")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/(24*30)), "mo")
	default:
		return plural(int(diff.Hours()/(24*365)), "y")
	}
}

func plural(n int, unit string) string {
	return fmt.Sprintf("%d%s ago", n, unit)
}

// CreatedLabel renders an RFC 3339 creation timestamp as a date plus
// relative age. Unparseable values are returned unchanged.
func CreatedLabel(created string) string {
	if created == "" {
		return "unknown"
	}
	tm, err := time.Parse(time.RFC3339, created)
	if err != nil {
		return created
	}
	return fmt.Sprintf("%s (%s)", tm.Format("2006-01-02"), RelativeTime(tm))
}
