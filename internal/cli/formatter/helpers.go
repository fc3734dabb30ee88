package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tally/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatHours renders hours with an "h" suffix, e.g. "7.5h".
func FormatHours(h domain.Hours) string {
	return h.String() + "h"
}

// FormatPercent renders a 0..1 share as a percentage with one decimal.
func FormatPercent(share float64) string {
	return fmt.Sprintf("%.1f%%", share*100)
}

// FormatPeriod renders the first and last entry dates of a summary.
func FormatPeriod(first, last *time.Time) string {
	switch {
	case first == nil || last == nil:
		return "--"
	case first.Equal(*last):
		return first.Format("Mon Jan 2, 2006")
	default:
		days := int(last.Sub(*first).Hours()/24) + 1
		return fmt.Sprintf("%s – %s (%d days)", first.Format("Jan 2"), last.Format("Jan 2, 2006"), days)
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}
