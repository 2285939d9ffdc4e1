package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/sprintboard/internal/domain"
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

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueStyled renders a stored due date with its distance from now, colored
// by urgency. Completed work is never urgent. Unparseable dates are shown
// as stored.
func DueStyled(raw string, done bool, now time.Time) string {
	t, ok := domain.ParseDate(raw)
	if !ok {
		if strings.TrimSpace(raw) == "" {
			return Dim("--")
		}
		return raw
	}
	style := StyleFg
	if !done {
		switch days := int(math.Round(t.Sub(now).Hours() / 24)); {
		case days <= 2:
			style = StyleRed
		case days <= 7:
			style = StyleYellow
		}
	}
	return style.Render(t.Format(domain.DateLayout)) + " " + Dim("("+RelativeDateFrom(t, now)+")")
}

// HumanDate formats a stored timestamp as "Jan 2, 2006", or the raw value
// when it cannot be parsed.
func HumanDate(raw string) string {
	t, ok := domain.ParseDate(raw)
	if !ok {
		if raw == "" {
			return "--"
		}
		return raw
	}
	return t.Format("Jan 2, 2006")
}

// StatusPill returns a colored indicator for a lifecycle status.
func StatusPill(status domain.Status) string {
	switch status.Canonical() {
	case domain.StatusPending:
		return StyleBlue.Render("○ Pending")
	case domain.StatusPlanned:
		return StylePurple.Render("◇ Planned")
	case domain.StatusInProgress:
		return StyleGreen.Render("● In Progress")
	case domain.StatusCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		if status == "" {
			return StyleDim.Render("--")
		}
		return StyleDim.Render(string(status))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Points renders a story point count, or a dim dash for zero.
func Points(n int) string {
	if n == 0 {
		return Dim("--")
	}
	return fmt.Sprintf("%d", n)
}
