package formatter

import (
	"fmt"
	"strings"
)

// RenderPoints draws closed against planned story points as a bar followed
// by the raw counts, e.g. [█████░░░░░] 5/10 pts. An empty plan renders an
// empty bar. Colour follows completion: red under a third, yellow under two
// thirds, green above.
func RenderPoints(closed, planned, width int) string {
	width = max(width, 2)

	filled := 0
	if planned > 0 {
		filled = min(max(closed, 0)*width/planned, width)
	}

	style := StyleGreen
	switch {
	case filled*3 < width:
		style = StyleRed
	case filled*3 < width*2:
		style = StyleYellow
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %d/%d pts", style.Render(bar), closed, planned)
}
