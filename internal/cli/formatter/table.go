package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = "  "

// RenderTable lays rows out under headers with a rule below the header.
// Cells may already carry styling; widths are measured on visible text.
// Rows shorter than headers are padded with empty cells, extra cells are
// dropped.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}

	widths := columnWidths(headers, rows)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = StyleDim.Render(strings.Repeat("─", w))
	}
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}

	var b strings.Builder
	writeRow(&b, styled, widths)
	writeRow(&b, rule, widths)
	for _, row := range rows {
		writeRow(&b, row, widths)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range min(len(row), len(widths)) {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}

// writeRow pads every cell but the last to its column width.
func writeRow(b *strings.Builder, cells []string, widths []int) {
	last := len(widths) - 1
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		b.WriteString(cell)
		if i < last {
			b.WriteString(strings.Repeat(" ", max(w-lipgloss.Width(cell), 0)))
			b.WriteString(columnGap)
		}
	}
	b.WriteString("\n")
}
