package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wfgate/gh-wfgate/pkg/styles"
)

// TableConfig describes a table to render. TotalRow is only rendered when
// ShowTotal is set.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a left-aligned table with two-space column gaps.
// Column widths are computed over headers, rows, and the total row. When
// stdout is a terminal the title and headers are emphasized.
func RenderTable(config TableConfig) string {
	cols := len(config.Headers)
	for _, row := range config.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if config.ShowTotal && len(config.TotalRow) > cols {
		cols = len(config.TotalRow)
	}
	if cols == 0 {
		if config.Title == "" {
			return ""
		}
		return renderTableTitle(config.Title) + "\n\n"
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(config.Headers)
	for _, row := range config.Rows {
		measure(row)
	}
	if config.ShowTotal {
		measure(config.TotalRow)
	}

	var b strings.Builder
	if config.Title != "" {
		b.WriteString(renderTableTitle(config.Title))
		b.WriteString("\n\n")
	}

	writeRow := func(row []string, styled bool) {
		line := formatTableRow(row, widths)
		if styled {
			line = render(styles.Bold, line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(config.Headers) > 0 {
		writeRow(config.Headers, true)
	}
	for _, row := range config.Rows {
		writeRow(row, false)
	}
	if config.ShowTotal && len(config.TotalRow) > 0 {
		sep := make([]string, cols)
		for i := range sep {
			sep[i] = strings.Repeat("-", widths[i])
		}
		writeRow(sep, false)
		writeRow(config.TotalRow, true)
	}

	return b.String()
}

func renderTableTitle(title string) string {
	return render(styles.Bold, title)
}

// formatTableRow pads each cell to its column width and joins with two
// spaces, trimming trailing whitespace.
func formatTableRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := widths[i] - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		cells[i] = cell + strings.Repeat(" ", pad)
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ")
}

// FormatFileSize formats a byte count in a human-readable form with a space
// between the value and unit, e.g. "340 B" or "1.2 MB".
func FormatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
