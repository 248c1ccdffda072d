package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	idWidth   = 12
	ansiBlue  = "4"
	ansiGreen = "2"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ansiBlue))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiGreen))
)

// printTable writes a left-aligned table with a styled header row.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(len(h), idWidth)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	_, _ = fmt.Fprintln(w, headerStyle.Render(formatRow(headers, widths)))
	for _, row := range rows {
		_, _ = fmt.Fprintln(w, formatRow(row, widths))
	}
}

func formatRow(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	return strings.TrimRight(strings.Join(parts, "  "), " ")
}

func printFooter(w io.Writer, msg string) {
	_, _ = fmt.Fprintln(w, footerStyle.Render(msg))
}
