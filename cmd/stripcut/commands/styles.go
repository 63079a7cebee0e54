package commands

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#64748B"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#6366F1"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#10B981"}
	warning   = lipgloss.AdaptiveColor{Light: "#F05D5E", Dark: "#F59E0B"}

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(highlight)
	mutedStyle  = lipgloss.NewStyle().Foreground(subtle)
	okStyle     = lipgloss.NewStyle().Foreground(special)
	warnStyle   = lipgloss.NewStyle().Foreground(warning)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(highlight).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// renderTable prints rows under a rounded border. Rows for which highlightRow
// returns true are drawn in the success colour.
func renderTable(w io.Writer, headers []string, rows [][]string, highlightRow func(int) bool) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case highlightRow != nil && highlightRow(row):
				return cellStyle.Foreground(special)
			default:
				return cellStyle
			}
		})
	fmt.Fprintln(w, t.Render())
}

func mm(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func pct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
