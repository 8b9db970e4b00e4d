package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/tgplan/internal/tui/tuistyles"
)

// Table renders fixed-width columns; the first column is left aligned and the
// rest right aligned
type Table struct {
	Headers   []string
	Widths    []int
	Rows      [][]string
	Highlight int // row index drawn highlighted, -1 for none
}

// NewTable creates a table with no highlighted row
func NewTable(headers []string, widths []int) *Table {
	return &Table{Headers: headers, Widths: widths, Highlight: -1}
}

// AddRow appends a row of cells
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render returns the table as lines of text
func (t *Table) Render() string {
	var lines []string
	lines = append(lines, t.renderRow(t.Headers, tuistyles.TableHeaderStyle))
	for i, row := range t.Rows {
		style := tuistyles.TableCellStyle
		if i == t.Highlight {
			style = tuistyles.TableHighlightStyle
		}
		lines = append(lines, t.renderRow(row, style))
	}
	return strings.Join(lines, "\n")
}

func (t *Table) renderRow(cells []string, style lipgloss.Style) string {
	parts := make([]string, len(t.Widths))
	for i, w := range t.Widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		align := lipgloss.Right
		if i == 0 {
			align = lipgloss.Left
		}
		parts[i] = style.Width(w).Align(align).Render(cell)
	}
	return strings.Join(parts, " ")
}
