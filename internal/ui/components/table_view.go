// Package components renders the filtered grid and its filter chips as
// static terminal output.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyfilter/internal/models"
	"github.com/rebeliceyang/lazyfilter/internal/ui/theme"
)

const (
	defaultMaxColumnWidth = 40
	minColumnWidth        = 4
)

// TableView renders rows as an aligned text table with a status line
type TableView struct {
	Columns   []string
	Rows      [][]string
	TotalRows int
	// MaxRows limits how many rows are printed; 0 prints all
	MaxRows        int
	MaxColumnWidth int
	Theme          theme.Theme

	// Column widths (calculated)
	ColumnWidths []int
}

// NewTableView creates a new table view
func NewTableView(th theme.Theme) *TableView {
	return &TableView{
		Columns:        []string{},
		Rows:           [][]string{},
		MaxColumnWidth: defaultMaxColumnWidth,
		Theme:          th,
	}
}

// SetData sets the table data
func (tv *TableView) SetData(columns []string, rows [][]string, totalRows int) {
	tv.Columns = columns
	tv.Rows = rows
	tv.TotalRows = totalRows
	tv.calculateColumnWidths()
}

// SetRecords converts records to table rows; list values are joined with delimiter
func (tv *TableView) SetRecords(columns []string, records []models.Record, totalRows int, delimiter string) {
	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(columns))
		for j, col := range columns {
			if col == "id" {
				row[j] = r.ID
				continue
			}
			row[j] = strings.Join(r.Fields[col], delimiter)
		}
		rows[i] = row
	}
	tv.SetData(columns, rows, totalRows)
}

// calculateColumnWidths sizes each column to its widest cell within bounds
func (tv *TableView) calculateColumnWidths() {
	tv.ColumnWidths = make([]int, len(tv.Columns))

	for i, col := range tv.Columns {
		tv.ColumnWidths[i] = runewidth.StringWidth(col)
	}

	for _, row := range tv.Rows {
		for i, cell := range row {
			if i < len(tv.ColumnWidths) {
				if w := runewidth.StringWidth(cell); w > tv.ColumnWidths[i] {
					tv.ColumnWidths[i] = w
				}
			}
		}
	}

	maxWidth := tv.MaxColumnWidth
	if maxWidth <= 0 {
		maxWidth = defaultMaxColumnWidth
	}
	for i := range tv.ColumnWidths {
		tv.ColumnWidths[i] = min(max(tv.ColumnWidths[i], minColumnWidth), maxWidth)
	}
}

// View renders the table
func (tv *TableView) View() string {
	if len(tv.Columns) == 0 {
		return lipgloss.NewStyle().Foreground(tv.Theme.Muted).Render("No data")
	}

	var b strings.Builder

	b.WriteString(tv.renderHeader())
	b.WriteString("\n")
	b.WriteString(tv.renderSeparator())
	b.WriteString("\n")

	shown := len(tv.Rows)
	if tv.MaxRows > 0 && tv.MaxRows < shown {
		shown = tv.MaxRows
	}
	for i := 0; i < shown; i++ {
		b.WriteString(tv.renderRow(tv.Rows[i], i%2 == 1))
		b.WriteString("\n")
	}
	if shown < len(tv.Rows) {
		b.WriteString(lipgloss.NewStyle().Foreground(tv.Theme.Muted).
			Render(fmt.Sprintf(" … %d more", len(tv.Rows)-shown)))
		b.WriteString("\n")
	}

	b.WriteString(tv.renderStatus())

	return b.String()
}

func (tv *TableView) renderHeader() string {
	var parts []string
	for i, col := range tv.Columns {
		parts = append(parts, tv.pad(col, tv.ColumnWidths[i]))
	}
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(tv.Theme.TableHeader).
		Background(tv.Theme.TableHeaderBg)
	return headerStyle.Render(" " + strings.Join(parts, " │ ") + " ")
}

func (tv *TableView) renderSeparator() string {
	var parts []string
	for _, width := range tv.ColumnWidths {
		parts = append(parts, strings.Repeat("─", width))
	}
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Border).
		Render("─" + strings.Join(parts, "─┼─") + "─")
}

func (tv *TableView) renderRow(row []string, odd bool) string {
	parts := make([]string, len(tv.ColumnWidths))
	for i, width := range tv.ColumnWidths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		parts[i] = tv.pad(cell, width)
	}

	line := " " + strings.Join(parts, " │ ") + " "
	if odd {
		return lipgloss.NewStyle().Background(tv.Theme.TableRowOdd).Render(line)
	}
	return line
}

// StatusLine reports how many rows are visible out of the total
func (tv *TableView) StatusLine() string {
	hidden := tv.TotalRows - len(tv.Rows)
	if hidden <= 0 {
		return fmt.Sprintf("showing %d of %d rows", len(tv.Rows), tv.TotalRows)
	}
	return fmt.Sprintf("showing %d of %d rows (%d hidden)", len(tv.Rows), tv.TotalRows, hidden)
}

func (tv *TableView) renderStatus() string {
	return lipgloss.NewStyle().
		Foreground(tv.Theme.Muted).
		Italic(true).
		Render(" " + tv.StatusLine())
}

func (tv *TableView) pad(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.FillRight(runewidth.Truncate(s, width, "..."), width)
}
