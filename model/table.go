package model

import "strings"

// Cell is one table cell, holding its own paragraphs.
type Cell struct {
	Paragraphs []*Paragraph
}

// NewCell creates a cell holding text in a single paragraph.
func NewCell(text string) *Cell {
	return &Cell{Paragraphs: []*Paragraph{NewParagraph(text)}}
}

// Text returns the cell's plain text, paragraphs joined with newlines.
func (c *Cell) Text() string {
	parts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		parts[i] = p.Text()
	}
	return strings.Join(parts, "\n")
}

// SetText replaces the cell content with a single paragraph holding text.
// The first run of the first surviving paragraph keeps its formatting;
// extra paragraphs and runs are dropped.
func (c *Cell) SetText(text string) {
	if len(c.Paragraphs) == 0 {
		c.Paragraphs = []*Paragraph{NewParagraph(text)}
		return
	}
	first := c.Paragraphs[0]
	first.SetText(text)
	c.Paragraphs = c.Paragraphs[:1]
}

// Clone returns a deep copy of the cell.
func (c *Cell) Clone() *Cell {
	out := &Cell{Paragraphs: make([]*Paragraph, len(c.Paragraphs))}
	for i, p := range c.Paragraphs {
		out.Paragraphs[i] = p.Clone()
	}
	return out
}

// Row is one table row.
type Row struct {
	Cells []*Cell
}

// Texts returns the plain text of every cell in order.
func (r *Row) Texts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.Text()
	}
	return out
}

// Clone returns a deep copy of the row.
func (r *Row) Clone() *Row {
	out := &Row{Cells: make([]*Cell, len(r.Cells))}
	for i, c := range r.Cells {
		out.Cells[i] = c.Clone()
	}
	return out
}

// Table is a block of rows. Rows may have differing cell counts when the
// source document used merged cells.
type Table struct {
	Rows []*Row
}

// NewTable creates a table from plain-text rows. Ragged input is padded with
// empty cells to the widest row.
func NewTable(rows [][]string) *Table {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	t := &Table{Rows: make([]*Row, 0, len(rows))}
	for _, r := range rows {
		row := &Row{Cells: make([]*Cell, width)}
		for i := 0; i < width; i++ {
			if i < len(r) {
				row.Cells[i] = NewCell(r[i])
			} else {
				row.Cells[i] = NewCell("")
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Kind reports BlockTable.
func (t *Table) Kind() BlockKind { return BlockTable }

// Text returns the table's plain text: cells joined with tabs, rows with
// newlines.
func (t *Table) Text() string {
	var sb strings.Builder
	for i, r := range t.Rows {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.Join(r.Texts(), "\t"))
	}
	return sb.String()
}

// ColumnCount returns the widest row's cell count.
func (t *Table) ColumnCount() int {
	n := 0
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// Cell returns the cell at (row, col), or nil when out of range.
func (t *Table) Cell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r.Cells) {
		return nil
	}
	return r.Cells[col]
}

// TextRows returns every row's cell texts. Useful for column analysis.
func (t *Table) TextRows() [][]string {
	out := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Texts()
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Rows: make([]*Row, len(t.Rows))}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
