package locate

import (
	"strings"
	"unicode"

	"github.com/docforge/redline/model"
)

// TableHit identifies a table row found by FindTableRow.
type TableHit struct {
	BlockIndex int
	Row        int
	// Col is the cell the match was found in. Passes one and two always
	// report column 0.
	Col int
	// Pass records which search pass produced the hit (1 strictest).
	Pass int
}

// FindTableRow locates the table row a piece of text belongs to, in three
// passes of decreasing strictness: exact match against the first column,
// whole-word match in the first column, then substring match in any cell.
// A stricter pass finding any hit suppresses the weaker passes.
func (l *Locator) FindTableRow(doc *model.Document, text string) (TableHit, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TableHit{}, false
	}
	folded := l.folder.String(text)

	// Pass 1: the first column holds exactly this text.
	for i, b := range doc.Blocks {
		t, ok := b.(*model.Table)
		if !ok {
			continue
		}
		for r, row := range t.Rows {
			if len(row.Cells) == 0 {
				continue
			}
			if l.folder.String(strings.TrimSpace(row.Cells[0].Text())) == folded {
				return TableHit{BlockIndex: i, Row: r, Col: 0, Pass: 1}, true
			}
		}
	}

	// Pass 2: the first column contains this text as a whole word.
	for i, b := range doc.Blocks {
		t, ok := b.(*model.Table)
		if !ok {
			continue
		}
		for r, row := range t.Rows {
			if len(row.Cells) == 0 {
				continue
			}
			if containsWord(l.folder.String(row.Cells[0].Text()), folded) {
				return TableHit{BlockIndex: i, Row: r, Col: 0, Pass: 2}, true
			}
		}
	}

	// Pass 3: any cell contains this text as a substring.
	for i, b := range doc.Blocks {
		t, ok := b.(*model.Table)
		if !ok {
			continue
		}
		for r, row := range t.Rows {
			for c, cell := range row.Cells {
				if strings.Contains(l.folder.String(cell.Text()), folded) {
					return TableHit{BlockIndex: i, Row: r, Col: c, Pass: 3}, true
				}
			}
		}
	}

	return TableHit{}, false
}

// containsWord reports whether word appears in text delimited by
// non-letter/digit runes. Go's regexp word boundaries only cover ASCII, so
// this is done by token comparison.
func containsWord(text, word string) bool {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, f := range fields {
		if f == word {
			return true
		}
	}
	return false
}
