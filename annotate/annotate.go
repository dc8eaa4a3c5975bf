// Package annotate appends audit notes into a document after all mutations
// have been applied.
//
// Notes are inserted as visually separated paragraphs adjacent to each edit.
// Block positions are re-resolved by content at insertion time; indices
// recorded during execution are never trusted across structural mutations.
package annotate

import (
	"fmt"
	"strings"
	"time"

	"github.com/docforge/redline/model"
)

// Note is one audit record to be placed next to an applied edit.
type Note struct {
	// OperationID, Kind and Description identify the change.
	OperationID string
	Kind        string
	Description string

	// Extra is an operation-specific detail line, such as
	// `"old" → "new" (replaced 2 times)`.
	Extra string

	// Status is the terminal outcome recorded for the operation.
	Status string

	// AnchorText re-resolves the block the note attaches to. When empty the
	// note goes to the end of the document.
	AnchorText string

	// AfterTable forces the note below the table containing the anchor.
	AfterTable bool
}

const separator = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// Tracker inserts audit notes. Construct with NewTracker.
type Tracker struct {
	// Color is the hex RGB applied to note text.
	Color string

	// Now supplies timestamps, overridable in tests.
	Now func() time.Time
}

// NewTracker creates a Tracker with the default gray italic note style.
func NewTracker() *Tracker {
	return &Tracker{
		Color: "808080",
		Now:   time.Now,
	}
}

// Annotate inserts one audit note per entry, in order. Every insertion
// re-scans the document for its anchor, so earlier notes shifting block
// positions cannot misplace later ones.
func (t *Tracker) Annotate(doc *model.Document, notes []Note) {
	for _, n := range notes {
		t.insert(doc, n)
	}
}

func (t *Tracker) insert(doc *model.Document, n Note) {
	at, format := t.resolve(doc, n)
	doc.InsertAfter(at, t.render(n, format)...)
}

// resolve finds the block index to insert after and the base formatting to
// inherit from the anchor's first run.
func (t *Tracker) resolve(doc *model.Document, n Note) (int, model.RunFormat) {
	at := len(doc.Blocks) - 1
	var format model.RunFormat

	if n.AnchorText != "" {
		for i, b := range doc.Blocks {
			if !strings.Contains(b.Text(), n.AnchorText) {
				continue
			}
			at = i
			if p := doc.Paragraph(i); p != nil {
				format = p.FirstFormat()
			}
			break
		}
	}

	// Never annotate inside a table: a table anchor moves the note to the
	// first position after the table block.
	if doc.Table(at) != nil || n.AfterTable {
		format = model.RunFormat{}
	}

	return at, format
}

// render builds the note's paragraphs: separator, identity line, optional
// detail line, timestamp line, separator.
func (t *Tracker) render(n Note, base model.RunFormat) []model.Block {
	style := base
	style.Italic = true
	style.Color = t.Color

	lines := []string{
		separator,
		fmt.Sprintf("[%s] %s: %s", n.OperationID, n.Kind, n.Description),
	}
	if n.Extra != "" {
		lines = append(lines, n.Extra)
	}
	lines = append(lines,
		fmt.Sprintf("%s | %s", t.Now().Format("2006-01-02 15:04"), n.Status),
		separator,
	)

	blocks := make([]model.Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, &model.Paragraph{
			Runs: []model.Run{{Text: line, Format: style}},
		})
	}
	return blocks
}
