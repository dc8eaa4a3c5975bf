package model

import "strings"

// BlockKind identifies the concrete type behind a Block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockTable
)

// String returns a human-readable name for the block kind.
func (k BlockKind) String() string {
	switch k {
	case BlockParagraph:
		return "paragraph"
	case BlockTable:
		return "table"
	default:
		return "unknown"
	}
}

// Block is one top-level element of a document body: a Paragraph or a Table.
type Block interface {
	// Kind reports which concrete type this block is.
	Kind() BlockKind
	// Text returns the block's plain text. For tables this joins cell text
	// with tabs within a row and newlines between rows.
	Text() string
}

// Document is an ordered sequence of body blocks.
type Document struct {
	Blocks []Block

	// KnownStyles lists the style ids the source document defines. A nil
	// map means the catalog is unknown and any style id is accepted.
	KnownStyles map[string]bool
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{}
}

// Append adds blocks at the end of the body.
func (d *Document) Append(blocks ...Block) {
	d.Blocks = append(d.Blocks, blocks...)
}

// InsertAfter inserts blocks immediately after the block at index i.
// Passing i == -1 inserts at the start of the body.
func (d *Document) InsertAfter(i int, blocks ...Block) {
	if len(blocks) == 0 {
		return
	}
	at := i + 1
	if at < 0 {
		at = 0
	}
	if at > len(d.Blocks) {
		at = len(d.Blocks)
	}
	d.Blocks = append(d.Blocks[:at], append(append([]Block{}, blocks...), d.Blocks[at:]...)...)
}

// Remove deletes the half-open block range [from, to).
func (d *Document) Remove(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(d.Blocks) {
		to = len(d.Blocks)
	}
	if from >= to {
		return
	}
	d.Blocks = append(d.Blocks[:from], d.Blocks[to:]...)
}

// Paragraph returns the paragraph at index i, or nil if the block at i is
// not a paragraph or the index is out of range.
func (d *Document) Paragraph(i int) *Paragraph {
	if i < 0 || i >= len(d.Blocks) {
		return nil
	}
	p, _ := d.Blocks[i].(*Paragraph)
	return p
}

// Table returns the table at index i, or nil if the block at i is not a
// table or the index is out of range.
func (d *Document) Table(i int) *Table {
	if i < 0 || i >= len(d.Blocks) {
		return nil
	}
	t, _ := d.Blocks[i].(*Table)
	return t
}

// NextHeading returns the index of the first paragraph after index from whose
// heading level is between 1 and maxLevel inclusive, or -1 if none exists.
// It is used to find the end of the section opened by a heading of level
// maxLevel: the section runs until the next heading of equal or higher rank.
func (d *Document) NextHeading(from, maxLevel int) int {
	for i := from + 1; i < len(d.Blocks); i++ {
		p := d.Paragraph(i)
		if p == nil {
			continue
		}
		if p.HeadingLevel >= 1 && p.HeadingLevel <= maxLevel {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the document. Mutating the copy never
// affects the original.
func (d *Document) Clone() *Document {
	out := &Document{Blocks: make([]Block, 0, len(d.Blocks))}
	if d.KnownStyles != nil {
		out.KnownStyles = make(map[string]bool, len(d.KnownStyles))
		for k, v := range d.KnownStyles {
			out.KnownStyles[k] = v
		}
	}
	for _, b := range d.Blocks {
		switch v := b.(type) {
		case *Paragraph:
			out.Blocks = append(out.Blocks, v.Clone())
		case *Table:
			out.Blocks = append(out.Blocks, v.Clone())
		}
	}
	return out
}

// Text returns the document's plain text, blocks joined with newlines.
func (d *Document) Text() string {
	var sb strings.Builder
	for i, b := range d.Blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(b.Text())
	}
	return sb.String()
}
