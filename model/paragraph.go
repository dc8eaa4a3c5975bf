package model

import "strings"

// RunFormat holds the character formatting of a run.
type RunFormat struct {
	Bold      bool
	Italic    bool
	Underline bool
	Color     string // hex RGB like "FF0000", empty for default
	Font      string
	Size      float64 // points, 0 for default
}

// Run is a span of paragraph text sharing one formatting set.
type Run struct {
	Text   string
	Format RunFormat
}

// Paragraph is a block of run-structured text with an optional style.
type Paragraph struct {
	Runs         []Run
	StyleID      string
	HeadingLevel int // 1-9 for headings, 0 otherwise
}

// NewParagraph creates a paragraph holding text in a single unformatted run.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{Runs: []Run{{Text: text}}}
}

// Kind reports BlockParagraph.
func (p *Paragraph) Kind() BlockKind { return BlockParagraph }

// Text returns the concatenation of all run texts.
func (p *Paragraph) Text() string {
	if len(p.Runs) == 1 {
		return p.Runs[0].Text
	}
	var sb strings.Builder
	for _, r := range p.Runs {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

// IsHeading reports whether the paragraph carries a heading style.
func (p *Paragraph) IsHeading() bool { return p.HeadingLevel >= 1 }

// FirstFormat returns the formatting of the first run, or the zero format
// for an empty paragraph.
func (p *Paragraph) FirstFormat() RunFormat {
	if len(p.Runs) == 0 {
		return RunFormat{}
	}
	return p.Runs[0].Format
}

// SetText replaces the paragraph's entire text. The first run keeps its
// formatting and receives the new text; all other runs are dropped.
func (p *Paragraph) SetText(text string) {
	if len(p.Runs) == 0 {
		p.Runs = []Run{{Text: text}}
		return
	}
	p.Runs = []Run{{Text: text, Format: p.Runs[0].Format}}
}

// ReplaceRange replaces the byte range [start, end) of the paragraph's
// concatenated text with repl. Runs the range does not touch are left
// byte-identical. The first touched run receives its prefix plus the full
// replacement; middle touched runs are emptied; the last touched run keeps
// only its suffix past end. Emptied runs are removed afterwards.
func (p *Paragraph) ReplaceRange(start, end int, repl string) {
	if start < 0 {
		start = 0
	}
	if end < start {
		end = start
	}

	offset := 0
	replaced := false
	for i := range p.Runs {
		runStart := offset
		runEnd := offset + len(p.Runs[i].Text)
		offset = runEnd

		if runEnd <= start || runStart >= end {
			// Run is entirely before or after the range.
			if runStart >= end && start == end && runStart == start && !replaced {
				// Pure insertion at a run boundary lands in this run's prefix.
				p.Runs[i].Text = repl + p.Runs[i].Text
				replaced = true
			}
			continue
		}

		text := p.Runs[i].Text
		lo := start - runStart
		if lo < 0 {
			lo = 0
		}
		hi := end - runStart
		if hi > len(text) {
			hi = len(text)
		}

		if !replaced {
			p.Runs[i].Text = text[:lo] + repl + text[hi:]
			replaced = true
		} else {
			p.Runs[i].Text = text[hi:]
		}
	}

	if !replaced {
		// Range starts at or past the end of the text: append to the last run.
		if len(p.Runs) == 0 {
			p.Runs = []Run{{Text: repl}}
		} else {
			p.Runs[len(p.Runs)-1].Text += repl
		}
		return
	}

	p.dropEmptyRuns()
}

// dropEmptyRuns removes runs whose text became empty, keeping at least one
// run so the paragraph retains its formatting.
func (p *Paragraph) dropEmptyRuns() {
	kept := p.Runs[:0]
	for _, r := range p.Runs {
		if r.Text != "" {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 && len(p.Runs) > 0 {
		kept = append(kept, Run{Format: p.Runs[0].Format})
	}
	p.Runs = kept
}

// Clone returns a deep copy of the paragraph.
func (p *Paragraph) Clone() *Paragraph {
	out := &Paragraph{
		Runs:         make([]Run, len(p.Runs)),
		StyleID:      p.StyleID,
		HeadingLevel: p.HeadingLevel,
	}
	copy(out.Runs, p.Runs)
	return out
}
