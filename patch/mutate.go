package patch

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/docforge/redline/change"
	"github.com/docforge/redline/locate"
	"github.com/docforge/redline/model"
)

// previewRunes bounds the removed-text preview in delete details.
const previewRunes = 120

// applyDelete removes a paragraph, or a whole section when the target is a
// heading: the heading and every following block up to the next heading of
// equal or higher level.
func (e *Executor) applyDelete(m *machine, doc *model.Document, op change.Operation, mode locate.Mode, from, to int) ExecutionResult {
	var cands []locate.Candidate
	if change.IsItemNumber(op.Target) {
		cands = e.locateFor(doc, op.Target, locate.ModeNumberedItem, from, to)
	} else {
		cands = e.locateFor(doc, op.Target, mode, from, to)
	}
	// A paragraph delete cannot act on a table cell.
	cands = paragraphOnly(cands)

	chosen, err := e.choose(doc, cands, op)
	if err != nil {
		m.step(StateFailed)
		return e.fail(op, err, "")
	}

	m.step(StateApplying)

	start := chosen.BlockIndex
	end := start + 1
	if p := doc.Paragraph(start); p != nil && p.IsHeading() {
		if next := doc.NextHeading(start, p.HeadingLevel); next >= 0 {
			end = next
		} else {
			end = len(doc.Blocks)
		}
	}

	removed := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		removed = append(removed, doc.Blocks[i].Text())
	}

	anchor := ""
	if start > 0 {
		anchor = doc.Blocks[start-1].Text()
	}

	doc.Remove(start, end)

	m.step(StateApplied)
	return ExecutionResult{
		Status: StatusApplied,
		Detail: fmt.Sprintf("deleted %d blocks: %s",
			end-start, truncateRunes(strings.Join(removed, " / "), previewRunes)),
		Blocks:     []int{start},
		AnchorText: anchor,
	}
}

func paragraphOnly(cands []locate.Candidate) []locate.Candidate {
	out := cands[:0]
	for _, c := range cands {
		if !c.InTable() {
			out = append(out, c)
		}
	}
	return out
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

// applyInsert handles InsertParagraph, InsertSection and InsertTable. New
// blocks go immediately after the resolved anchor block; an anchor inside a
// table places them after the table.
func (e *Executor) applyInsert(m *machine, doc *model.Document, op change.Operation, mode locate.Mode, from, to int) ExecutionResult {
	cands := e.locateFor(doc, op.Anchor, mode, from, to)
	chosen, err := e.choose(doc, cands, op)
	if err != nil {
		m.step(StateFailed)
		return e.fail(op, err, "")
	}

	m.step(StateApplying)

	at := chosen.BlockIndex
	var inserted []model.Block
	anchor := ""

	switch op.Kind {
	case change.InsertParagraph:
		p := model.NewParagraph(op.Body[0])
		p.StyleID = resolveStyle(doc, op.Style)
		p.HeadingLevel = headingLevel(p.StyleID)
		inserted = []model.Block{p}
		anchor = op.Body[0]

	case change.InsertSection:
		h := model.NewParagraph(op.Heading)
		h.StyleID = resolveStyle(doc, fmt.Sprintf("Heading %d", op.HeadingLevel))
		h.HeadingLevel = op.HeadingLevel
		inserted = []model.Block{h}
		for _, b := range op.Body {
			inserted = append(inserted, model.NewParagraph(b))
		}
		anchor = op.Heading

	case change.InsertTable:
		t := model.NewTable(op.TableRows)
		inserted = []model.Block{t}
		if len(op.TableRows) > 0 && len(op.TableRows[0]) > 0 {
			anchor = op.TableRows[0][0]
		}
	}

	doc.InsertAfter(at, inserted...)

	m.step(StateApplied)
	return ExecutionResult{
		Status:     StatusApplied,
		Detail:     fmt.Sprintf("inserted %d blocks after %q", len(inserted), truncateRunes(op.Anchor, 40)),
		Blocks:     []int{at + 1},
		AnchorText: anchor,
	}
}

// applyComment places a reviewer comment after the anchor block. An anchor
// inside a table is relocated to the first block after that table.
func (e *Executor) applyComment(m *machine, doc *model.Document, op change.Operation, mode locate.Mode, from, to int) ExecutionResult {
	cands := e.locateFor(doc, op.Anchor, mode, from, to)
	chosen, err := e.choose(doc, cands, op)
	if err != nil {
		m.step(StateFailed)
		return e.fail(op, err, "")
	}

	m.step(StateApplying)

	if err := e.Comments.Insert(doc, chosen.BlockIndex, op.Note); err != nil {
		m.step(StateFailed)
		return e.fail(op, fmt.Errorf("%w: inserting comment: %v", ErrStructuralConflict, err), "")
	}

	m.step(StateApplied)
	return ExecutionResult{
		Status:     StatusApplied,
		Detail:     fmt.Sprintf("comment attached to %q", truncateRunes(op.Anchor, 40)),
		Blocks:     []int{chosen.BlockIndex},
		AnchorText: op.Anchor,
		AfterTable: chosen.InTable(),
	}
}

// resolveStyle maps a requested style onto one the document defines,
// falling back Heading N → Normal → unstyled.
func resolveStyle(doc *model.Document, style string) string {
	if style == "" {
		return ""
	}
	id := strings.ReplaceAll(style, " ", "")
	if doc.KnownStyles == nil {
		return id
	}
	if doc.KnownStyles[id] {
		return id
	}
	if doc.KnownStyles["Normal"] {
		return "Normal"
	}
	return ""
}

// headingLevel extracts the level from a HeadingN style id, or 0.
func headingLevel(styleID string) int {
	lower := strings.ToLower(styleID)
	if !strings.HasPrefix(lower, "heading") {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(lower, "heading")))
	if err != nil || n < 1 || n > 9 {
		return 0
	}
	return n
}
