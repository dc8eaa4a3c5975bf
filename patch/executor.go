package patch

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/docforge/redline/change"
	"github.com/docforge/redline/locate"
	"github.com/docforge/redline/model"
	"github.com/docforge/redline/tables"
)

// Executor applies one operation to the document, walking the
// Pending → Locating → Applying → Applied|Failed state machine. It is
// re-entered by the retry chain with a different match mode after a failure.
type Executor struct {
	// Locator resolves targets; Roles classifies table columns.
	Locator *locate.Locator
	Roles   *tables.RoleDetector

	// Comments places reviewer comments; Assist is the optional LLM helper.
	Comments CommentSink
	Assist   LlmAssist

	// ReviewThreshold gates how confident an assist mapping review must be
	// to override the algorithmic one.
	ReviewThreshold float64

	// AssistTimeout bounds every assist call.
	AssistTimeout time.Duration

	log *zap.Logger

	// lastHint is the block index of the most recent candidate seen, used
	// by the retry chain's neighbor scan. -1 when nothing matched yet.
	lastHint int
}

// NewExecutor creates an executor with default collaborators and a no-op
// logger.
func NewExecutor() *Executor {
	return &Executor{
		Locator:         locate.NewLocator(),
		Roles:           tables.NewRoleDetector(),
		Comments:        NewParagraphCommentSink(),
		ReviewThreshold: 0.8,
		AssistTimeout:   5 * time.Second,
		log:             zap.NewNop(),
		lastHint:        -1,
	}
}

// SetLogger replaces the executor's logger.
func (e *Executor) SetLogger(log *zap.Logger) {
	if log != nil {
		e.log = log
	}
}

// LastHint returns the block index of the most recent candidate, or -1.
func (e *Executor) LastHint() int { return e.lastHint }

// Apply runs one operation against the document under the given match mode,
// restricted to the block range [from, to). A full-document attempt passes
// from=0, to=len(doc.Blocks).
func (e *Executor) Apply(ctx context.Context, doc *model.Document, op change.Operation, mode locate.Mode, from, to int) ExecutionResult {
	m := &machine{}
	m.step(StateLocating)

	e.log.Debug("locating target",
		zap.String("op", op.ID),
		zap.String("kind", string(op.Kind)),
		zap.String("mode", mode.String()),
	)

	var res ExecutionResult
	switch op.Kind {
	case change.ReplaceText:
		res = e.applyReplace(ctx, m, doc, op, mode, from, to)
	case change.ReplacePointText:
		res = e.applyPointText(m, doc, op, from, to)
	case change.DeleteParagraph:
		res = e.applyDelete(m, doc, op, mode, from, to)
	case change.InsertParagraph, change.InsertSection, change.InsertTable:
		res = e.applyInsert(m, doc, op, mode, from, to)
	case change.AddComment:
		res = e.applyComment(m, doc, op, mode, from, to)
	default:
		m.step(StateFailed)
		res = e.fail(op, ErrUnsupportedOperation, fmt.Sprintf("kind %q", op.Kind))
	}

	res.OperationID = op.ID
	res.Kind = op.Kind
	res.Strategy = mode.String()

	if res.Status == StatusApplied {
		e.log.Info("operation applied",
			zap.String("op", op.ID),
			zap.String("kind", string(op.Kind)),
			zap.String("strategy", mode.String()),
		)
	} else {
		e.log.Warn("operation failed",
			zap.String("op", op.ID),
			zap.String("kind", string(op.Kind)),
			zap.String("mode", mode.String()),
			zap.Error(res.Err),
		)
	}
	return res
}

// primaryMode is the strictest mode that makes sense for an operation: exact
// for case-sensitive text matching, fold when the producer asked for
// case-insensitivity, the numbered-item resolver for point rewrites.
func primaryMode(op change.Operation) locate.Mode {
	if op.Kind == change.ReplacePointText {
		return locate.ModeNumberedItem
	}
	if !op.MatchCase {
		return locate.ModeFold
	}
	return locate.ModeExact
}

// locateFor runs the locator and records the neighbor-scan hint.
func (e *Executor) locateFor(doc *model.Document, target string, mode locate.Mode, from, to int) []locate.Candidate {
	cands := e.Locator.LocateIn(doc, target, mode, from, to)
	if len(cands) > 0 {
		e.lastHint = cands[len(cands)-1].BlockIndex
	}
	return cands
}

// choose disambiguates a local operation's candidates.
func (e *Executor) choose(doc *model.Document, cands []locate.Candidate, op change.Operation) (locate.Candidate, error) {
	if len(cands) == 0 {
		return locate.Candidate{}, fmt.Errorf("%w: %q", ErrTargetNotFound, opTarget(op))
	}
	chosen, ok := e.Locator.Disambiguate(doc, cands, op.Description)
	if !ok {
		return locate.Candidate{}, fmt.Errorf("%w: %d matches for %q and no distinguishing context",
			ErrTargetAmbiguous, len(cands), opTarget(op))
	}
	return chosen, nil
}

func opTarget(op change.Operation) string {
	switch {
	case op.Target != "":
		return op.Target
	case op.ItemNumber != "":
		return op.ItemNumber
	default:
		return op.Anchor
	}
}

func (e *Executor) fail(op change.Operation, err error, detail string) ExecutionResult {
	return ExecutionResult{
		OperationID: op.ID,
		Kind:        op.Kind,
		Status:      StatusFailed,
		Err:         err,
		Detail:      detail,
	}
}

// applyReplace handles ReplaceText for both scopes.
func (e *Executor) applyReplace(ctx context.Context, m *machine, doc *model.Document, op change.Operation, mode locate.Mode, from, to int) ExecutionResult {
	cands := e.locateFor(doc, op.Target, mode, from, to)
	if len(cands) == 0 {
		cands = e.tableRowFallback(doc, op.Target)
	}
	if len(cands) == 0 {
		m.step(StateFailed)
		return e.fail(op, fmt.Errorf("%w: %q", ErrTargetNotFound, op.Target), "")
	}

	if op.Scope == change.ScopeLocal {
		cands = e.classifyTables(ctx, doc, cands, op.Description)
		chosen, err := e.choose(doc, cands, op)
		if err != nil {
			m.step(StateFailed)
			return e.fail(op, err, "")
		}
		cands = []locate.Candidate{chosen}
	}

	m.step(StateApplying)

	blocks := make([]int, 0, len(cands))
	anchor := ""
	afterTable := false
	// Apply back to front so earlier spans stay valid within a block.
	for i := len(cands) - 1; i >= 0; i-- {
		c := cands[i]
		a := e.replaceAt(ctx, doc, c, op)
		if anchor == "" {
			anchor = a
		}
		afterTable = afterTable || c.InTable()
		blocks = append([]int{c.BlockIndex}, blocks...)
	}

	m.step(StateApplied)
	return ExecutionResult{
		Status:       StatusApplied,
		Detail:       fmt.Sprintf("%q → %q (replaced %d times)", op.Target, op.Replacement, len(cands)),
		Replacements: len(cands),
		Blocks:       dedupInts(blocks),
		AnchorText:   anchor,
		AfterTable:   afterTable,
	}
}

// replaceAt performs one substitution, returning the text to anchor the
// audit note on.
func (e *Executor) replaceAt(ctx context.Context, doc *model.Document, c locate.Candidate, op change.Operation) string {
	if !c.InTable() {
		doc.Paragraph(c.BlockIndex).ReplaceRange(c.Start, c.End, op.Replacement)
		return op.Replacement
	}

	t := doc.Table(c.BlockIndex)
	row := t.Rows[c.Row]
	cell := row.Cells[c.Col]

	words := strings.Fields(op.Replacement)
	wholeCell := strings.TrimSpace(cell.Text()) == strings.TrimSpace(c.Matched)

	// A whole-cell match with multi-word replacement in a multi-column row
	// is a structured rewrite: the new text is distributed over the row's
	// columns by their inferred roles.
	if wholeCell && len(row.Cells) >= 2 && len(words) >= 2 {
		roles := e.Roles.InferRoles(t.TextRows())
		mapping := tables.Distribute(op.Replacement, roles)
		mapping = e.reviewMapping(ctx, row, mapping)
		tables.ApplyMapping(row, mapping)
		if v, ok := mapping[c.Col]; ok && v != "" {
			return v
		}
		return op.Replacement
	}

	text := cell.Text()
	cell.SetText(text[:c.Start] + op.Replacement + text[c.End:])
	return op.Replacement
}

// tableRowFallback resolves a target that names a table row rather than a
// literal text span, such as an abbreviation in a terms table. Used only
// after the text scan found nothing.
func (e *Executor) tableRowFallback(doc *model.Document, target string) []locate.Candidate {
	hit, ok := e.Locator.FindTableRow(doc, target)
	if !ok {
		return nil
	}
	text := doc.Table(hit.BlockIndex).Rows[hit.Row].Cells[hit.Col].Text()
	start, end := 0, len(text)
	if i := strings.Index(text, target); i >= 0 {
		start, end = i, i+len(target)
	}
	e.lastHint = hit.BlockIndex
	return []locate.Candidate{{
		BlockIndex: hit.BlockIndex,
		Row:        hit.Row,
		Col:        hit.Col,
		Start:      start,
		End:        end,
		Matched:    text[start:end],
		Confidence: locate.ModeKeywords.Confidence(),
	}}
}

// classifyTables narrows candidates spread over several tables to the table
// the assist picks for the description. Any assist failure keeps the full
// candidate list.
func (e *Executor) classifyTables(ctx context.Context, doc *model.Document, cands []locate.Candidate, description string) []locate.Candidate {
	if e.Assist == nil {
		return cands
	}
	seen := make(map[int]bool)
	for _, c := range cands {
		if c.InTable() {
			seen[c.BlockIndex] = true
		}
	}
	if len(seen) < 2 {
		return cands
	}

	blocks := make([]int, 0, len(seen))
	for i := range seen {
		blocks = append(blocks, i)
	}
	sort.Ints(blocks)

	summaries := make([]TableSummary, 0, len(blocks))
	for _, i := range blocks {
		rows := doc.Table(i).TextRows()
		s := TableSummary{BlockIndex: i}
		if len(rows) > 0 {
			s.Header = rows[0]
			s.SampleRows = rows[1:]
			if len(s.SampleRows) > 3 {
				s.SampleRows = s.SampleRows[:3]
			}
		}
		summaries = append(summaries, s)
	}

	actx, cancel := context.WithTimeout(ctx, e.AssistTimeout)
	defer cancel()

	ranked, err := e.Assist.ClassifyTargetTable(actx, description, summaries)
	if err != nil || len(ranked) == 0 {
		e.log.Debug("table classification unavailable", zap.Error(err))
		return cands
	}

	var kept []locate.Candidate
	for _, c := range cands {
		if !c.InTable() || c.BlockIndex == ranked[0] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return cands
	}
	return kept
}

// reviewMapping offers the proposed column mapping to the LLM assist and
// keeps the algorithmic result unless the review is confident enough.
func (e *Executor) reviewMapping(ctx context.Context, row *model.Row, proposed map[int]string) map[int]string {
	if e.Assist == nil {
		return proposed
	}
	actx, cancel := context.WithTimeout(ctx, e.AssistTimeout)
	defer cancel()

	reviewed, confidence, err := e.Assist.ReviewColumnMapping(actx, row.Texts(), proposed)
	if err != nil {
		e.log.Debug("mapping review unavailable", zap.Error(err))
		return proposed
	}
	if confidence < e.ReviewThreshold || len(reviewed) == 0 {
		return proposed
	}
	return reviewed
}

// applyPointText rewrites the numbered item's content, splitting a
// multi-line replacement into additional paragraphs.
func (e *Executor) applyPointText(m *machine, doc *model.Document, op change.Operation, from, to int) ExecutionResult {
	cands := e.locateFor(doc, op.ItemNumber, locate.ModeNumberedItem, from, to)
	chosen, err := e.choose(doc, cands, op)
	if err != nil {
		m.step(StateFailed)
		return e.fail(op, err, "")
	}

	m.step(StateApplying)

	lines := splitLines(op.Replacement)

	if chosen.InTable() {
		cell := doc.Table(chosen.BlockIndex).Rows[chosen.Row].Cells[chosen.Col]
		cell.SetText(lines[0])
		for _, l := range lines[1:] {
			cell.Paragraphs = append(cell.Paragraphs, model.NewParagraph(l))
		}
	} else {
		doc.Paragraph(chosen.BlockIndex).ReplaceRange(chosen.Start, chosen.End, lines[0])
		extra := make([]model.Block, 0, len(lines)-1)
		for _, l := range lines[1:] {
			extra = append(extra, model.NewParagraph(l))
		}
		doc.InsertAfter(chosen.BlockIndex, extra...)
	}

	m.step(StateApplied)
	return ExecutionResult{
		Status:       StatusApplied,
		Detail:       fmt.Sprintf("item %s rewritten (%d paragraphs)", op.ItemNumber, len(lines)),
		Replacements: 1,
		Blocks:       []int{chosen.BlockIndex},
		AnchorText:   lines[0],
		AfterTable:   chosen.InTable(),
	}
}

func splitLines(s string) []string {
	raw := strings.Split(s, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if t := strings.TrimSpace(l); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func dedupInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := in[:0]
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
