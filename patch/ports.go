package patch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/docforge/redline/model"
)

// DocumentStore loads and persists documents. Save is called exactly once
// per session; Copy backs up the untouched source before any mutation.
type DocumentStore interface {
	Load(path string) (*model.Document, error)
	Save(doc *model.Document, path string) error
	Copy(src, dst string) error
}

// CommentSink places a reviewer comment after the given block index.
type CommentSink interface {
	Insert(doc *model.Document, blockIndex int, text string) error
}

// TableSummary describes one candidate table to the LLM assist.
type TableSummary struct {
	BlockIndex int
	Header     []string
	SampleRows [][]string
}

// LlmAssist is the optional model-backed helper for table work. Both calls
// sit off the mutation path: the algorithmic result is computed first and
// any assist error, timeout or low-confidence answer falls back to it.
type LlmAssist interface {
	// ClassifyTargetTable picks which of the candidate tables a change
	// description refers to, returning block indices in preference order.
	ClassifyTargetTable(ctx context.Context, description string, candidates []TableSummary) ([]int, error)

	// ReviewColumnMapping checks a proposed column mapping for a row,
	// returning a possibly corrected mapping and its confidence.
	ReviewColumnMapping(ctx context.Context, row []string, proposed map[int]string) (map[int]string, float64, error)
}

// ParagraphCommentSink is the default CommentSink: it inserts the comment as
// a bracketed paragraph directly after the anchor block.
type ParagraphCommentSink struct {
	// NewID supplies comment identifiers, overridable in tests.
	NewID func() string
}

// NewParagraphCommentSink creates a sink issuing uuid comment ids.
func NewParagraphCommentSink() *ParagraphCommentSink {
	return &ParagraphCommentSink{NewID: uuid.NewString}
}

// Insert places the comment paragraph after blockIndex.
func (s *ParagraphCommentSink) Insert(doc *model.Document, blockIndex int, text string) error {
	p := &model.Paragraph{Runs: []model.Run{{
		Text:   fmt.Sprintf("[COMMENT-%s] %s", s.NewID(), text),
		Format: model.RunFormat{Italic: true, Color: "C00000"},
	}}}
	doc.InsertAfter(blockIndex, p)
	return nil
}
