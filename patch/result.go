package patch

import "github.com/docforge/redline/change"

// Status is the terminal outcome of one operation.
type Status int

const (
	StatusApplied Status = iota
	StatusFailed
)

// String returns the report form of the status.
func (s Status) String() string {
	if s == StatusApplied {
		return "APPLIED"
	}
	return "FAILED"
}

// ExecutionResult records what happened to one operation.
type ExecutionResult struct {
	OperationID string
	Kind        change.Kind
	Status      Status

	// Detail is a human-readable account: replacement accounting, removed
	// text preview, or the failure reason.
	Detail string

	// Err classifies a failure against the package sentinels.
	Err error

	// Strategy is the match mode that finally succeeded.
	Strategy string

	// Replacements counts applied substitutions; Blocks lists the affected
	// block indices as they were at apply time.
	Replacements int
	Blocks       []int

	// AnchorText re-resolves the edit's position when annotating.
	AnchorText string
	// AfterTable notes that the edit happened inside a table.
	AfterTable bool
}

// Report is the session's execution report: one entry per input operation,
// in execution order.
type Report struct {
	SessionID string
	Results   []ExecutionResult
}

// Summary aggregates a report for the audit trail.
type Summary struct {
	Total   int
	Applied int
	Failed  int

	ByKind map[change.Kind]int

	// Category counts over applied operations.
	MassReplacements int
	PointChanges     int
	Deletions        int
	Insertions       int
	Comments         int
}

// Summarize computes aggregate counts over the report.
func (r *Report) Summarize() Summary {
	s := Summary{
		Total:  len(r.Results),
		ByKind: make(map[change.Kind]int),
	}
	for _, res := range r.Results {
		s.ByKind[res.Kind]++
		if res.Status != StatusApplied {
			s.Failed++
			continue
		}
		s.Applied++
		switch res.Kind {
		case change.ReplaceText:
			if res.Replacements > 1 {
				s.MassReplacements++
			} else {
				s.PointChanges++
			}
		case change.ReplacePointText:
			s.PointChanges++
		case change.DeleteParagraph:
			s.Deletions++
		case change.InsertParagraph, change.InsertSection, change.InsertTable:
			s.Insertions++
		case change.AddComment:
			s.Comments++
		}
	}
	return s
}
