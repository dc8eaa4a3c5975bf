package patch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docforge/redline/annotate"
	"github.com/docforge/redline/change"
	"github.com/docforge/redline/plan"
)

// Config wires a session's collaborators. Store is required; everything
// else defaults.
type Config struct {
	Store    DocumentStore
	Comments CommentSink
	Assist   LlmAssist
	Logger   *zap.Logger
	Tracker  *annotate.Tracker
	Retry    *RetryChain

	// InputPath is the document to patch; OutputPath defaults to it.
	InputPath  string
	OutputPath string

	// BackupPath, when set, receives an untouched copy of the input before
	// any mutation. A failing backup aborts the session.
	BackupPath string

	// Annotate enables audit notes for applied operations.
	Annotate bool

	// ReviewThreshold gates LLM mapping review overrides.
	ReviewThreshold float64

	// KeywordLimit and MinKeywordLen tune the locator's keyword mode; zero
	// keeps the defaults.
	KeywordLimit  int
	MinKeywordLen int
}

// Session executes one operation list against one document, ending in
// exactly one persist. Sessions are single-threaded; independent sessions
// over different documents may run in parallel.
type Session struct {
	id      string
	cfg     Config
	exec    *Executor
	retry   *RetryChain
	tracker *annotate.Tracker
}

// NewSession validates the config and prepares a session.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Store == nil {
		return nil, errors.New("patch: session requires a document store")
	}
	if cfg.InputPath == "" {
		return nil, errors.New("patch: session requires an input path")
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Tracker == nil {
		cfg.Tracker = annotate.NewTracker()
	}
	if cfg.Retry == nil {
		cfg.Retry = NewRetryChain()
	}

	exec := NewExecutor()
	exec.SetLogger(cfg.Logger)
	exec.Assist = cfg.Assist
	if cfg.Comments != nil {
		exec.Comments = cfg.Comments
	}
	if cfg.ReviewThreshold > 0 {
		exec.ReviewThreshold = cfg.ReviewThreshold
	}
	if cfg.KeywordLimit > 0 {
		exec.Locator.KeywordLimit = cfg.KeywordLimit
	}
	if cfg.MinKeywordLen > 0 {
		exec.Locator.MinKeywordLen = cfg.MinKeywordLen
	}

	return &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		exec:    exec,
		retry:   cfg.Retry,
		tracker: cfg.Tracker,
	}, nil
}

// ID returns the session's identifier.
func (s *Session) ID() string { return s.id }

// Run validates, orders and executes the raw operations, annotates the
// applied ones, and persists the document once. A context cancellation
// before the final save aborts the session without writing anything.
func (s *Session) Run(ctx context.Context, raws []change.Raw) (*Report, error) {
	log := s.cfg.Logger.With(zap.String("session", s.id))
	log.Info("session start",
		zap.String("input", s.cfg.InputPath),
		zap.Int("operations", len(raws)),
	)

	if s.cfg.BackupPath != "" {
		if err := s.cfg.Store.Copy(s.cfg.InputPath, s.cfg.BackupPath); err != nil {
			return nil, fmt.Errorf("%w: backup to %s: %v", ErrPersistenceFailure, s.cfg.BackupPath, err)
		}
	}

	doc, err := s.cfg.Store.Load(s.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %v", ErrPersistenceFailure, s.cfg.InputPath, err)
	}

	report := &Report{SessionID: s.id}

	ops, verrs := change.ValidateAll(raws)
	var valid []change.Operation
	for i, verr := range verrs {
		if verr == nil {
			valid = append(valid, ops[i])
			continue
		}
		report.Results = append(report.Results, ExecutionResult{
			OperationID: ops[i].ID,
			Kind:        ops[i].Kind,
			Status:      StatusFailed,
			Err:         mapValidationError(verr),
			Detail:      verr.Error(),
		})
		log.Warn("operation rejected", zap.String("op", ops[i].ID), zap.Error(verr))
	}

	ordered := plan.Order(valid)

	var notes []annotate.Note
	for _, op := range ordered {
		if err := ctx.Err(); err != nil {
			// Abort: the in-memory document is discarded unwritten.
			log.Warn("session aborted", zap.Error(err))
			return nil, err
		}

		res := s.retry.Execute(ctx, s.exec, log, doc, op)
		report.Results = append(report.Results, res)

		if res.Status == StatusApplied && s.cfg.Annotate && op.Annotate {
			notes = append(notes, annotate.Note{
				OperationID: op.ID,
				Kind:        string(op.Kind),
				Description: op.Description,
				Extra:       res.Detail,
				Status:      res.Status.String(),
				AnchorText:  res.AnchorText,
				AfterTable:  res.AfterTable,
			})
		}
	}

	if len(notes) > 0 {
		s.tracker.Annotate(doc, notes)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("session aborted before persist", zap.Error(err))
		return nil, err
	}
	if err := s.cfg.Store.Save(doc, s.cfg.OutputPath); err != nil {
		return nil, fmt.Errorf("%w: saving %s: %v", ErrPersistenceFailure, s.cfg.OutputPath, err)
	}

	sum := report.Summarize()
	log.Info("session complete",
		zap.Int("applied", sum.Applied),
		zap.Int("failed", sum.Failed),
		zap.String("output", s.cfg.OutputPath),
	)
	return report, nil
}

// mapValidationError translates validator sentinels into the session error
// taxonomy.
func mapValidationError(err error) error {
	switch {
	case errors.Is(err, change.ErrUnsupported):
		return fmt.Errorf("%w: %v", ErrUnsupportedOperation, err)
	case errors.Is(err, change.ErrStructuralConflict):
		return fmt.Errorf("%w: %v", ErrStructuralConflict, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformedOperation, err)
	}
}
