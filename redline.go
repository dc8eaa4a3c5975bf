// Package redline provides a fluent API for applying structured change
// operations to DOCX documents.
//
// Basic usage:
//
//	report, err := redline.Open("policy.docx").Apply(ctx, operations)
//	if err != nil {
//	    // handle error
//	}
//
// With options:
//
//	report, err := redline.Open("policy.docx").
//	    Output("policy.patched.docx").
//	    Backup("policy.backup.docx").
//	    Logger(logger).
//	    Apply(ctx, operations)
//
// For advanced use cases, the lower-level patch package is also available.
package redline

import (
	"context"

	"go.uber.org/zap"

	"github.com/docforge/redline/annotate"
	"github.com/docforge/redline/change"
	"github.com/docforge/redline/docxstore"
	"github.com/docforge/redline/patch"
)

// Patcher accumulates fluent configuration for one patch session.
type Patcher struct {
	input   string
	output  string
	backup  string
	options *Options
	store   patch.DocumentStore
	assist  patch.LlmAssist
	logger  *zap.Logger
}

// Open prepares a patcher for the DOCX file at path. Configuration methods
// return the same Patcher; Apply runs the session.
func Open(path string) *Patcher {
	return &Patcher{
		input:   path,
		options: defaultOptions(),
		store:   docxstore.NewStore(),
	}
}

// Output sets the destination path. By default the input is overwritten.
func (p *Patcher) Output(path string) *Patcher {
	p.output = path
	return p
}

// Backup copies the untouched input to path before any mutation.
func (p *Patcher) Backup(path string) *Patcher {
	p.backup = path
	return p
}

// WithOptions replaces the session options.
func (p *Patcher) WithOptions(opts *Options) *Patcher {
	if opts != nil {
		p.options = opts.clone()
	}
	return p
}

// Logger attaches a logger. The default discards everything.
func (p *Patcher) Logger(log *zap.Logger) *Patcher {
	p.logger = log
	return p
}

// Assist attaches the optional LLM helper for table work.
func (p *Patcher) Assist(a patch.LlmAssist) *Patcher {
	p.assist = a
	return p
}

// Store replaces the document store. Useful for testing against in-memory
// documents.
func (p *Patcher) Store(s patch.DocumentStore) *Patcher {
	p.store = s
	return p
}

// Apply validates, orders and executes the operations against the document,
// persisting it once. The returned report lists every operation's outcome.
func (p *Patcher) Apply(ctx context.Context, ops []change.Raw) (*patch.Report, error) {
	tracker := annotate.NewTracker()
	tracker.Color = p.options.AnnotationColor

	retry := patch.NewRetryChain()
	retry.NeighborRadius = p.options.NeighborRadius

	session, err := patch.NewSession(patch.Config{
		Store:           p.store,
		Assist:          p.assist,
		Logger:          p.logger,
		Tracker:         tracker,
		Retry:           retry,
		InputPath:       p.input,
		OutputPath:      p.output,
		BackupPath:      p.backup,
		Annotate:        p.options.Annotate,
		ReviewThreshold: p.options.ReviewThreshold,
		KeywordLimit:    p.options.KeywordLimit,
		MinKeywordLen:   p.options.MinKeywordLen,
	})
	if err != nil {
		return nil, err
	}
	return session.Run(ctx, ops)
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
