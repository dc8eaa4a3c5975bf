package patch

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/docforge/redline/change"
	"github.com/docforge/redline/locate"
	"github.com/docforge/redline/model"
)

// scanKeywordLimit is the relaxed token requirement used by the neighbor
// scan. The full-range passes already ran with the stricter limit.
const scanKeywordLimit = 2

// RetryChain escalates a failed match through weaker strategies: the modes
// listed in Fallbacks, then a keyword scan of the blocks neighboring the
// last candidate location with the token requirement relaxed to
// scanKeywordLimit. The first successful attempt short-circuits the chain.
type RetryChain struct {
	// Fallbacks are tried in order after the primary mode fails.
	Fallbacks []locate.Mode

	// NeighborRadius is how many blocks around the last candidate the
	// final scan covers.
	NeighborRadius int
}

// NewRetryChain creates a chain with the standard escalation order.
func NewRetryChain() *RetryChain {
	return &RetryChain{
		Fallbacks: []locate.Mode{
			locate.ModeNormalized,
			locate.ModeFold,
			locate.ModeKeywords,
		},
		NeighborRadius: 2,
	}
}

// Execute runs the operation, retrying on a missed target. Each attempt is a
// fresh locating and applying cycle; failures other than a missed target are
// terminal immediately. Point rewrites are never retried: the numbered-item
// resolver has no weaker variant, so a full-document miss is final.
func (r *RetryChain) Execute(ctx context.Context, e *Executor, log *zap.Logger, doc *model.Document, op change.Operation) ExecutionResult {
	primary := primaryMode(op)
	res := e.Apply(ctx, doc, op, primary, 0, len(doc.Blocks))
	if res.Status == StatusApplied || !errors.Is(res.Err, ErrTargetNotFound) {
		return res
	}
	if op.Kind == change.ReplacePointText {
		return res
	}

	for _, mode := range r.Fallbacks {
		if mode == primary {
			continue
		}
		log.Debug("retrying with weaker strategy",
			zap.String("op", op.ID),
			zap.String("mode", mode.String()),
		)
		res = e.Apply(ctx, doc, op, mode, 0, len(doc.Blocks))
		if res.Status == StatusApplied || !errors.Is(res.Err, ErrTargetNotFound) {
			return res
		}
	}

	// Neighbor scan around the last place anything matched, relaxing the
	// keyword requirement the full-range pass just failed with.
	hint := e.LastHint()
	if hint < 0 {
		return res
	}
	from, to := hint-r.NeighborRadius, hint+r.NeighborRadius+1
	log.Debug("retrying with neighbor scan",
		zap.String("op", op.ID),
		zap.Int("from", from),
		zap.Int("to", to),
	)
	limit := e.Locator.KeywordLimit
	if limit > scanKeywordLimit {
		e.Locator.KeywordLimit = scanKeywordLimit
		defer func() { e.Locator.KeywordLimit = limit }()
	}
	return e.Apply(ctx, doc, op, locate.ModeKeywords, from, to)
}
