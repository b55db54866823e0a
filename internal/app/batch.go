package app

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/folio-a11y/internal/audit"
	"github.com/raysh454/folio-a11y/internal/logging"
)

// BatchItem is the outcome of auditing one target of a batch. Exactly one of
// Result and Error is set once the target has been processed.
type BatchItem struct {
	Target string        `json:"target"`
	Result *audit.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// AuditBatch audits targets with the default backend, running at most
// concurrency audits at a time (the configured batch concurrency when < 1).
// A target that fails to render is recorded in its item and does not stop
// the batch; only cancellation of ctx does. Items keep the order of targets.
func (a *Application) AuditBatch(ctx context.Context, targets []string, concurrency int) ([]BatchItem, error) {
	return a.auditBatch(ctx, targets, "", concurrency, nil)
}

func (a *Application) auditBatch(ctx context.Context, targets []string, backend string, concurrency int, progress func(done int, item BatchItem)) ([]BatchItem, error) {
	if concurrency < 1 {
		concurrency = a.cfg.BatchConcurrency
	}
	if concurrency < 1 {
		concurrency = 1
	}

	items := make([]BatchItem, len(targets))
	for i, t := range targets {
		items[i].Target = t
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	var done atomic.Int64

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := a.AuditTarget(gctx, items[i].Target, backend)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				a.logger.Warn("batch target failed",
					logging.Field{Key: "target", Value: items[i].Target},
					logging.Field{Key: "error", Value: err.Error()})
				items[i].Error = err.Error()
			} else {
				items[i].Result = res
			}
			n := int(done.Add(1))
			if progress != nil {
				progress(n, items[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}
	a.logger.Info("batch complete",
		logging.Field{Key: "targets", Value: len(targets)},
		logging.Field{Key: "concurrency", Value: concurrency})
	return items, nil
}
