package reconcile

import (
	"context"

	"golang.org/x/sync/errgroup"

	"splitpay/internal/outcome"
)

// BatchResult pairs one purchase reference with its resolved outcome.
type BatchResult struct {
	Reference string
	Outcome   outcome.Outcome
}

// ResolveBatch resolves the status of many purchases concurrently, at most
// `concurrency` in flight. Each reference is independent; a failure outcome
// for one never stops the others. Results keep the input order.
func (e *Engine) ResolveBatch(ctx context.Context, refs []string, sandbox bool, concurrency int) []BatchResult {
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]BatchResult, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			results[i] = BatchResult{
				Reference: ref,
				Outcome: e.ResolveExpiredSession(ctx, FinalizeRequest{
					PurchaseReference: ref,
					Sandbox:           sandbox,
				}),
			}
			return nil
		})
	}
	// Outcomes never surface as errors, the group is used for bounded
	// concurrency only.
	_ = g.Wait()

	return results
}
