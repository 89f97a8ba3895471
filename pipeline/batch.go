package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ValidateBatch runs Validate over each input concurrently. The pipeline
// is purely functional over its inputs (spec.md §5: "no shared mutable
// state... multiple documents may be processed in parallel across
// independent workers with no coordination"), so batching needs nothing
// beyond a bounded worker pool; errgroup.SetLimit caps concurrency
// without the caller having to manage a channel/WaitGroup by hand.
func ValidateBatch(ctx context.Context, inputs []ValidateInput, concurrency int) ([]Result, error) {
	results := make([]Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	for i, in := range inputs {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = Validate(in)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
