package review

import (
	"context"

	"github.com/dshills/prgate/internal/gitctx"
	"golang.org/x/sync/errgroup"
)

// RunAll runs every pass concurrently against the same diff and returns the
// results in pass order. The first failure cancels the passes still in
// flight; passes that already finished keep their artifacts.
func (r *Runner) RunAll(ctx context.Context, diff gitctx.Diff) ([]Result, error) {
	results := make([]Result, len(Passes))
	eg, ctx := errgroup.WithContext(ctx)
	for i, pass := range Passes {
		eg.Go(func() error {
			res, err := r.RunPass(ctx, pass, diff)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
