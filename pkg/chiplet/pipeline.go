package chiplet

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Run evaluates every stage of the pipeline against c and returns the results
// in pipeline order. Stages share nothing but c, so they are evaluated
// concurrently; the first error aborts the run and no results are returned.
func Run(ctx context.Context, c Constants) ([]Result, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	stages := Pipeline()
	out := make([]Result, len(stages))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range stages {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Estimate(s, c)
			if err != nil {
				return fmt.Errorf("stage %s: %w", s, err)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
