package service

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelExecutorImpl implements the ParallelExecutor interface on a
// bounded errgroup
type ParallelExecutorImpl struct {
	maxConcurrency int
}

// NewParallelExecutor creates a parallel executor limited to GOMAXPROCS jobs
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.GOMAXPROCS(0),
	}
}

// Execute calls job once for every index in [0, n). Dispatch stops at the
// first job error or when ctx is done; the first error is returned.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, n int, job func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return ctx.Err()
	}

	g, gCtx := errgroup.WithContext(ctx)
	if pe.maxConcurrency > 0 {
		g.SetLimit(pe.maxConcurrency)
	}

	for i := 0; i < n; i++ {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return job(gCtx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// SetMaxConcurrency sets the maximum number of concurrent jobs; 0 removes the limit
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}
