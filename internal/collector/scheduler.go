package collector

// #region imports
import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// #endregion

// #region scheduler

// Scheduler decides how the n calls of a batch are issued. call must be
// invoked at most once per index; results are slotted by index so order
// is preserved regardless of policy.
type Scheduler interface {
	Run(ctx context.Context, n int, call func(ctx context.Context, i int)) error
}

// #endregion

// #region sequential

// Sequential issues calls one at a time with at least Spacing between
// consecutive call starts.
type Sequential struct {
	Spacing time.Duration
}

// Run implements Scheduler.
func (s Sequential) Run(ctx context.Context, n int, call func(ctx context.Context, i int)) error {
	limiter := rate.NewLimiter(rate.Every(s.Spacing), 1)
	for i := 0; i < n; i++ {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		call(ctx, i)
	}
	return nil
}

// #endregion

// #region bounded-parallel

// BoundedParallel issues up to Limit calls at once. Limit <= 0 means unbounded.
type BoundedParallel struct {
	Limit int
}

// Run implements Scheduler.
func (p BoundedParallel) Run(ctx context.Context, n int, call func(ctx context.Context, i int)) error {
	var g errgroup.Group
	if p.Limit > 0 {
		g.SetLimit(p.Limit)
	}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			call(ctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// #endregion
