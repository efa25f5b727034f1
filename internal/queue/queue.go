// Package queue runs tasks one at a time with a minimum delay between starts.
package queue

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Paced is a sequential task runner. The first task starts immediately and
// every following task waits until delay has passed since the previous start.
type Paced struct {
	limiter *rate.Limiter
}

func NewPaced(delay time.Duration) *Paced {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Paced{limiter: rate.NewLimiter(limit, 1)}
}

// Outcome records the result of one task.
type Outcome[R any] struct {
	Index  int
	Result R
	Err    error
}

// Each runs fn over items in order. A failing task does not stop the run; the
// run stops early only when ctx is done, in which case the context error is
// returned together with the outcomes collected so far.
func Each[T, R any](ctx context.Context, p *Paced, items []T, fn func(context.Context, int, T) (R, error)) ([]Outcome[R], error) {
	outcomes := make([]Outcome[R], 0, len(items))
	for i, item := range items {
		if err := p.limiter.Wait(ctx); err != nil {
			return outcomes, ctxErr(ctx, err)
		}
		r, err := fn(ctx, i, item)
		outcomes = append(outcomes, Outcome[R]{Index: i, Result: r, Err: err})
	}
	return outcomes, nil
}

// Succeeded returns the results of the tasks that did not fail.
func Succeeded[R any](outcomes []Outcome[R]) []R {
	var out []R
	for _, o := range outcomes {
		if o.Err == nil {
			out = append(out, o.Result)
		}
	}
	return out
}

// rate.Limiter reports a wait that would outlast the deadline with its own
// error; surface the context error instead when there is one.
func ctxErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
