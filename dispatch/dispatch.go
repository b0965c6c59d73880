// Package dispatch runs independent work items across a bounded worker pool.
package dispatch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the pool size used when none is configured.
const DefaultWorkers = 4

// Result pairs one item's output with its submission index.
// Err is set when that item failed; other items are unaffected.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// Map applies fn to every item using at most workers goroutines.
//
// Results come back in submission order regardless of completion order.
// A failing item records its error in its Result and never aborts the
// rest of the batch. Items not yet started when ctx is cancelled report
// the context error.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(ctx context.Context, index int, item T) (R, error)) []Result[R] {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]Result[R], len(items))

	var g errgroup.Group
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			results[i].Index = i
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			results[i].Value, results[i].Err = fn(ctx, i, item)
			return nil
		})
	}

	// Worker funcs never return errors; failures live in results.
	_ = g.Wait()

	return results
}

// Successes returns the values of all results that completed without error,
// preserving submission order.
func Successes[R any](results []Result[R]) []R {
	values := make([]R, 0, len(results))
	for _, r := range results {
		if r.Err == nil {
			values = append(values, r.Value)
		}
	}
	return values
}

// FirstError returns the error of the earliest failed result, wrapped with
// its index, or nil when everything succeeded.
func FirstError[R any](results []Result[R]) error {
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("item %d: %w", r.Index, r.Err)
		}
	}
	return nil
}

// AllFailed reports whether no result succeeded. An empty batch has no
// failures and returns false.
func AllFailed[R any](results []Result[R]) bool {
	if len(results) == 0 {
		return false
	}
	for _, r := range results {
		if r.Err == nil {
			return false
		}
	}
	return true
}
