package workflows

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/fixture/observability"
)

// TaskProcessor processes the item at index and returns its result. Tasks run
// concurrently; a processor must not assume any other task has finished.
type TaskProcessor[TItem, TResult any] func(
	ctx context.Context,
	index int,
	item TItem,
) (TResult, error)

// ProcessParallel runs processor for every item concurrently and joins the
// results in item order.
//
// The call is all-or-nothing: the first failing task cancels the context
// shared by the remaining tasks and ProcessParallel returns a *TaskError for
// that task with no results. Tasks that already completed are discarded.
//
// maxWorkers > 0 bounds the number of tasks running at once; otherwise every
// item gets its own goroutine. An empty items slice returns an empty, non-nil
// result slice without calling processor.
func ProcessParallel[TItem, TResult any](
	ctx context.Context,
	observer observability.Observer,
	maxWorkers int,
	items []TItem,
	processor TaskProcessor[TItem, TResult],
) ([]TResult, error) {
	observer = resolveObserver(observer)
	const source = "workflows.ProcessParallel"

	workerCount := calculateWorkerCount(maxWorkers, len(items))

	emit(ctx, observer, EventParallelStart, observability.LevelVerbose, source, map[string]any{
		"item_count":   len(items),
		"worker_count": workerCount,
	})

	results := make([]TResult, len(items))
	if len(items) == 0 {
		emit(ctx, observer, EventParallelComplete, observability.LevelVerbose, source, map[string]any{
			"items_processed": 0,
			"error":           false,
		})
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount)

	var completed atomic.Int32
	for i, item := range items {
		g.Go(func() error {
			emit(gctx, observer, EventWorkerStart, observability.LevelVerbose, source, map[string]any{
				"item_index":  i,
				"total_items": len(items),
			})

			result, err := processor(gctx, i, item)

			emit(gctx, observer, EventWorkerComplete, observability.LevelVerbose, source, map[string]any{
				"item_index":  i,
				"total_items": len(items),
				"error":       err != nil,
			})

			if err != nil {
				return &TaskError{Index: i, Err: err}
			}

			results[i] = result
			completed.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		emit(ctx, observer, EventParallelComplete, observability.LevelVerbose, source, map[string]any{
			"items_processed": int(completed.Load()),
			"error":           true,
		})
		return nil, err
	}

	emit(ctx, observer, EventParallelComplete, observability.LevelVerbose, source, map[string]any{
		"items_processed": len(items),
		"error":           false,
	})

	return results, nil
}

// calculateWorkerCount returns maxWorkers capped at itemCount, or itemCount
// when maxWorkers is not positive. The result is at least 1.
func calculateWorkerCount(maxWorkers, itemCount int) int {
	workers := itemCount
	if maxWorkers > 0 {
		workers = min(maxWorkers, itemCount)
	}
	if workers <= 0 {
		workers = 1
	}
	return workers
}
