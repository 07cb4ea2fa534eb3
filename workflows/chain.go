package workflows

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/fixture/observability"
)

// StepProcessor applies one step to the accumulated value and returns the
// updated value. Returning an error stops the chain.
type StepProcessor[TItem, TContext any] func(
	ctx context.Context,
	item TItem,
	state TContext,
) (TContext, error)

// ChainResult contains the outcome of a chain.
type ChainResult[TContext any] struct {
	// Final is the accumulated value after the last completed step
	Final TContext

	// Steps is the number of steps successfully completed
	Steps int
}

// ProcessChain folds items into initial, one step at a time and strictly in
// order. Each step observes the value produced by all previous steps.
//
// Context cancellation is checked before every step. The first cancellation
// or processor error ends the chain with a *ChainError; the returned result
// then holds the value and step count reached before the failure.
//
// An empty items slice returns initial with Steps = 0.
func ProcessChain[TItem, TContext any](
	ctx context.Context,
	observer observability.Observer,
	items []TItem,
	initial TContext,
	processor StepProcessor[TItem, TContext],
) (ChainResult[TContext], error) {
	observer = resolveObserver(observer)
	const source = "workflows.ProcessChain"

	result := ChainResult[TContext]{Final: initial}

	emit(ctx, observer, EventChainStart, observability.LevelVerbose, source, map[string]any{
		"item_count": len(items),
	})

	state := initial
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			emit(ctx, observer, EventChainComplete, observability.LevelVerbose, source, map[string]any{
				"steps_completed": i,
				"error":           true,
				"error_type":      "cancellation",
			})
			return result, &ChainError[TItem, TContext]{
				StepIndex: i,
				Item:      item,
				State:     state,
				Err:       fmt.Errorf("processing cancelled: %w", err),
			}
		}

		emit(ctx, observer, EventStepStart, observability.LevelVerbose, source, map[string]any{
			"step_index":  i,
			"total_steps": len(items),
		})

		updated, err := processor(ctx, item, state)

		emit(ctx, observer, EventStepComplete, observability.LevelVerbose, source, map[string]any{
			"step_index":  i,
			"total_steps": len(items),
			"error":       err != nil,
		})

		if err != nil {
			emit(ctx, observer, EventChainComplete, observability.LevelVerbose, source, map[string]any{
				"steps_completed": i,
				"error":           true,
				"error_type":      "processor",
			})
			return result, &ChainError[TItem, TContext]{
				StepIndex: i,
				Item:      item,
				State:     state,
				Err:       err,
			}
		}

		state = updated
		result.Final = state
		result.Steps = i + 1
	}

	emit(ctx, observer, EventChainComplete, observability.LevelVerbose, source, map[string]any{
		"steps_completed": len(items),
		"error":           false,
	})

	return result, nil
}
