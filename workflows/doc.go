// Package workflows provides the two execution patterns fixture builds are
// made of: a sequential fold over ordered steps (ProcessChain) and a
// concurrent fan-out over independent items joined into one result
// (ProcessParallel).
//
// Both patterns are generic and know nothing about entities or states. The
// builder package composes them: every entity runs its own chain of
// mutations, and the chains of one batch run in parallel.
//
// # Sequential Chains
//
// ProcessChain threads an accumulated value through each step in order.
// Each step must finish before the next begins, and the first failing step
// stops the chain with a *ChainError naming the step index:
//
//	result, err := workflows.ProcessChain(ctx, observer, steps, initial,
//	    func(ctx context.Context, step Step, acc *Record) (*Record, error) {
//	        return acc, step.Apply(ctx, acc)
//	    })
//
// # Parallel Execution
//
// ProcessParallel runs the processor for every item concurrently and returns
// results in item order. The first failure cancels the shared context and
// fails the whole call; no partial results are returned:
//
//	results, err := workflows.ProcessParallel(ctx, observer, 0, items,
//	    func(ctx context.Context, index int, item string) (string, error) {
//	        return strings.ToUpper(item), nil
//	    })
//
// maxWorkers bounds concurrency; zero or less starts one goroutine per item.
//
// # Observability
//
// Both patterns emit events through the supplied observer (nil means no
// events): chain.start, step.start, step.complete, chain.complete for chains
// and parallel.start, worker.start, worker.complete, parallel.complete for
// parallel runs. Per-step and per-worker events use LevelVerbose.
package workflows
