package workflows

import "fmt"

// ChainError reports the step at which a chain stopped. It carries the item
// being processed and the accumulated value before that step, and unwraps to
// the underlying error.
type ChainError[TItem, TContext any] struct {
	// StepIndex is the 0-based index of the step that failed
	StepIndex int

	// Item is the step being processed when the error occurred
	Item TItem

	// State is the accumulated value at the time of failure
	State TContext

	// Err is the underlying error that caused the failure
	Err error
}

func (e *ChainError[TItem, TContext]) Error() string {
	return fmt.Sprintf("chain failed at step %d: %v", e.StepIndex, e.Err)
}

func (e *ChainError[TItem, TContext]) Unwrap() error {
	return e.Err
}

// TaskError reports the parallel task whose failure ended a ProcessParallel
// call.
type TaskError struct {
	// Index is the 0-based position of the item in the original items slice
	Index int

	// Err is the error returned by the processor
	Err error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("parallel execution failed: item %d: %v", e.Index, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
