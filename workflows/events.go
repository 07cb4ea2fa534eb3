package workflows

import (
	"context"
	"time"

	"github.com/tailored-agentic-units/fixture/observability"
)

const (
	// Sequential chains
	EventChainStart    observability.EventType = "chain.start"
	EventChainComplete observability.EventType = "chain.complete"
	EventStepStart     observability.EventType = "step.start"
	EventStepComplete  observability.EventType = "step.complete"

	// Parallel execution
	EventParallelStart    observability.EventType = "parallel.start"
	EventParallelComplete observability.EventType = "parallel.complete"
	EventWorkerStart      observability.EventType = "worker.start"
	EventWorkerComplete   observability.EventType = "worker.complete"
)

func emit(ctx context.Context, observer observability.Observer, typ observability.EventType, level observability.Level, source string, data map[string]any) {
	observer.OnEvent(ctx, observability.Event{
		Type:      typ,
		Level:     level,
		Timestamp: time.Now(),
		Source:    source,
		Data:      data,
	})
}

func resolveObserver(observer observability.Observer) observability.Observer {
	if observer == nil {
		return observability.NoOpObserver{}
	}
	return observer
}
