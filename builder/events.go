package builder

import "github.com/tailored-agentic-units/fixture/observability"

// Builder event types.
const (
	EventBuildStart     observability.EventType = "builder.build.start"
	EventBuildComplete  observability.EventType = "builder.build.complete"
	EventEntityStart    observability.EventType = "builder.entity.start"
	EventEntityComplete observability.EventType = "builder.entity.complete"
	EventStateResolve   observability.EventType = "builder.state.resolve"
	EventStateUnknown   observability.EventType = "builder.state.unknown"
)
