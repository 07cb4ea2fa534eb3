package observability

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DurationKey is the Data key MetricsObserver reads durations from. Events
// carrying a time.Duration under this key feed the duration histogram.
const DurationKey = "duration"

// MetricsObserver counts events by type and level and records durations
// reported under DurationKey.
type MetricsObserver struct {
	events    *prometheus.CounterVec
	durations *prometheus.HistogramVec
}

// NewMetricsObserver creates the collectors and registers them with reg.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	m := &MetricsObserver{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fixture",
			Name:      "events_total",
			Help:      "Observability events emitted while building fixtures.",
		}, []string{"type", "level"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fixture",
			Name:      "event_duration_seconds",
			Help:      "Durations reported by fixture build events.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"type"}),
	}

	if err := reg.Register(m.events); err != nil {
		return nil, fmt.Errorf("failed to register event counter: %w", err)
	}
	if err := reg.Register(m.durations); err != nil {
		reg.Unregister(m.events)
		return nil, fmt.Errorf("failed to register duration histogram: %w", err)
	}
	return m, nil
}

func (m *MetricsObserver) OnEvent(ctx context.Context, event Event) {
	m.events.WithLabelValues(string(event.Type), event.Level.String()).Inc()

	if d, ok := event.Data[DurationKey].(time.Duration); ok {
		m.durations.WithLabelValues(string(event.Type)).Observe(d.Seconds())
	}
}
