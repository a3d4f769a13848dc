// Package telemetry delivers enriched analytics events to external sinks.
package telemetry

import (
	"context"
	"time"

	"github.com/discoverdiani/discovery-platform/pkg/logger"
	"github.com/discoverdiani/discovery-platform/pkg/metrics"
)

// Sink receives a named event with an arbitrary JSON-serializable payload.
type Sink interface {
	Track(ctx context.Context, event string, payload any) error
	Name() string
}

// Fanout delivers one event to every configured sink. Delivery is
// fire-and-forget: failures are logged and counted, never surfaced to the
// caller.
type Fanout struct {
	sinks   []Sink
	timeout time.Duration
	logger  *logger.Logger
}

// NewFanout creates a fanout over the given sinks.
func NewFanout(log *logger.Logger, sinks ...Sink) *Fanout {
	return &Fanout{
		sinks:   sinks,
		timeout: 10 * time.Second,
		logger:  log,
	}
}

// Track sends the event to every sink in the background and returns
// immediately.
func (f *Fanout) Track(event string, payload any) {
	for _, sink := range f.sinks {
		go func(s Sink) {
			ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
			defer cancel()

			if err := s.Track(ctx, event, payload); err != nil {
				f.logger.Warn("telemetry delivery failed",
					"sink", s.Name(),
					"event", event,
					"error", err,
				)
				metrics.TelemetryFailures.WithLabelValues(s.Name()).Inc()
				return
			}
			metrics.TelemetryDeliveries.WithLabelValues(s.Name()).Inc()
		}(sink)
	}
}
