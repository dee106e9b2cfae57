// Package telemetry adapts the runtime's logging/metrics conventions for the
// projector subtree: structured debug logging via goa.design/clue/log and
// OTEL counters, with no-op implementations so the projector never requires
// a running collector.
package telemetry

import "context"

type (
	// Logger emits structured log lines. Only Debug is used by the projector
	// itself; the wider interface exists so callers can share one logger
	// across the projector and its collaborators.
	Logger interface {
		Debug(ctx context.Context, msg string, keyvals ...any)
		Info(ctx context.Context, msg string, keyvals ...any)
		Warn(ctx context.Context, msg string, keyvals ...any)
		Error(ctx context.Context, msg string, keyvals ...any)
	}

	// Metrics records the projector's counters (events received, events
	// emitted, terminal events). Tags are flattened key/value pairs,
	// mirroring the runtime's metrics contract.
	Metrics interface {
		IncCounter(name string, value float64, tags ...string)
	}
)
