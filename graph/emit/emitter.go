package emit

import "context"

// Emitter receives observability events from a graph run. Implementations
// must not block node evaluation for long and must not panic.
type Emitter interface {
	// Emit records a single event.
	Emit(event Event)

	// Flush blocks until every buffered event has been delivered, or ctx
	// is done.
	Flush(ctx context.Context) error
}
