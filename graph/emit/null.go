package emit

import "context"

// NullEmitter discards every event. It is the zero-configuration default
// used when a run is not wired to any observability backend.
type NullEmitter struct{}

// Emit discards event.
func (NullEmitter) Emit(Event) {}

// Flush is a no-op.
func (NullEmitter) Flush(context.Context) error { return nil }
