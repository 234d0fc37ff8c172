package emit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// LogEmitter writes each Event to a writer, either as human-readable
// key=value text or as one JSON object per line.
type LogEmitter struct {
	writer   io.Writer
	jsonMode bool
}

// NewLogEmitter constructs a LogEmitter writing to w.
func NewLogEmitter(w io.Writer, jsonMode bool) *LogEmitter {
	return &LogEmitter{writer: w, jsonMode: jsonMode}
}

// Emit writes event to the configured writer. Write errors are swallowed:
// observability must never fail a run.
func (l *LogEmitter) Emit(event Event) {
	if l.jsonMode {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintln(l.writer, string(b))
		return
	}
	fmt.Fprintf(l.writer, "[%s] t=%d node=%s meta=%v\n", event.Kind, event.EngineTime, event.NodeID, event.Meta)
}

// Flush is a no-op: LogEmitter writes synchronously.
func (l *LogEmitter) Flush(context.Context) error { return nil }
