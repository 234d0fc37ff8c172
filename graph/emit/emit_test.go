package emit

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestNullEmitterDiscards(t *testing.T) {
	var n NullEmitter
	n.Emit(Event{Kind: NodeEvaluated})
	if err := n.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func TestLogEmitterText(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogEmitter(&buf, false)
	l.Emit(Event{EngineTime: 3, Kind: NodeStarted, NodeID: "0.1"})
	out := buf.String()
	if !strings.Contains(out, "node_started") || !strings.Contains(out, "0.1") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestLogEmitterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogEmitter(&buf, true)
	l.Emit(Event{EngineTime: 1, Kind: NodeError, NodeID: "0", Meta: map[string]any{"error": "boom"}})
	if !strings.Contains(buf.String(), `"Kind":"node_error"`) {
		t.Fatalf("expected JSON line, got %q", buf.String())
	}
}

func TestBufferedEmitterHistoryAndFilter(t *testing.T) {
	b := NewBufferedEmitter()
	b.Emit(Event{Kind: NodeStarted, NodeID: "0"})
	b.Emit(Event{Kind: NodeError, NodeID: "1"})
	b.Emit(Event{Kind: NodeError, NodeID: "0"})

	if len(b.History()) != 3 {
		t.Fatalf("want 3 events, got %d", len(b.History()))
	}
	errs := b.Filter(HistoryFilter{Kind: NodeError})
	if len(errs) != 2 {
		t.Fatalf("want 2 error events, got %d", len(errs))
	}
	node0 := b.Filter(HistoryFilter{NodeID: "0"})
	if len(node0) != 2 {
		t.Fatalf("want 2 events for node 0, got %d", len(node0))
	}

	b.Clear()
	if len(b.History()) != 0 {
		t.Fatalf("want empty history after Clear, got %d", len(b.History()))
	}
}
