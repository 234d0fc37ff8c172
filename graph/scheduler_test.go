package graph_test

import (
	"testing"
	"time"

	"github.com/tsflow/tsflow/graph"
)

// TestSchedulerTagReplace verifies the universal property (spec.md §8):
// scheduling (tag, t1) then (tag, t2) leaves exactly one entry for tag,
// at t2.
func TestSchedulerTagReplace(t *testing.T) {
	out := graph.NewScalarOutput("int")
	n := graph.NewNode(graph.NodeID{}, &graph.NodeSignature{Name: "n", Kind: graph.Compute}, map[string]*graph.Input{}, out, nil, nil, nil, nil)

	t1 := time.Unix(0, 1)
	t2 := time.Unix(0, 2)

	n.ScheduleSelf(t1, "wake")
	n.ScheduleSelf(t2, "wake")

	sched := n.Scheduler()
	next, ok := sched.NextTime()
	if !ok {
		t.Fatalf("expected a scheduled time")
	}
	if !next.Equal(t2) {
		t.Fatalf("expected next time %v, got %v", t2, next)
	}

	due := sched.PopDue(t2)
	if len(due) != 1 || due[0] != "wake" {
		t.Fatalf("expected exactly one due tag %q, got %v", "wake", due)
	}
	if _, ok := sched.NextTime(); ok {
		t.Fatalf("expected no remaining scheduled time after draining")
	}
}

// TestSchedulerUnschedule verifies a cancelled tag never fires.
func TestSchedulerUnschedule(t *testing.T) {
	out := graph.NewScalarOutput("int")
	n := graph.NewNode(graph.NodeID{}, &graph.NodeSignature{Name: "n", Kind: graph.Compute}, map[string]*graph.Input{}, out, nil, nil, nil, nil)

	at := time.Unix(0, 5)
	n.ScheduleSelf(at, "cancel-me")
	n.UnscheduleSelf("cancel-me")

	if _, ok := n.Scheduler().NextTime(); ok {
		t.Fatalf("expected no scheduled time after unscheduling the only tag")
	}
}
