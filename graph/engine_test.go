package graph_test

import (
	"context"
	"testing"
	"time"

	"github.com/tsflow/tsflow/graph"
)

func newSinkNode(in *graph.Input, fn func(ctx *graph.ExecutionContext)) *graph.Node {
	sig := &graph.NodeSignature{Name: "sink", Kind: graph.Sink, Inputs: []string{"in"}}
	return graph.NewNode(graph.NodeID{}, sig, map[string]*graph.Input{"in": in}, nil, nil,
		func(ctx *graph.ExecutionContext, n *graph.Node) error {
			fn(ctx)
			return nil
		}, nil, nil)
}

// TestScalarPassthrough implements spec.md §8 scenario 1: a push source
// feeding [1, 2] through a single bound edge yields the same sequence at
// the sink.
func TestScalarPassthrough(t *testing.T) {
	b := graph.NewGraphBuilder()

	out := graph.NewScalarOutput("int")
	src, state := graph.NewPushSourceNode(graph.NodeID{}, "src", out, nil)
	b.AddNode(src)

	in := graph.NewScalarInput("int")
	var got []int
	sink := newSinkNode(in, func(ctx *graph.ExecutionContext) {
		got = append(got, in.Value().(int))
	})
	b.AddNode(sink)

	if err := b.Connect(out, in); err != nil {
		t.Fatalf("connect: %v", err)
	}
	g := b.Build()

	t0 := time.Unix(0, 0)
	t1 := t0.Add(graph.MinTD)
	end := t1.Add(graph.MinTD)

	if err := state.Send(t0, 1); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := state.Send(t1, 2); err != nil {
		t.Fatalf("send: %v", err)
	}
	state.Stop()

	err := graph.Run(context.Background(), g, graph.WithStartTime(t0), graph.WithEndTime(end))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

// TestScheduledIndependentOfModification verifies the universal property
// (spec.md §8): a node scheduled at t runs at t even if no input changed.
func TestScheduledIndependentOfModification(t *testing.T) {
	b := graph.NewGraphBuilder()

	out := graph.NewScalarOutput("int")
	sig := &graph.NodeSignature{Name: "ticker", Kind: graph.Compute, UsesScheduler: true}
	var fireCount int
	tickAt := time.Unix(0, 100)
	n := graph.NewNode(graph.NodeID{}, sig, map[string]*graph.Input{}, out, nil,
		func(ctx *graph.ExecutionContext, n *graph.Node) error {
			fireCount++
			return nil
		},
		func(ctx *graph.ExecutionContext, n *graph.Node) error {
			n.ScheduleSelf(tickAt, "once")
			return nil
		}, nil)
	b.AddNode(n)
	g := b.Build()

	err := graph.Run(context.Background(), g, graph.WithStartTime(time.Unix(0, 0)), graph.WithEndTime(tickAt))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if fireCount != 1 {
		t.Fatalf("expected exactly one scheduled-independent fire, got %d", fireCount)
	}
}

// TestRefRebindTouchesObservers verifies the universal property (spec.md
// §8): re-binding a REF output to a different concrete output touches
// every observer at the current engine time.
func TestRefRebindTouchesObservers(t *testing.T) {
	b := graph.NewGraphBuilder()

	target1 := graph.NewScalarOutput("int")
	target2 := graph.NewScalarOutput("int")
	refOut := graph.NewRefOutput(nil)

	holder := graph.NewNode(graph.NodeID{}, &graph.NodeSignature{Name: "t1", Kind: graph.Compute}, map[string]*graph.Input{}, target1, nil, nil, nil, nil)
	holder2 := graph.NewNode(graph.NodeID{}, &graph.NodeSignature{Name: "t2", Kind: graph.Compute}, map[string]*graph.Input{}, target2, nil, nil, nil, nil)
	refHolder := graph.NewNode(graph.NodeID{}, &graph.NodeSignature{Name: "ref", Kind: graph.Compute}, map[string]*graph.Input{}, refOut, nil, nil, nil, nil)
	b.AddNode(holder)
	b.AddNode(holder2)
	b.AddNode(refHolder)

	consumerIn := graph.NewScalarInput("int")
	consumer := newSinkNode(consumerIn, func(ctx *graph.ExecutionContext) {})
	b.AddNode(consumer)
	if err := b.ObserveReference(refOut, consumerIn); err != nil {
		t.Fatalf("observe: %v", err)
	}
	g := b.Build()

	t0 := time.Unix(0, 0)
	target1.ApplyScalar(t0, 1)
	if err := refOut.ApplyRef(t0, graph.NewPeerRef(target1)); err != nil {
		t.Fatalf("apply ref: %v", err)
	}
	if !consumerIn.Modified(t0) {
		t.Fatalf("expected consumer to be modified on initial bind")
	}

	t1 := t0.Add(graph.MinTD)
	target2.ApplyScalar(t1, 2)
	if err := refOut.ApplyRef(t1, graph.NewPeerRef(target2)); err != nil {
		t.Fatalf("apply ref: %v", err)
	}
	if !consumerIn.Modified(t1) {
		t.Fatalf("expected consumer's last_modified_time to change on rebind")
	}
	if consumerIn.Value().(int) != 2 {
		t.Fatalf("expected rebound consumer to read 2, got %v", consumerIn.Value())
	}
}
