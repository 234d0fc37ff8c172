package graph

import (
	"testing"
	"time"
)

func newIntDictOutput() *Output {
	return NewDictOutput("int", NewScalarShape("int"), func() *Output {
		return NewScalarOutput("int")
	})
}

// TestDictBookkeeping verifies the universal property (spec.md §8): at
// drain end, a TSD's added_keys and removed_items are both empty, yet the
// key's committed value/removal is still observable up to that drain.
func TestDictBookkeeping(t *testing.T) {
	b := NewGraphBuilder()
	out := newIntDictOutput()
	owner := NewNode(NodeID{}, &NodeSignature{Name: "d", Kind: Compute}, map[string]*Input{}, out, nil, nil, nil, nil)
	b.AddNode(owner)
	g := b.Build()

	t0 := time.Unix(0, 0)
	if err := out.ApplyDict(t0, map[any]any{1: 10, 2: 20}); err != nil {
		t.Fatalf("apply dict: %v", err)
	}
	if len(out.AddedKeys()) != 2 {
		t.Fatalf("expected 2 added keys mid-drain, got %v", out.AddedKeys())
	}
	g.runAfterEvalCallbacks()
	if len(out.AddedKeys()) != 0 {
		t.Fatalf("expected added_keys cleared after drain, got %v", out.AddedKeys())
	}
	if len(out.RemovedItems()) != 0 {
		t.Fatalf("expected removed_items empty, got %v", out.RemovedItems())
	}

	t1 := t0.Add(MinTD)
	if err := out.Delete(t1, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(out.RemovedItems()) != 1 {
		t.Fatalf("expected 1 removed item mid-drain, got %v", out.RemovedItems())
	}
	g.runAfterEvalCallbacks()
	if len(out.RemovedItems()) != 0 {
		t.Fatalf("expected removed_items cleared after drain, got %v", out.RemovedItems())
	}

	snap := out.Value().(map[any]any)
	if _, stillThere := snap[1]; stillThere {
		t.Fatalf("expected key 1 gone after delete, snapshot=%v", snap)
	}
	if snap[2] != 20 {
		t.Fatalf("expected key 2 unaffected, snapshot=%v", snap)
	}
}

// TestSetDeltaDisjoint verifies the universal property (spec.md §8): a
// TSS's added and removed delta sets never overlap.
func TestSetDeltaDisjoint(t *testing.T) {
	b := NewGraphBuilder()
	out := NewSetOutput("int")
	owner := NewNode(NodeID{}, &NodeSignature{Name: "s", Kind: Compute}, map[string]*Input{}, out, nil, nil, nil, nil)
	b.AddNode(owner)
	g := b.Build()

	t0 := time.Unix(0, 0)
	out.ApplySetDelta(t0, []any{1, 2}, nil)
	g.runAfterEvalCallbacks()
	t1 := t0.Add(MinTD)
	out.ApplySetDelta(t1, []any{3}, []any{1})

	delta := out.DeltaValue().(SetDelta)
	added := map[any]bool{}
	for _, a := range delta.Added {
		added[a] = true
	}
	for _, r := range delta.Removed {
		if added[r] {
			t.Fatalf("added and removed overlap on %v", r)
		}
	}
	if !out.Contains(2) || !out.Contains(3) || out.Contains(1) {
		t.Fatalf("unexpected membership after delta: contains(1)=%v contains(2)=%v contains(3)=%v",
			out.Contains(1), out.Contains(2), out.Contains(3))
	}
}
