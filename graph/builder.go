package graph

// NodeBuilder is the protocol a reusable node factory implements so a
// GraphBuilder can materialize instances of it — and, for a node created
// dynamically under a TSD key, release them again when that key is
// removed (spec.md §4.4, grounded on original_source's per-key subgraph
// instantiation).
type NodeBuilder interface {
	// MakeInstance constructs one Node at id, wired with its own fresh
	// Input/Output trees.
	MakeInstance(id NodeID) *Node
	// ReleaseInstance tears down resources held by a previously
	// constructed instance (e.g. stopping a nested push source). Most
	// builders need no special teardown beyond Node.Stop and can leave
	// this a no-op.
	ReleaseInstance(n *Node)
}

// GraphBuilder assembles a Graph: it separates declaring nodes and
// binding edges between their Inputs/Outputs from the rank-assignment
// and start-up that happen once the structure is final (spec.md §4).
type GraphBuilder struct {
	graph     *Graph
	nextIndex int
}

// NewGraphBuilder starts a new graph assembly with the given run options
// (mode, emitter, metrics).
func NewGraphBuilder(opts ...Option) *GraphBuilder {
	cfg := defaultRunConfig()
	for _, o := range opts {
		o(cfg)
	}
	return &GraphBuilder{graph: NewGraph(cfg.mode, cfg.emitter, cfg.metrics)}
}

// AddNode registers n as the next root-level node and assigns its id.
func (b *GraphBuilder) AddNode(n *Node) NodeID {
	id := RootGraphID.Child(b.nextIndex)
	b.nextIndex++
	n.ID = id
	b.graph.AddNode(n)
	return id
}

// Connect statically binds in to out (spec.md §4 "bind" step). Returns a
// binding error if their shapes are incompatible.
func (b *GraphBuilder) Connect(out *Output, in *Input) error {
	return bindInput(b.graph.now, in, out, false)
}

// ObserveReference registers in as a dereference-observer of the REF
// output out, per Output.ObserveReference.
func (b *GraphBuilder) ObserveReference(out *Output, in *Input) error {
	return out.ObserveReference(b.graph.now, in)
}

// Build finalizes the graph: ranks are assigned from the bound edges,
// and every node is evaluated in rank order from then on.
func (b *GraphBuilder) Build() *Graph {
	b.graph.AssignRanks()
	return b.graph
}
