package graph

import (
	"container/heap"
	"sort"
	"sync"

	"github.com/tsflow/tsflow/graph/emit"
)

// RunMode selects how the engine advances its logical clock (spec.md §5).
type RunMode int

const (
	// Simulation advances the clock directly to the next scheduled or
	// pushed time, as fast as the host can evaluate.
	Simulation RunMode = iota
	// RealTime paces the clock to wall-clock time, sleeping between ticks.
	RealTime
)

// Graph owns every node of a run, the pending-time heap that drives
// which nodes are due next, and the after-evaluation callback queue used
// to clear per-tick TSS/TSD bookkeeping (spec.md §4.1, §4.4).
type Graph struct {
	Nodes []*Node

	now  Time
	mode RunMode

	pendingMu sync.Mutex
	pending   pendingHeap
	wake      chan struct{}

	afterEval []func()

	stopRequested bool
	emitter       emit.Emitter
	metrics       *Metrics
}

type pendingEntry struct {
	when  Time
	node  *Node
	index int
}

type pendingHeap []*pendingEntry

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if !h[i].when.Equal(h[j].when) {
		return timeLess(h[i].when, h[j].when)
	}
	return h[i].node.rank < h[j].node.rank
}
func (h pendingHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *pendingHeap) Push(x any) {
	e := x.(*pendingEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// NewGraph constructs an empty Graph in the given run mode, with an
// Emitter and Metrics sink (either may be nil, defaulting to no-ops).
func NewGraph(mode RunMode, emitter emit.Emitter, metrics *Metrics) *Graph {
	if emitter == nil {
		emitter = emit.NullEmitter{}
	}
	g := &Graph{
		mode:    mode,
		emitter: emitter,
		metrics: metrics,
		wake:    make(chan struct{}, 1),
	}
	heap.Init(&g.pending)
	return g
}

// Now returns the graph's current logical evaluation time.
func (g *Graph) Now() Time { return g.now }

// AddNode registers n with the graph and attaches graph back-pointers
// through its input/output trees.
func (g *Graph) AddNode(n *Node) {
	n.graph = g
	attachGraphToInput(n.Inputs, g)
	if n.Output != nil {
		attachGraphToOutput(n.Output, g)
	}
	g.Nodes = append(g.Nodes, n)
}

func attachGraphToOutput(o *Output, g *Graph) {
	o.graph = g
	for _, c := range o.children {
		attachGraphToOutput(c, g)
	}
	for _, c := range o.dictChildren {
		attachGraphToOutput(c, g)
	}
	if o.dictKeySet != nil {
		attachGraphToOutput(o.dictKeySet, g)
	}
}

func attachGraphToInput(ins map[string]*Input, g *Graph) {
	for _, in := range ins {
		attachGraphToInputTree(in, g)
	}
}

func attachGraphToInputTree(in *Input, g *Graph) {
	in.graph = g
	for _, c := range in.children {
		attachGraphToInputTree(c, g)
	}
	for _, c := range in.dictChildren {
		attachGraphToInputTree(c, g)
	}
	if in.dictKeySet != nil {
		attachGraphToInputTree(in.dictKeySet, g)
	}
}

// AssignRanks computes each node's evaluation rank from the static bind
// graph: push/pull sources root at rank 0 (pull at 1 if otherwise
// rootless), a compute node's rank is one more than the deepest of its
// bound predecessors, and every sink node is ranked last, one above the
// highest non-sink rank (spec.md §4.1).
func (g *Graph) AssignRanks() {
	visiting := map[*Node]bool{}
	done := map[*Node]bool{}
	var visit func(n *Node) int
	visit = func(n *Node) int {
		if done[n] {
			return n.rank
		}
		if visiting[n] {
			return 0
		}
		visiting[n] = true
		best := 0
		for _, name := range n.Signature.Inputs {
			in := n.Inputs[name]
			if in == nil || in.bound == nil || in.bound.owner == nil {
				continue
			}
			if r := visit(in.bound.owner) + 1; r > best {
				best = r
			}
		}
		if best == 0 && n.Signature.Kind == PullSource {
			best = 1
		}
		visiting[n] = false
		done[n] = true
		n.rank = best
		return best
	}
	for _, n := range g.Nodes {
		visit(n)
	}
	maxRank := -1
	for _, n := range g.Nodes {
		if n.Signature.Kind != Sink && n.rank > maxRank {
			maxRank = n.rank
		}
	}
	for _, n := range g.Nodes {
		if n.Signature.Kind == Sink {
			n.rank = maxRank + 1
		}
	}
	sort.SliceStable(g.Nodes, func(i, j int) bool { return g.Nodes[i].rank < g.Nodes[j].rank })
}

// scheduleNode requests that n be evaluated at logical time t. Duplicate
// requests for the same (node, time) are harmless: drainReadySet dedupes
// within a single tick, and a node's own NodeScheduler is the source of
// truth for which tags actually fired. Safe to call from any goroutine
// (a push source's Send does so concurrently with the run loop).
func (g *Graph) scheduleNode(n *Node, t Time) {
	g.pendingMu.Lock()
	heap.Push(&g.pending, &pendingEntry{when: t, node: n})
	g.pendingMu.Unlock()
	select {
	case g.wake <- struct{}{}:
	default:
	}
}

// addAfterEvalCallback registers fn to run once after the current tick's
// ready set finishes evaluating.
func (g *Graph) addAfterEvalCallback(fn func()) {
	g.afterEval = append(g.afterEval, fn)
}

func (g *Graph) runAfterEvalCallbacks() {
	cbs := g.afterEval
	g.afterEval = nil
	for _, fn := range cbs {
		fn()
	}
}

// nextScheduledTime returns the earliest time any node is still due, if
// the pending heap is non-empty. An empty heap reports MaxDT: "nothing
// due, ever" until something new is scheduled.
func (g *Graph) nextScheduledTime() (Time, bool) {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	if len(g.pending) == 0 {
		return MaxDT, false
	}
	return g.pending[0].when, true
}

// drainReadySet pops every entry due at exactly t and returns the
// distinct set of nodes they name, in rank order.
func (g *Graph) drainReadySet(t Time) []*Node {
	g.pendingMu.Lock()
	seen := map[*Node]bool{}
	var ready []*Node
	for len(g.pending) > 0 && g.pending[0].when.Equal(t) {
		e := heap.Pop(&g.pending).(*pendingEntry)
		if seen[e.node] {
			continue
		}
		seen[e.node] = true
		ready = append(ready, e.node)
	}
	g.pendingMu.Unlock()
	sort.SliceStable(ready, func(i, j int) bool { return ready[i].rank < ready[j].rank })
	return ready
}
