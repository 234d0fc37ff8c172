package graph

// EvalFunc is a node's per-tick computation: read active/valid Inputs off
// n, and write to n.Output via its typed Apply* methods (spec.md §4.2).
type EvalFunc func(ctx *ExecutionContext, n *Node) error

// StartFunc runs once before a node's first possible evaluation.
type StartFunc func(ctx *ExecutionContext, n *Node) error

// StopFunc runs once when a node is torn down at the end of a run.
type StopFunc func(ctx *ExecutionContext, n *Node) error

// Node is one vertex of the dataflow graph: a declared set of named
// Inputs, an optional Output (nil for Sink nodes), a set of scalar
// (non-time-series) arguments supplied at construction, and the three
// lifecycle functions that drive it.
type Node struct {
	ID        NodeID
	Signature *NodeSignature
	Scalars   map[string]any
	Inputs    map[string]*Input
	Output    *Output

	graph *Graph
	rank  int

	scheduler *NodeScheduler

	evalFn  EvalFunc
	startFn StartFunc
	stopFn  StopFunc

	started bool
	stopped bool
}

// NewNode constructs a Node and wires owner back-pointers into its input
// and output trees.
func NewNode(id NodeID, sig *NodeSignature, inputs map[string]*Input, output *Output, scalars map[string]any, evalFn EvalFunc, startFn StartFunc, stopFn StopFunc) *Node {
	n := &Node{
		ID:        id,
		Signature: sig,
		Inputs:    inputs,
		Output:    output,
		Scalars:   scalars,
		evalFn:    evalFn,
		startFn:   startFn,
		stopFn:    stopFn,
	}
	for _, in := range inputs {
		in.owner = n
	}
	if output != nil {
		output.owner = n
	}
	return n
}

// Scheduler returns this node's NodeScheduler, creating it lazily on
// first use (spec.md §4.2: a node that never calls it pays nothing).
func (n *Node) Scheduler() *NodeScheduler {
	if n.scheduler == nil {
		n.scheduler = newNodeScheduler()
	}
	return n.scheduler
}

// Rank returns this node's topological evaluation order within a tick:
// push/pull sources first, then compute nodes in dependency order, sinks
// last (spec.md §4.1).
func (n *Node) Rank() int { return n.rank }

// Start activates this node's declared active inputs and runs its start
// function, if any.
func (n *Node) Start(ctx *ExecutionContext) error {
	if n.started {
		return nil
	}
	active := n.Signature.activeSet()
	for _, name := range n.Signature.Inputs {
		if active[name] {
			n.Inputs[name].MakeActive()
		}
	}
	if n.startFn != nil {
		if err := n.startFn(ctx, n); err != nil {
			return newStartError(n.ID, err)
		}
	}
	n.started = true
	return nil
}

// Stop runs this node's stop function, if any, and deactivates its
// inputs.
func (n *Node) Stop(ctx *ExecutionContext) error {
	if !n.started || n.stopped {
		return nil
	}
	if n.stopFn != nil {
		if err := n.stopFn(ctx, n); err != nil {
			return err
		}
	}
	for _, in := range n.Inputs {
		in.MakePassive()
	}
	n.stopped = true
	return nil
}

// readyToEval reports whether every input in this node's valid-inputs
// gating set currently holds a value (spec.md §4.2 eval contract).
func (n *Node) readyToEval() bool {
	for name := range n.Signature.validSet() {
		in, ok := n.Inputs[name]
		if !ok {
			continue
		}
		if !in.Valid() {
			return false
		}
	}
	return true
}

// Eval runs this node's eval function if its valid-inputs gate is
// satisfied; otherwise it is silently skipped for this tick (spec.md
// §4.2: "a node scheduled or triggered while its valid-inputs gate is
// unsatisfied does not run, and is not re-queued").
func (n *Node) Eval(ctx *ExecutionContext) error {
	if !n.readyToEval() {
		return nil
	}
	if n.evalFn == nil {
		return nil
	}
	if err := n.evalFn(ctx, n); err != nil {
		return newEvalError(n.ID, err)
	}
	return nil
}

// ScheduleSelf requests a future wakeup tagged by tag, both in this
// node's own NodeScheduler (so Eval can tell which tags fired) and on
// the owning Graph's pending-time heap (so the engine actually visits
// this node at that time).
func (n *Node) ScheduleSelf(when Time, tag any) {
	n.Scheduler().Schedule(when, tag)
	if n.graph != nil {
		n.graph.scheduleNode(n, when)
	}
}

// UnscheduleSelf cancels a previously requested wakeup tagged by tag.
func (n *Node) UnscheduleSelf(tag any) {
	if n.scheduler != nil {
		n.scheduler.Unschedule(tag)
	}
}

// scheduleForInputChange is called by Output.touch for every active
// subscriber's owning node: an active input changing value always
// schedules its owner for the current tick.
func (n *Node) scheduleForInputChange(now Time) {
	if n.graph != nil {
		n.graph.scheduleNode(n, now)
	}
}
