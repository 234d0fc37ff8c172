package graph

// PullGenerator produces the next (time, value) pair of a pull source
// given the previous pair it returned (MinDT, nil on the very first
// call). Returning ok=false means the generator is exhausted and the
// node will never fire again (spec.md §4.6).
type PullGenerator func(prevTime Time, prevValue any) (nextTime Time, nextValue any, ok bool)

// pullState is the resumable-generator bookkeeping behind a pull source
// node: it pre-fetches one value ahead so the node always knows its next
// wakeup time before that time arrives, self-scheduling via
// Node.ScheduleSelf rather than reacting to any input.
type pullState struct {
	gen          PullGenerator
	lastTime     Time
	lastValue    any
	pendingValue any
	pendingValid bool
	exhausted    bool
}

const pullTag = "pull"

func (ps *pullState) advance(n *Node) {
	if ps.exhausted {
		return
	}
	t, v, ok := ps.gen(ps.lastTime, ps.lastValue)
	if !ok {
		ps.exhausted = true
		return
	}
	ps.lastTime = t
	ps.lastValue = v
	ps.pendingValue = v
	ps.pendingValid = true
	n.ScheduleSelf(t, pullTag)
}

// NewPullSourceNode builds a PullSource node with no time-series inputs,
// driven entirely by gen: on Start it pre-fetches the first value and
// schedules itself for that time; each Eval applies the pre-fetched
// value to output and immediately pre-fetches the next one.
func NewPullSourceNode(id NodeID, name string, output *Output, scalars map[string]any, gen PullGenerator) *Node {
	ps := &pullState{gen: gen, lastTime: MinDT}
	sig := &NodeSignature{Name: name, Kind: PullSource, OutputShape: output.shape, UsesScheduler: true}
	startFn := func(ctx *ExecutionContext, n *Node) error {
		ps.advance(n)
		return nil
	}
	evalFn := func(ctx *ExecutionContext, n *Node) error {
		if ps.pendingValid {
			n.Output.ApplyAny(ctx.Now(), ps.pendingValue)
			ps.pendingValid = false
		}
		ps.advance(n)
		return nil
	}
	return NewNode(id, sig, map[string]*Input{}, output, scalars, evalFn, startFn, nil)
}
