package graph

import "sync"

// pushItem is one value enqueued onto a push source, tagged with the
// logical time it should be applied at.
type pushItem struct {
	at    Time
	value any
}

// PushState is the thread-safe mailbox behind a push source node
// (spec.md §4.5): any goroutine may call Send concurrently with the
// engine's evaluation loop; the node's own Eval drains exactly one
// queued value per tick.
type PushState struct {
	mu      sync.Mutex
	queue   []pushItem
	stopped bool
	node    *Node
}

// Send enqueues value to be applied at logical time at, waking the owning
// node. Returns ErrEnqueueOnStopped once Stop has been called.
func (p *PushState) Send(at Time, value any) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrEnqueueOnStopped
	}
	p.queue = append(p.queue, pushItem{at: at, value: value})
	depth := len(p.queue)
	p.mu.Unlock()

	if p.node != nil {
		if p.node.graph != nil {
			p.node.graph.scheduleNode(p.node, at)
			p.node.graph.metrics.incPushEnqueue(p.node.ID.String())
			p.node.graph.metrics.setPushQueueDepth(p.node.ID.String(), depth)
		}
	}
	return nil
}

// Stop marks the push source as closed: further Send calls fail, but
// already-queued values are still delivered.
func (p *PushState) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
}

func (p *PushState) dequeue() (pushItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return pushItem{}, false
	}
	item := p.queue[0]
	p.queue = p.queue[1:]
	return item, true
}

// HasPending reports whether any value is still queued for delivery.
func (p *PushState) HasPending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue) > 0
}

// Len returns the number of values currently queued.
func (p *PushState) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// PeekNextTime returns the logical time of the next queued value, if any.
func (p *PushState) PeekNextTime() (Time, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.queue) == 0 {
		return Time{}, false
	}
	return p.queue[0].at, true
}

// IsStopped reports whether Stop has been called.
func (p *PushState) IsStopped() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}

// NewPushSourceNode builds a PushSource node with no time-series inputs:
// each Eval dequeues and applies exactly one pending value to output
// (spec.md §4.5). The returned PushState is the handle external senders
// use to feed values into the graph.
func NewPushSourceNode(id NodeID, name string, output *Output, scalars map[string]any) (*Node, *PushState) {
	state := &PushState{}
	sig := &NodeSignature{Name: name, Kind: PushSource, OutputShape: output.shape}
	evalFn := func(ctx *ExecutionContext, n *Node) error {
		item, ok := state.dequeue()
		if !ok {
			return nil
		}
		n.Output.ApplyAny(ctx.Now(), item.value)
		if n.graph != nil {
			n.graph.metrics.setPushQueueDepth(n.ID.String(), state.Len())
			if next, ok := state.PeekNextTime(); ok {
				n.graph.scheduleNode(n, next)
			}
		}
		return nil
	}
	n := NewNode(id, sig, map[string]*Input{}, output, scalars, evalFn, nil, func(ctx *ExecutionContext, n *Node) error {
		state.Stop()
		return nil
	})
	state.node = n
	return n, state
}
