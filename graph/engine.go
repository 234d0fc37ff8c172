package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/tsflow/tsflow/graph/emit"
)

// Run drives g from its configured start time until end time, a clean
// stop request, or a fatal node error (spec.md §4.1, §5):
//
//  1. Every node is started, in rank order.
//  2. The engine repeatedly finds the earliest logical time any node is
//     due, advances its clock to it (pacing to wall-clock time in
//     RealTime mode), then evaluates that whole logical instant: nodes
//     due at t run in rank order, and any node they newly schedule for
//     the same t is picked up and evaluated in turn, until nothing more
//     is due at t. Only then do the after-evaluation callbacks those
//     evaluations registered run (e.g. TSS/TSD per-tick bookkeeping
//     cleanup) — once per instant, not once per rank wave.
//  3. Every node is stopped, in reverse rank order, before Run returns.
//
// A BindingError, StartError or EvalError aborts the run immediately;
// Run still attempts to stop every started node before returning the
// original error. A quiescent graph — nothing left scheduled — ends the
// run cleanly with a nil error, except in RealTime mode with an end time
// not yet reached: there Run waits until new work is scheduled (e.g. by
// a push source's Send) or ctx is done.
func Run(ctx context.Context, g *Graph, opts ...Option) error {
	cfg := defaultRunConfig()
	cfg.mode = g.mode
	cfg.emitter = g.emitter
	cfg.metrics = g.metrics
	for _, o := range opts {
		o(cfg)
	}
	g.mode = cfg.mode
	g.emitter = cfg.emitter
	g.metrics = cfg.metrics
	g.now = cfg.startTime

	ectx := &ExecutionContext{graph: g, GlobalState: map[string]any{}}

	g.emitter.Emit(emit.Event{Kind: emit.RunStarted, EngineTime: engineTimeOf(g.now)})

	for _, n := range g.Nodes {
		if err := n.Start(ectx); err != nil {
			for i := len(g.Nodes) - 1; i >= 0; i-- {
				_ = g.Nodes[i].Stop(ectx)
			}
			return err
		}
		g.emitter.Emit(emit.Event{Kind: emit.NodeStarted, EngineTime: engineTimeOf(g.now), NodeID: n.ID.String()})
	}

	runErr := runLoop(ctx, g, ectx, cfg)

	for i := len(g.Nodes) - 1; i >= 0; i-- {
		n := g.Nodes[i]
		if err := n.Stop(ectx); err != nil && runErr == nil {
			runErr = err
		}
		g.emitter.Emit(emit.Event{Kind: emit.NodeStopped, EngineTime: engineTimeOf(g.now), NodeID: n.ID.String()})
	}

	g.emitter.Emit(emit.Event{Kind: emit.RunCompleted, EngineTime: engineTimeOf(g.now)})
	return runErr
}

func runLoop(ctx context.Context, g *Graph, ectx *ExecutionContext, cfg *RunConfig) error {
	ticks := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if g.stopRequested {
			return nil
		}

		t, ok := g.nextScheduledTime()
		if !ok {
			if !cfg.hasEnd || !timeLess(g.now, cfg.endTime) || g.mode != RealTime {
				return nil
			}
			if !waitForWork(ctx, g) {
				return ctx.Err()
			}
			continue
		}

		if cfg.hasEnd && timeLess(cfg.endTime, t) {
			return nil
		}

		if g.mode == RealTime {
			if !sleepUntil(ctx, t) {
				return ctx.Err()
			}
		}

		ticks++
		if cfg.maxTicks > 0 && ticks > cfg.maxTicks {
			return fmt.Errorf("tsflow: run exceeded max ticks (%d)", cfg.maxTicks)
		}

		g.now = t
		for {
			wave := g.drainReadySet(t)
			if len(wave) == 0 {
				break
			}
			for _, n := range wave {
				start := time.Now()
				err := n.Eval(ectx)
				g.metrics.observeEval(n.ID.String(), time.Since(start), err)
				if err != nil {
					g.emitter.Emit(emit.Event{
						Kind: emit.NodeError, EngineTime: engineTimeOf(t), NodeID: n.ID.String(),
						Meta: map[string]any{"error": err.Error()},
					})
					return err
				}
				g.emitter.Emit(emit.Event{Kind: emit.NodeEvaluated, EngineTime: engineTimeOf(t), NodeID: n.ID.String()})
			}
		}
		g.runAfterEvalCallbacks()
		g.metrics.setScheduledCount(pendingLen(g))

		if cfg.hasEnd && t.Equal(cfg.endTime) {
			return nil
		}
	}
}

func waitForWork(ctx context.Context, g *Graph) bool {
	select {
	case <-ctx.Done():
		return false
	case <-g.wake:
		return true
	}
}

func sleepUntil(ctx context.Context, t Time) bool {
	d := time.Until(t)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func pendingLen(g *Graph) int {
	g.pendingMu.Lock()
	defer g.pendingMu.Unlock()
	return len(g.pending)
}

// engineTimeOf renders a logical Time as the integer nanosecond value
// emit.Event.EngineTime carries, so observability backends never need to
// import this package's Time alias.
func engineTimeOf(t Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}
