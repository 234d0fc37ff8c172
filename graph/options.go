package graph

import (
	"github.com/tsflow/tsflow/graph/emit"
)

// RunConfig collects the options a Run accepts, assembled via the
// functional-options pattern so call sites only specify what they need.
type RunConfig struct {
	mode      RunMode
	emitter   emit.Emitter
	metrics   *Metrics
	startTime Time
	endTime   Time
	hasEnd    bool
	maxTicks  int
}

// Option configures a Run.
type Option func(*RunConfig)

func defaultRunConfig() *RunConfig {
	return &RunConfig{mode: Simulation, emitter: emit.NullEmitter{}}
}

// WithMode selects Simulation (default, as fast as possible) or RealTime
// (paced to wall-clock time) advancement.
func WithMode(m RunMode) Option {
	return func(c *RunConfig) { c.mode = m }
}

// WithEmitter wires an observability sink; the default is a no-op.
func WithEmitter(e emit.Emitter) Option {
	return func(c *RunConfig) {
		if e != nil {
			c.emitter = e
		}
	}
}

// WithMetrics wires a Prometheus metrics sink; the default records
// nothing.
func WithMetrics(m *Metrics) Option {
	return func(c *RunConfig) { c.metrics = m }
}

// WithStartTime sets the logical time the run begins at. The default is
// the zero Time.
func WithStartTime(t Time) Option {
	return func(c *RunConfig) { c.startTime = t }
}

// WithEndTime bounds the run: evaluation stops after the instant at t has
// been evaluated, or once the logical clock would advance past t. Values
// still queued on a push source for a later time are not delivered.
// Without WithEndTime, the run continues until the graph goes quiescent
// (nothing left scheduled) or an explicit ExecutionContext.RequestStop.
func WithEndTime(t Time) Option {
	return func(c *RunConfig) { c.endTime = t; c.hasEnd = true }
}

// WithMaxTicks caps the number of distinct logical-time advances the run
// will perform, guarding against runaway self-scheduling loops in tests.
// Zero (the default) means unlimited.
func WithMaxTicks(n int) Option {
	return func(c *RunConfig) { c.maxTicks = n }
}
