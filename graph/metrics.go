package graph

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes Prometheus-compatible instrumentation for a graph run,
// namespaced "tsflow_". It mirrors the teacher's PrometheusMetrics shape
// (gauges for point-in-time state, histograms for per-node latency,
// counters for cumulative totals) retargeted at dataflow-engine concerns
// instead of workflow-step concerns.
type Metrics struct {
	scheduledNodes   prometheus.Gauge
	pushQueueDepth   *prometheus.GaugeVec
	evalLatency      *prometheus.HistogramVec
	evalsTotal       *prometheus.CounterVec
	errorsTotal      *prometheus.CounterVec
	pushEnqueueTotal *prometheus.CounterVec
}

// NewMetrics registers a Metrics set against reg. Pass
// prometheus.NewRegistry() for an isolated test registry, or
// prometheus.DefaultRegisterer for process-wide export via promhttp.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		scheduledNodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "tsflow",
			Name:      "scheduled_nodes",
			Help:      "Number of pending wakeup entries (scheduled or input-triggered) in the graph's pending-time heap; a node may hold several.",
		}),
		pushQueueDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "tsflow",
			Name:      "push_queue_depth",
			Help:      "Number of values buffered in a push source's sender/receiver queue.",
		}, []string{"node_id"}),
		evalLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tsflow",
			Name:      "eval_latency_seconds",
			Help:      "Wall-clock duration of a single node evaluation.",
			Buckets:   []float64{.00005, .0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"node_id"}),
		evalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsflow",
			Name:      "evals_total",
			Help:      "Cumulative count of node evaluations.",
		}, []string{"node_id"}),
		errorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsflow",
			Name:      "errors_total",
			Help:      "Cumulative count of node errors by kind.",
		}, []string{"node_id", "kind"}),
		pushEnqueueTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tsflow",
			Name:      "push_enqueue_total",
			Help:      "Cumulative count of values enqueued onto a push source.",
		}, []string{"node_id"}),
	}
}

func (m *Metrics) observeEval(nodeID string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.evalsTotal.WithLabelValues(nodeID).Inc()
	m.evalLatency.WithLabelValues(nodeID).Observe(d.Seconds())
	if err != nil {
		m.errorsTotal.WithLabelValues(nodeID, errorKindLabel(err)).Inc()
	}
}

func (m *Metrics) setScheduledCount(n int) {
	if m == nil {
		return
	}
	m.scheduledNodes.Set(float64(n))
}

func (m *Metrics) setPushQueueDepth(nodeID string, depth int) {
	if m == nil {
		return
	}
	m.pushQueueDepth.WithLabelValues(nodeID).Set(float64(depth))
}

func (m *Metrics) incPushEnqueue(nodeID string) {
	if m == nil {
		return
	}
	m.pushEnqueueTotal.WithLabelValues(nodeID).Inc()
}

func errorKindLabel(err error) string {
	ne, ok := err.(*NodeError)
	if !ok || ne.Kind == nil {
		return "unknown"
	}
	return ne.Kind.Error()
}
