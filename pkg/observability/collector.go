package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports finished search runs as Prometheus metrics.
type Collector struct {
	runs      *prometheus.CounterVec
	expanded  prometheus.Counter
	generated prometheus.Counter
	evaluated prometheus.Counter
	deadEnds  prometheus.Counter
	reopened  prometheus.Counter
	duration  *prometheus.HistogramVec
	planCost  prometheus.Histogram
}

// NewCollector creates the metric set under the given namespace.
func NewCollector(namespace string) *Collector {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		})
	}
	return &Collector{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "search_runs_total",
				Help:      "Number of finished search runs by status",
			},
			[]string{"status"},
		),
		expanded:  counter("expanded_states_total", "States expanded across all runs"),
		generated: counter("generated_states_total", "States generated across all runs"),
		evaluated: counter("evaluated_states_total", "States evaluated across all runs"),
		deadEnds:  counter("dead_end_states_total", "Dead ends detected across all runs"),
		reopened:  counter("reopened_states_total", "States reopened across all runs"),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Wall-clock duration of search runs",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"status"},
		),
		planCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_cost",
			Help:      "Cost of plans found",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.runs.Describe(ch)
	c.expanded.Describe(ch)
	c.generated.Describe(ch)
	c.evaluated.Describe(ch)
	c.deadEnds.Describe(ch)
	c.reopened.Describe(ch)
	c.duration.Describe(ch)
	c.planCost.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.runs.Collect(ch)
	c.expanded.Collect(ch)
	c.generated.Collect(ch)
	c.evaluated.Collect(ch)
	c.deadEnds.Collect(ch)
	c.reopened.Collect(ch)
	c.duration.Collect(ch)
	c.planCost.Collect(ch)
}

// Observe records a finished run. A negative cost means no plan was found.
func (c *Collector) Observe(status string, snap Snapshot, elapsed time.Duration, cost int) {
	c.runs.WithLabelValues(status).Inc()
	c.expanded.Add(float64(snap.Expanded))
	c.generated.Add(float64(snap.Generated))
	c.evaluated.Add(float64(snap.EvaluatedStates))
	c.deadEnds.Add(float64(snap.DeadEnds))
	c.reopened.Add(float64(snap.Reopened))
	c.duration.WithLabelValues(status).Observe(elapsed.Seconds())
	if cost >= 0 {
		c.planCost.Observe(float64(cost))
	}
}
