package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StoreMetrics holds the collectors describing task store activity
type StoreMetrics struct {
	Mutations       *prometheus.CounterVec
	Noops           *prometheus.CounterVec
	PersistFailures prometheus.Counter
	LoadFailures    *prometheus.CounterVec
	Tasks           *prometheus.GaugeVec
}

// NewStoreMetrics creates the store collectors and registers them with reg.
// A nil registerer leaves them unregistered, which is what tests usually want.
func NewStoreMetrics(reg prometheus.Registerer) *StoreMetrics {
	m := &StoreMetrics{
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_store_mutations_total",
				Help: "Total number of applied task store mutations",
			},
			[]string{"operation"},
		),
		Noops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_store_noops_total",
				Help: "Mutations ignored because of blank text or an unknown id",
			},
			[]string{"operation"},
		),
		PersistFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "todo_store_persist_failures_total",
				Help: "Writes to the durable slot that failed",
			},
		),
		LoadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todo_store_load_failures_total",
				Help: "Loads that fell back to an empty list",
			},
			[]string{"reason"},
		),
		Tasks: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "todo_store_tasks",
				Help: "Number of tasks currently held, by completion state",
			},
			[]string{"state"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.Mutations, m.Noops, m.PersistFailures, m.LoadFailures, m.Tasks)
	}

	return m
}

// SetTaskCounts updates the pending/completed gauges
func (m *StoreMetrics) SetTaskCounts(pending, completed int) {
	m.Tasks.WithLabelValues("pending").Set(float64(pending))
	m.Tasks.WithLabelValues("completed").Set(float64(completed))
}

// HTTPMetrics holds the request collectors installed by the server
type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTPMetrics creates and registers the HTTP collectors
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.RequestsTotal, m.RequestDuration)
	}

	return m
}
