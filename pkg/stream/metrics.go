package stream

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by Consumer and Sweeper.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	delivered     *prometheus.CounterVec
	acked         *prometheus.CounterVec
	failed        *prometheus.CounterVec
	deadLettered  prometheus.Counter
	trimmed       prometheus.Counter
	cycleErrors   *prometheus.CounterVec
	cycleDuration prometheus.Histogram
}

// NewMetrics registers the pipeline collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		delivered: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "entries_delivered_total",
			Help:      "Entries handed to the dispatcher, split by fresh and reclaimed deliveries.",
		}, []string{"retry"}),
		acked: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "entries_acked_total",
			Help:      "Entries acknowledged after successful dispatch.",
		}, []string{"retry"}),
		failed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "entries_failed_total",
			Help:      "Dispatch failures left pending for reclaim.",
		}, []string{"retry"}),
		deadLettered: f.NewCounter(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "entries_dead_lettered_total",
			Help:      "Entries moved to the dead-letter stream after too many deliveries.",
		}),
		trimmed: f.NewCounter(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "entries_trimmed_total",
			Help:      "Entries discarded by the retention sweep.",
		}),
		cycleErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stream",
			Name:      "cycle_errors_total",
			Help:      "Cycles aborted by store errors, split by stage.",
		}, []string{"stage"}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "stream",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a delivery and reclaim cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeDelivered(retry bool) {
	if m != nil {
		m.delivered.WithLabelValues(strconv.FormatBool(retry)).Inc()
	}
}

func (m *Metrics) observeAcked(retry bool) {
	if m != nil {
		m.acked.WithLabelValues(strconv.FormatBool(retry)).Inc()
	}
}

func (m *Metrics) observeFailed(retry bool) {
	if m != nil {
		m.failed.WithLabelValues(strconv.FormatBool(retry)).Inc()
	}
}

func (m *Metrics) observeDeadLettered() {
	if m != nil {
		m.deadLettered.Inc()
	}
}

func (m *Metrics) observeTrimmed(n int64) {
	if m != nil && n > 0 {
		m.trimmed.Add(float64(n))
	}
}

func (m *Metrics) observeCycleError(stage string) {
	if m != nil {
		m.cycleErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) observeCycle(d time.Duration) {
	if m != nil {
		m.cycleDuration.Observe(d.Seconds())
	}
}
