// Package metrics exposes Prometheus collectors for the task aggregator.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records gateway traffic generated by aggregation. A nil
// *Recorder is valid and records nothing.
type Recorder struct {
	gatewayCalls    *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	fanOut          prometheus.Histogram
	categoryReads   *prometheus.CounterVec
}

// NewRecorder creates the collectors and registers them with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		gatewayCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remindify_gateway_calls_total",
				Help: "Persistence gateway calls by operation and outcome",
			},
			[]string{"op", "outcome"},
		),
		gatewayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "remindify_gateway_call_duration_seconds",
				Help:    "Persistence gateway call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		fanOut: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "remindify_aggregation_fanout_lists",
				Help:    "Number of per-list queries issued by one aggregation",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
			},
		),
		categoryReads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "remindify_category_reads_total",
				Help: "Category views served by category",
			},
			[]string{"category"},
		),
	}

	reg.MustRegister(r.gatewayCalls, r.gatewayDuration, r.fanOut, r.categoryReads)
	return r
}

// ObserveGatewayCall records one gateway round trip
func (r *Recorder) ObserveGatewayCall(op string, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.gatewayCalls.WithLabelValues(op, outcome).Inc()
	r.gatewayDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveFanOut records how many lists one aggregation queried
func (r *Recorder) ObserveFanOut(lists int) {
	if r == nil {
		return
	}
	r.fanOut.Observe(float64(lists))
}

// ObserveCategoryRead counts one category view
func (r *Recorder) ObserveCategoryRead(category string) {
	if r == nil {
		return
	}
	r.categoryReads.WithLabelValues(category).Inc()
}
