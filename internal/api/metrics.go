package api

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	allocations        *prometheus.CounterVec
	allocationDuration prometheus.Histogram
	validations        *prometheus.CounterVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	m := &metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invigilation",
			Name:      "allocations_total",
			Help:      "Allocation runs by outcome (success, incomplete, malformed, cancelled).",
		}, []string{"outcome"}),
		allocationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "invigilation",
			Name:      "allocation_duration_seconds",
			Help:      "Duration of allocation runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invigilation",
			Name:      "validations_total",
			Help:      "Edit validations by operation and verdict.",
		}, []string{"operation", "valid"}),
	}

	if registerer != nil {
		registerer.MustRegister(m.allocations, m.allocationDuration, m.validations)
	}
	return m
}

func (m *metrics) observeValidation(operation string, valid bool) {
	m.validations.WithLabelValues(operation, strconv.FormatBool(valid)).Inc()
}
