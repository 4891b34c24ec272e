package cborbody

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts extraction outcomes and body sizes. A nil *Metrics records
// nothing.
type Metrics struct {
	extractions *prometheus.CounterVec
	bodySize    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cbor",
			Subsystem: "body",
			Name:      "extractions_total",
			Help:      "CBOR body extractions by result.",
		}, []string{"result"}),
		bodySize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cbor",
			Subsystem: "body",
			Name:      "size_bytes",
			Help:      "Size of successfully read CBOR bodies after decompression.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.extractions, m.bodySize)
	}

	return m
}

func (m *Metrics) observeSuccess(size int) {
	if m == nil {
		return
	}

	m.extractions.WithLabelValues("ok").Inc()
	m.bodySize.Observe(float64(size))
}

func (m *Metrics) observeFailure(kind Kind) {
	if m == nil {
		return
	}

	m.extractions.WithLabelValues(kind.String()).Inc()
}
