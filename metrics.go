package gridastar

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments finished search runs. A nil *Metrics records nothing.
type Metrics struct {
	searches *prometheus.CounterVec
	expanded prometheus.Histogram
	duration prometheus.Histogram
}

// outcomeError labels runs aborted by ErrInternalConsistency.
const outcomeError = "error"

// NewMetrics creates the search metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gridastar_searches_total",
			Help: "Total search runs by outcome",
		}, []string{"outcome"}),
		expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridastar_search_expanded_nodes",
			Help:    "Cells closed per finished search run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gridastar_search_duration_seconds",
			Help:    "Search run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.searches, m.expanded, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(result Result) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(result.Outcome.String()).Inc()
	m.expanded.Observe(float64(result.Expanded))
}

// observeDuration is only called for Search; stepped runs are paced by the caller.
func (m *Metrics) observeDuration(took time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(took.Seconds())
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcomeError).Inc()
}
