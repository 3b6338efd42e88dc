package ranking

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankCandidatesTotal = "rank_candidates_scored_total"
	MetricRankResultsReturned = "rank_results_returned"
	MetricRankDuration        = "rank_duration_seconds"
	MetricRankDistanceDropped = "rank_distance_filtered_total"
)

// Metrics contains Prometheus metrics for the ranking pipeline.
// All operations are thread-safe.
type Metrics struct {
	candidatesScored prometheus.Counter
	resultsReturned  prometheus.Histogram
	rankDuration     prometheus.Histogram
	distanceFiltered prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		candidatesScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankCandidatesTotal,
			Help: "Total number of candidates scored by the ranking pipeline",
		}),
		resultsReturned: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankResultsReturned,
			Help:    "Number of results returned per ranking invocation",
			Buckets: []float64{0, 1, 5, 10, 20, 50},
		}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of ranking pipeline duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		distanceFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricRankDistanceDropped,
			Help: "Total number of candidates dropped by the distance cutoff",
		}),
	}
}

// Register registers all metrics with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.candidatesScored,
		m.resultsReturned,
		m.rankDuration,
		m.distanceFiltered,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveRank records one ranking invocation.
func (m *Metrics) ObserveRank(candidates, returned int, seconds float64) {
	m.candidatesScored.Add(float64(candidates))
	m.resultsReturned.Observe(float64(returned))
	m.rankDuration.Observe(seconds)
}

// IncDistanceFiltered increments the distance-cutoff drop counter.
func (m *Metrics) IncDistanceFiltered() {
	m.distanceFiltered.Inc()
}
