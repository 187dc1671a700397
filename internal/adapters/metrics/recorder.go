// Package metrics exports engine counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements ports.Metrics.
type Recorder struct {
	EventsDecoded  *prometheus.CounterVec
	DecodeErrors   *prometheus.CounterVec
	Commits        prometheus.Counter
	CommitDuration prometheus.Histogram
	ContextChanges prometheus.Counter
	Gaps           prometheus.Counter
}

// New registers the engine metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		EventsDecoded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edc_events_decoded_total",
			Help: "Journal events decoded, by event kind",
		}, []string{"kind"}),
		DecodeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "edc_decode_errors_total",
			Help: "Journal records that failed to decode, by reason",
		}, []string{"reason"}),
		Commits: factory.NewCounter(prometheus.CounterOpts{
			Name: "edc_commits_total",
			Help: "Snapshot versions committed",
		}),
		CommitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "edc_commit_duration_seconds",
			Help:    "Time from decoded event to committed snapshot",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		ContextChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "edc_context_changes_total",
			Help: "Current system changes observed",
		}),
		Gaps: factory.NewCounter(prometheus.CounterOpts{
			Name: "edc_ingestion_gaps_total",
			Help: "Journal stream discontinuities detected",
		}),
	}
}

func (r *Recorder) EventDecoded(kind string) {
	r.EventsDecoded.WithLabelValues(kind).Inc()
}

func (r *Recorder) DecodeFailed(reason string) {
	r.DecodeErrors.WithLabelValues(reason).Inc()
}

// Committed records one commit and how long it took.
func (r *Recorder) Committed(elapsed time.Duration) {
	r.Commits.Inc()
	r.CommitDuration.Observe(elapsed.Seconds())
}

func (r *Recorder) ContextChanged() { r.ContextChanges.Inc() }

func (r *Recorder) GapDetected() { r.Gaps.Inc() }

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
