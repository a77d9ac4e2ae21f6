package usecase

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/riskibarqy/match-predictor/internal/domain/matchcontext"
)

const (
	outcomeSuccess       = "success"
	outcomeNotFound      = "not_found"
	outcomeInvalidOutput = "invalid_output"
	outcomeModelFailed   = "model_failed"
	outcomeStoreFailed   = "store_failed"
	outcomeError         = "error"
)

// Metrics holds the prediction pipeline collectors. A nil *Metrics records nothing.
type Metrics struct {
	runs             *prometheus.CounterVec
	degraded         *prometheus.CounterVec
	duration         prometheus.Histogram
	fixtureRefreshes *prometheus.CounterVec
	fixtureEntries   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_pipeline_runs_total",
			Help: "Prediction pipeline runs by outcome",
		}, []string{"outcome"}),
		degraded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prediction_pipeline_degraded_sources_total",
			Help: "Secondary sources replaced by a fallback during aggregation",
		}, []string{"source"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_pipeline_duration_seconds",
			Help:    "Duration of prediction pipeline runs",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}),
		fixtureRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fixture_cache_refreshes_total",
			Help: "Fixture cache refreshes by result",
		}, []string{"result"}),
		fixtureEntries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fixture_cache_entries",
			Help: "Entries in the current fixture cache snapshot",
		}),
	}
}

func (m *Metrics) observeRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeDegraded(source matchcontext.Source) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(string(source)).Inc()
}

func (m *Metrics) observeFixtureRefresh(err error, entries int) {
	if m == nil {
		return
	}
	if err != nil {
		m.fixtureRefreshes.WithLabelValues("failed").Inc()
		return
	}
	m.fixtureRefreshes.WithLabelValues("ok").Inc()
	m.fixtureEntries.Set(float64(entries))
}
