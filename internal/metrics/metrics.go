package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the forecast pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	PipelineRuns   *prometheus.CounterVec // labels: outcome (ok or an error kind)
	PredictionDur  prometheus.Histogram
	StaleResponses prometheus.Counter
	ChartsCreated  prometheus.Counter
	ChartRenders   *prometheus.CounterVec // labels: format
	RecorderErrors prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecastlens_pipeline_runs_total",
			Help: "Forecast pipeline runs by outcome",
		}, []string{"outcome"}),
		PredictionDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "forecastlens_prediction_duration_seconds",
			Help:    "Latency of prediction service requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		StaleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecastlens_stale_responses_total",
			Help: "Responses discarded because a newer action superseded them",
		}),
		ChartsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecastlens_charts_created_total",
			Help: "Chart instances created",
		}),
		ChartRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "forecastlens_chart_renders_total",
			Help: "Chart images encoded by format",
		}, []string{"format"}),
		RecorderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "forecastlens_recorder_errors_total",
			Help: "Failed history writes",
		}),
	}

	reg.MustRegister(
		m.PipelineRuns,
		m.PredictionDur,
		m.StaleResponses,
		m.ChartsCreated,
		m.ChartRenders,
		m.RecorderErrors,
	)
	return m
}

// ObserveRun counts one pipeline run with its outcome.
func (m *Metrics) ObserveRun(outcome string) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(outcome).Inc()
}

// ObservePrediction records the latency of one prediction request.
func (m *Metrics) ObservePrediction(d time.Duration) {
	if m == nil {
		return
	}
	m.PredictionDur.Observe(d.Seconds())
}

func (m *Metrics) IncStale() {
	if m == nil {
		return
	}
	m.StaleResponses.Inc()
}

func (m *Metrics) IncChartCreated() {
	if m == nil {
		return
	}
	m.ChartsCreated.Inc()
}

func (m *Metrics) IncRender(format string) {
	if m == nil {
		return
	}
	m.ChartRenders.WithLabelValues(format).Inc()
}

func (m *Metrics) IncRecorderError() {
	if m == nil {
		return
	}
	m.RecorderErrors.Inc()
}
