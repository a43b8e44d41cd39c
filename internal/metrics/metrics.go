package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for acquisition and assessment.
type Metrics struct {
	Acquisitions        *prometheus.CounterVec // labels: source={live,synthetic}
	AcquisitionFailures *prometheus.CounterVec // labels: reason
	AcquisitionDuration prometheus.Histogram
	ForecastFailures    prometheus.Counter
	Assessments         *prometheus.CounterVec // labels: severity={OK,WARNING}
	RejectedSubmissions *prometheus.CounterVec // labels: reason={validation,rate_limited,busy}
}

func newMetrics() *Metrics {
	return &Metrics{
		Acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "acquisitions_total",
			Help:      "Weather acquisitions by data source.",
		}, []string{"source"}),
		AcquisitionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "acquisition_failures_total",
			Help:      "Live acquisition failures that fell back to synthetic data, by reason.",
		}, []string{"reason"}),
		AcquisitionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parade_weather",
			Name:      "acquisition_duration_seconds",
			Help:      "Duration of a geocode plus weather acquisition.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ForecastFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "forecast_failures_total",
			Help:      "Forecast requests that failed while current conditions succeeded.",
		}),
		Assessments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "assessments_total",
			Help:      "Event assessments by aggregate severity.",
		}, []string{"severity"}),
		RejectedSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parade_weather",
			Name:      "rejected_submissions_total",
			Help:      "Submissions rejected before acquisition, by reason.",
		}, []string{"reason"}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Acquisitions,
		m.AcquisitionFailures,
		m.AcquisitionDuration,
		m.ForecastFailures,
		m.Assessments,
		m.RejectedSubmissions,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
